package service

import (
	"github.com/gin-gonic/gin"

	"github.com/askdb-ai/askdb/app/core"
	v1 "github.com/askdb-ai/askdb/app/logic/v1"
	"github.com/askdb-ai/askdb/app/response"
	"github.com/askdb-ai/askdb/cmd/service/handler"
	"github.com/askdb-ai/askdb/cmd/service/middleware"
	"github.com/askdb-ai/askdb/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.GET("/api/health", func(c *gin.Context) {
		c.String(200, "ok")
	})
	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.AcceptLanguage())
	s.Engine.Use(middleware.Metrics(s.Core))

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.POST("/register", ipLimit("register", core.WithLimit(10)), s.Register)
		apiV1.POST("/login", ipLimit("login", core.WithLimit(20)), s.Login)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		user := authed.Group("/user")
		{
			user.GET("/info", s.GetUser)
			user.PUT("/profile", userLimit("profile"), s.UpdateUserProfile)
		}

		chat := authed.Group("/chat")
		{
			chat.POST("", userLimit("chat", core.WithLimit(30)), s.SendMessage)
		}

		history := authed.Group("/sessions")
		{
			history.GET("", s.ListSessions)
			history.GET("/:sessionid/messages", s.GetSessionMessages)
			history.DELETE("/:sessionid", s.DeleteSession)
			history.PUT("/:sessionid/title", s.RenameSession)
			history.PUT("/:sessionid/favorite", s.SetSessionFavorite)
		}

		project := authed.Group("/projects")
		{
			project.GET("", s.ListProjects)
			project.POST("", userLimit("modify_project"), s.CreateProject)
			project.POST("/upload", userLimit("upload", core.WithLimit(10)), s.CreateCSVProject)
			project.GET("/:projectid", s.GetProject)
			project.PUT("/:projectid", userLimit("modify_project"), s.UpdateProject)
			project.DELETE("/:projectid", userLimit("modify_project"), s.DeleteProject)
			project.GET("/:projectid/schema", s.GetProjectSchema)
			project.GET("/:projectid/suggestions", s.GetProjectSuggestions)
		}
	}
}
