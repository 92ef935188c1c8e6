package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/askdb-ai/askdb/app/logic/v1"
	"github.com/askdb-ai/askdb/app/response"
	"github.com/askdb-ai/askdb/pkg/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  GetUserResponse `json:"user"`
}

func (s *HttpSrv) Register(c *gin.Context) {
	var (
		err error
		req RegisterRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewAuthLogic(c, s.Core).Register(req.Name, req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, AuthResponse{
		Token: result.Token,
		User: GetUserResponse{
			UserID: result.User.ID,
			Name:   result.User.Name,
			Email:  result.User.Email,
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *HttpSrv) Login(c *gin.Context) {
	var (
		err error
		req LoginRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewAuthLogic(c, s.Core).Login(req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, AuthResponse{
		Token: result.Token,
		User: GetUserResponse{
			UserID: result.User.ID,
			Name:   result.User.Name,
			Email:  result.User.Email,
		},
	})
}

type GetUserResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type UpdateUserProfileRequest struct {
	Name  string `json:"name" form:"name" binding:"required,max=32"`
	Email string `json:"email" form:"email" binding:"required,email"`
}

func (s *HttpSrv) UpdateUserProfile(c *gin.Context) {
	var (
		err error
		req UpdateUserProfileRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err = v1.NewUserLogic(c, s.Core).UpdateUserProfile(req.Name, req.Email); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	user, err := v1.NewUserLogic(c, s.Core).GetUser()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, GetUserResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
}
