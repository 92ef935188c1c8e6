package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/askdb-ai/askdb/app/logic/v1"
	"github.com/askdb-ai/askdb/app/response"
	"github.com/askdb-ai/askdb/pkg/errors"
	"github.com/askdb-ai/askdb/pkg/i18n"
	"github.com/askdb-ai/askdb/pkg/types"
	"github.com/askdb-ai/askdb/pkg/utils"
)

type CreateProjectRequest struct {
	Name     string         `json:"name" binding:"required,max=64"`
	DBConfig types.DBConfig `json:"db_config" binding:"required"`
}

func (s *HttpSrv) CreateProject(c *gin.Context) {
	var (
		err error
		req CreateProjectRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	project, err := v1.NewProjectLogic(c, s.Core).CreateProject(req.Name, req.DBConfig)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, project)
}

func (s *HttpSrv) CreateCSVProject(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		response.APIError(c, errors.New("CreateCSVProject.nilName", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.APIError(c, errors.New("CreateCSVProject.FormFile", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.APIError(c, errors.New("CreateCSVProject.Open", i18n.ERROR_INTERNAL, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.APIError(c, errors.New("CreateCSVProject.ReadAll", i18n.ERROR_INTERNAL, err))
		return
	}

	project, err := v1.NewProjectLogic(c, s.Core).CreateCSVProject(name, fileHeader.Filename, content)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, project)
}

func (s *HttpSrv) GetProject(c *gin.Context) {
	projectID, _ := c.Params.Get("projectid")

	project, err := v1.NewProjectLogic(c, s.Core).GetProject(projectID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, project)
}

type ListProjectsRequest struct {
	Page     uint64 `json:"page" form:"page"`
	Pagesize uint64 `json:"pagesize" form:"pagesize"`
}

type ListProjectsResponse struct {
	List  []types.Project `json:"list"`
	Total int64           `json:"total"`
}

func (s *HttpSrv) ListProjects(c *gin.Context) {
	var (
		err error
		req ListProjectsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Pagesize == 0 || req.Pagesize > 100 {
		req.Pagesize = 20
	}

	list, total, err := v1.NewProjectLogic(c, s.Core).ListProjects(req.Page, req.Pagesize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListProjectsResponse{
		List:  list,
		Total: total,
	})
}

type UpdateProjectRequest struct {
	Name     string         `json:"name" binding:"max=64"`
	DBConfig types.DBConfig `json:"db_config"`
}

func (s *HttpSrv) UpdateProject(c *gin.Context) {
	projectID, _ := c.Params.Get("projectid")

	var (
		err error
		req UpdateProjectRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	project, err := v1.NewProjectLogic(c, s.Core).UpdateProject(projectID, req.Name, req.DBConfig)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, project)
}

func (s *HttpSrv) DeleteProject(c *gin.Context) {
	projectID, _ := c.Params.Get("projectid")

	if err := v1.NewProjectLogic(c, s.Core).DeleteProject(projectID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) GetProjectSchema(c *gin.Context) {
	projectID, _ := c.Params.Get("projectid")

	schema, err := v1.NewProjectLogic(c, s.Core).GetSchema(projectID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, schema)
}

type GetSuggestionsResponse struct {
	Questions []string `json:"questions"`
}

func (s *HttpSrv) GetProjectSuggestions(c *gin.Context) {
	projectID, _ := c.Params.Get("projectid")

	questions, err := v1.NewProjectLogic(c, s.Core).GetSuggestions(projectID)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, GetSuggestionsResponse{
		Questions: questions,
	})
}
