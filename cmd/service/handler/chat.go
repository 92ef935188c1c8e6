package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/askdb-ai/askdb/app/logic/v1"
	"github.com/askdb-ai/askdb/app/response"
	"github.com/askdb-ai/askdb/pkg/utils"
)

type SendMessageRequest struct {
	ProjectID string `json:"project_id" form:"project_id"`
	SessionID string `json:"session_id" form:"session_id"`
	Question  string `json:"question" form:"question" binding:"required"`
}

func (s *HttpSrv) SendMessage(c *gin.Context) {
	var (
		err error
		req SendMessageRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewChatLogic(c, s.Core).SendMessage(req.ProjectID, req.SessionID, req.Question)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, result)
}
