package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/askdb-ai/askdb/app/logic/v1"
	"github.com/askdb-ai/askdb/app/response"
	"github.com/askdb-ai/askdb/pkg/types"
	"github.com/askdb-ai/askdb/pkg/utils"
)

type ListSessionsResponse struct {
	List []types.ChatSession `json:"list"`
}

func (s *HttpSrv) ListSessions(c *gin.Context) {
	list, err := v1.NewHistoryLogic(c, s.Core).ListSessions()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListSessionsResponse{
		List: list,
	})
}

type GetSessionMessagesRequest struct {
	Page     uint64 `json:"page" form:"page"`
	Pagesize uint64 `json:"pagesize" form:"pagesize"`
}

type GetSessionMessagesResponse struct {
	Session  *types.ChatSession   `json:"session"`
	Messages []*types.ChatMessage `json:"messages"`
	Total    int64                `json:"total"`
}

func (s *HttpSrv) GetSessionMessages(c *gin.Context) {
	sessionID, _ := c.Params.Get("sessionid")

	var (
		err error
		req GetSessionMessagesRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	session, messages, total, err := v1.NewHistoryLogic(c, s.Core).GetSessionMessages(sessionID, req.Page, req.Pagesize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, GetSessionMessagesResponse{
		Session:  session,
		Messages: messages,
		Total:    total,
	})
}

type RenameSessionRequest struct {
	Title string `json:"title" form:"title" binding:"required,max=255"`
}

func (s *HttpSrv) RenameSession(c *gin.Context) {
	sessionID, _ := c.Params.Get("sessionid")

	var (
		err error
		req RenameSessionRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err = v1.NewHistoryLogic(c, s.Core).RenameSession(sessionID, req.Title); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteSession(c *gin.Context) {
	sessionID, _ := c.Params.Get("sessionid")

	if err := v1.NewHistoryLogic(c, s.Core).DeleteSession(sessionID); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type SetSessionFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite" form:"is_favorite"`
}

func (s *HttpSrv) SetSessionFavorite(c *gin.Context) {
	sessionID, _ := c.Params.Get("sessionid")

	var (
		err error
		req SetSessionFavoriteRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err = v1.NewHistoryLogic(c, s.Core).SetSessionFavorite(sessionID, req.IsFavorite); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
