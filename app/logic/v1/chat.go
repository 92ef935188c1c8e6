package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/askdb-ai/askdb/app/core"
	"github.com/askdb-ai/askdb/app/store"
	"github.com/askdb-ai/askdb/pkg/aigateway"
	"github.com/askdb-ai/askdb/pkg/errors"
	"github.com/askdb-ai/askdb/pkg/i18n"
	"github.com/askdb-ai/askdb/pkg/resultset"
	"github.com/askdb-ai/askdb/pkg/types"
	"github.com/askdb-ai/askdb/pkg/utils"
)

// ChatHistoryWindow caps how many previous messages accompany each question
// to the reasoning service.
const ChatHistoryWindow = 10

const (
	AnswerQueryExecuted  = "Query executed successfully."
	AnswerQueryNoneBuilt = "I couldn't generate a query for that."
)

type ChatLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewChatLogic(ctx context.Context, core *core.Core) *ChatLogic {
	return &ChatLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// SendMessageResult is the synchronous answer to one question: the two
// messages appended to the ledger plus the raw query artifacts.
type SendMessageResult struct {
	SessionID string               `json:"session_id"`
	Messages  []*types.ChatMessage `json:"messages"`
	SQL       string               `json:"sql"`
	Result    types.QueryResult    `json:"result"`
}

// SendMessage runs the full question pipeline: resolve the target session
// or project, assemble the history window, call the reasoning service,
// normalize its result and persist both conversation turns.
//
// The session is created lazily: only a first question that targets a bare
// project allocates one, titled after the question.
func (l *ChatLogic) SendMessage(projectID, sessionID, question string) (*SendMessageResult, error) {
	if question == "" {
		return nil, errors.New("ChatLogic.SendMessage.emptyQuestion", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	session, project, err := l.resolveTarget(projectID, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := l.historyWindow(session)
	if err != nil {
		return nil, err
	}

	conn, err := l.buildDBConnection(project)
	if err != nil {
		return nil, err
	}

	timer := l.core.Metrics().GatewayRequestTimer("query")
	resp, err := l.core.Gateway().Query(l.ctx, aigateway.QueryRequest{
		Question:     question,
		DBConnection: conn,
		History:      history,
	})
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().GatewayErrorInc("query")
		return nil, errors.New("ChatLogic.SendMessage.Gateway.Query", i18n.ERROR_GATEWAY, err).Code(http.StatusBadGateway)
	}

	normalized, degraded := resultset.Normalize(resp.Data)
	if degraded {
		l.core.Metrics().NormalizeFallbackInc()
	}
	resultRaw, err := json.Marshal(normalized)
	if err != nil {
		// the normalizer only emits plain values, this should be unreachable
		l.core.Metrics().NormalizeFallbackInc()
		resultRaw = []byte("[]")
	}

	userID := l.GetUserInfo().User
	userMessage := &types.ChatMessage{
		ID:      utils.GenUniqIDStr(),
		UserID:  userID,
		Role:    types.USER_ROLE_USER,
		Content: question,
	}
	assistantMessage := &types.ChatMessage{
		ID:       utils.GenUniqIDStr(),
		UserID:   userID,
		Role:     types.USER_ROLE_ASSISTANT,
		Content:  lo.If(resp.SQL != "", AnswerQueryExecuted).Else(AnswerQueryNoneBuilt),
		SQLQuery: resp.SQL,
		Result:   types.QueryResult(resultRaw),
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if session == nil {
			session = &types.ChatSession{
				ID:        utils.GenUniqIDStr(),
				UserID:    userID,
				ProjectID: project.ID,
				Title:     utils.TruncateTitle(question, types.SessionTitleLimit),
			}
			if err := l.core.Store().ChatSessionStore().Create(ctx, *session); err != nil {
				return errors.New("ChatLogic.SendMessage.ChatSessionStore.Create", i18n.ERROR_INTERNAL, err)
			}
		} else {
			if err := l.core.Store().ChatSessionStore().UpdateSessionLatestAccessTime(ctx, session.ID); err != nil {
				return errors.New("ChatLogic.SendMessage.ChatSessionStore.UpdateSessionLatestAccessTime", i18n.ERROR_INTERNAL, err)
			}
		}

		userMessage.SessionID = session.ID
		assistantMessage.SessionID = session.ID

		if err := l.core.Store().ChatMessageStore().Create(ctx, userMessage); err != nil {
			return errors.New("ChatLogic.SendMessage.ChatMessageStore.CreateUser", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ChatMessageStore().Create(ctx, assistantMessage); err != nil {
			return errors.New("ChatLogic.SendMessage.ChatMessageStore.CreateAssistant", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		SessionID: session.ID,
		Messages:  []*types.ChatMessage{userMessage, assistantMessage},
		SQL:       resp.SQL,
		Result:    types.QueryResult(resultRaw),
	}, nil
}

func (l *ChatLogic) resolveTarget(projectID, sessionID string) (*types.ChatSession, *types.Project, error) {
	return resolveChatTarget(l.ctx, l.core.Store().ChatSessionStore(), l.core.Store().ProjectStore(), l.GetUserInfo().User, projectID, sessionID)
}

// resolveChatTarget applies the addressing rules: a resolvable session wins
// and fixes the project, ignoring an explicit projectID in the same request.
// A session id that does not resolve (stale, or another user's) is treated
// as absent so the caller can recover by starting a new conversation
// against the project.
func resolveChatTarget(ctx context.Context, sessions store.ChatSessionStore, projects store.ProjectStore, userID, projectID, sessionID string) (*types.ChatSession, *types.Project, error) {
	if sessionID != "" {
		session, err := sessions.GetChatSession(ctx, userID, sessionID)
		if err != nil && err != sql.ErrNoRows {
			return nil, nil, errors.New("resolveChatTarget.ChatSessionStore.GetChatSession", i18n.ERROR_INTERNAL, err)
		}
		if session != nil && err == nil {
			project, err := getUserProject(ctx, projects, userID, session.ProjectID)
			if err != nil {
				return nil, nil, err
			}
			return session, project, nil
		}
	}

	if projectID == "" {
		if sessionID != "" {
			return nil, nil, errors.New("resolveChatTarget.sessionNotFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return nil, nil, errors.New("resolveChatTarget.emptyTarget", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	project, err := getUserProject(ctx, projects, userID, projectID)
	if err != nil {
		return nil, nil, err
	}
	return nil, project, nil
}

func getUserProject(ctx context.Context, projects store.ProjectStore, userID, projectID string) (*types.Project, error) {
	project, err := projects.GetProject(ctx, userID, projectID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("getUserProject.ProjectStore.GetProject", i18n.ERROR_INTERNAL, err)
	}
	if project == nil || err == sql.ErrNoRows {
		return nil, errors.New("getUserProject.notFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return project, nil
}

func (l *ChatLogic) historyWindow(session *types.ChatSession) ([]string, error) {
	return sessionHistoryWindow(l.ctx, l.core.Store().ChatMessageStore(), session)
}

// sessionHistoryWindow renders at most ChatHistoryWindow of the session's
// newest messages, oldest first. A nil session yields an empty window.
func sessionHistoryWindow(ctx context.Context, messages store.ChatMessageStore, session *types.ChatSession) ([]string, error) {
	if session == nil {
		return nil, nil
	}

	latest, err := messages.ListLatestSessionMessages(ctx, session.ID, ChatHistoryWindow)
	if err != nil {
		return nil, errors.New("sessionHistoryWindow.ChatMessageStore.ListLatestSessionMessages", i18n.ERROR_INTERNAL, err)
	}
	return BuildChatHistory(latest), nil
}

// BuildChatHistory renders messages into the transcript lines the reasoning
// service expects, oldest first.
func BuildChatHistory(messages []*types.ChatMessage) []string {
	return lo.Map(messages, func(item *types.ChatMessage, _ int) string {
		speaker := "AI"
		if item.Role == types.USER_ROLE_USER {
			speaker = "User"
		}
		return fmt.Sprintf("%s: %s", speaker, item.Content)
	})
}

// buildDBConnection renders a project into the data-source binding the
// reasoning service understands. CSV content is read fresh on every call so
// a re-uploaded file takes effect immediately.
func (l *ChatLogic) buildDBConnection(project *types.Project) (types.DBConnection, error) {
	return buildDBConnection(l.ctx, l.core, project)
}

func buildDBConnection(ctx context.Context, c *core.Core, project *types.Project) (types.DBConnection, error) {
	switch project.Type {
	case types.PROJECT_TYPE_MYSQL:
		return types.DBConnection{
			Type: project.Type,
			Config: map[string]any{
				"host":     project.DBConfig.Host,
				"port":     strconv.Itoa(project.DBConfig.Port),
				"user":     project.DBConfig.User,
				"password": project.DBConfig.Password,
				"database": project.DBConfig.Database,
			},
		}, nil
	case types.PROJECT_TYPE_CSV:
		config := map[string]any{
			"csvPath": project.CSVPath,
		}
		if project.CSVPath != "" {
			if obj, err := c.FileStorage().DownloadFile(ctx, project.CSVPath); err != nil {
				// keep going with the path only, matching query-time
				// tolerance for a missing file
				slogProjectFileError(project.ID, err)
			} else {
				config["csvContent"] = string(obj.File)
			}
		}
		return types.DBConnection{
			Type:   project.Type,
			Config: config,
		}, nil
	default:
		return types.DBConnection{}, errors.New("buildDBConnection.unsupportedType", i18n.ERROR_PROJECT_TYPE, nil).Code(http.StatusBadRequest)
	}
}

func slogProjectFileError(projectID string, err error) {
	slog.Error("Project csv file operation failed",
		slog.String("project_id", projectID),
		slog.String("error", err.Error()))
}
