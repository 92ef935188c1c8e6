package v1

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/askdb-ai/askdb/app/core"
	"github.com/askdb-ai/askdb/pkg/errors"
	"github.com/askdb-ai/askdb/pkg/i18n"
	"github.com/askdb-ai/askdb/pkg/types"
	"github.com/askdb-ai/askdb/pkg/utils"
)

// HistorySessionLimit bounds the session list on the history panel.
const HistorySessionLimit = 50

type HistoryLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewHistoryLogic(ctx context.Context, core *core.Core) *HistoryLogic {
	return &HistoryLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// ListSessions returns the user's recent sessions, favorites first.
func (l *HistoryLogic) ListSessions() ([]types.ChatSession, error) {
	list, err := l.core.Store().ChatSessionStore().List(l.ctx, l.GetUserInfo().User, HistorySessionLimit)
	if err != nil {
		return nil, errors.New("HistoryLogic.ListSessions.ChatSessionStore.List", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

func (l *HistoryLogic) checkUserSession(sessionID string) (*types.ChatSession, error) {
	session, err := l.core.Store().ChatSessionStore().GetChatSession(l.ctx, l.GetUserInfo().User, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("HistoryLogic.checkUserSession.ChatSessionStore.GetChatSession", i18n.ERROR_INTERNAL, err)
	}
	if session == nil || err == sql.ErrNoRows {
		return nil, errors.New("HistoryLogic.checkUserSession.notFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return session, nil
}

// GetSessionMessages returns one page of a session's ledger in order,
// or the whole ledger when pagination is zero.
func (l *HistoryLogic) GetSessionMessages(sessionID string, page, pageSize uint64) (*types.ChatSession, []*types.ChatMessage, int64, error) {
	session, err := l.checkUserSession(sessionID)
	if err != nil {
		return nil, nil, 0, err
	}

	messages, err := l.core.Store().ChatMessageStore().ListSessionMessages(l.ctx, sessionID, page, pageSize)
	if err != nil {
		return nil, nil, 0, errors.New("HistoryLogic.GetSessionMessages.ChatMessageStore.ListSessionMessages", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ChatMessageStore().TotalSessionMessages(l.ctx, sessionID)
	if err != nil {
		return nil, nil, 0, errors.New("HistoryLogic.GetSessionMessages.ChatMessageStore.TotalSessionMessages", i18n.ERROR_INTERNAL, err)
	}
	return session, messages, total, nil
}

// RenameSession replaces the auto-generated title.
func (l *HistoryLogic) RenameSession(sessionID, title string) error {
	if title == "" {
		return errors.New("HistoryLogic.RenameSession.emptyTitle", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if _, err := l.checkUserSession(sessionID); err != nil {
		return err
	}

	if err := l.core.Store().ChatSessionStore().UpdateSessionTitle(l.ctx, sessionID, utils.TruncateTitle(title, types.SessionTitleLimit)); err != nil {
		return errors.New("HistoryLogic.RenameSession.ChatSessionStore.UpdateSessionTitle", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *HistoryLogic) DeleteSession(sessionID string) error {
	if _, err := l.checkUserSession(sessionID); err != nil {
		return err
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ChatMessageStore().DeleteSessionMessages(ctx, sessionID); err != nil {
			return errors.New("HistoryLogic.DeleteSession.ChatMessageStore.DeleteSessionMessages", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ChatSessionStore().Delete(ctx, sessionID); err != nil {
			return errors.New("HistoryLogic.DeleteSession.ChatSessionStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

func (l *HistoryLogic) SetSessionFavorite(sessionID string, favorite bool) error {
	if _, err := l.checkUserSession(sessionID); err != nil {
		return err
	}

	if err := l.core.Store().ChatSessionStore().UpdateSessionFavorite(l.ctx, sessionID, favorite); err != nil {
		return errors.New("HistoryLogic.SetSessionFavorite.ChatSessionStore.UpdateSessionFavorite", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
