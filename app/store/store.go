package store

import (
	"context"

	"github.com/askdb-ai/askdb/pkg/sqlstore"
	"github.com/askdb-ai/askdb/pkg/types"
)

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateUserProfile(ctx context.Context, id, userName, email string) error
}

type ProjectStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Project) error
	// GetProject only returns the project when it belongs to userID.
	GetProject(ctx context.Context, userID, id string) (*types.Project, error)
	Update(ctx context.Context, userID, id string, name string, dbConfig types.DBConfig) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, page, pageSize uint64) ([]types.Project, error)
	Total(ctx context.Context, userID string) (int64, error)
	// ListCSVPaths returns every csv path currently referenced by a project,
	// used to detect orphan uploads.
	ListCSVPaths(ctx context.Context) ([]string, error)
}

type ChatSessionStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ChatSession) error
	// GetChatSession only returns the session when it belongs to userID.
	GetChatSession(ctx context.Context, userID, sessionID string) (*types.ChatSession, error)
	UpdateSessionTitle(ctx context.Context, sessionID string, title string) error
	UpdateSessionFavorite(ctx context.Context, sessionID string, favorite bool) error
	UpdateSessionLatestAccessTime(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	DeleteByProject(ctx context.Context, projectID string) error
	// List returns the user's sessions with favorites first, then most
	// recently updated.
	List(ctx context.Context, userID string, limit uint64) ([]types.ChatSession, error)
}

type ChatMessageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data *types.ChatMessage) error
	// ListLatestSessionMessages returns up to limit of the newest messages
	// in ascending order.
	ListLatestSessionMessages(ctx context.Context, sessionID string, limit uint64) ([]*types.ChatMessage, error)
	ListSessionMessages(ctx context.Context, sessionID string, page, pageSize uint64) ([]*types.ChatMessage, error)
	TotalSessionMessages(ctx context.Context, sessionID string) (int64, error)
	DeleteSessionMessages(ctx context.Context, sessionID string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
