package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb-ai/askdb/app/store"
	"github.com/askdb-ai/askdb/pkg/errors"
	"github.com/askdb-ai/askdb/pkg/types"
)

// fakeSessionStore serves sessions from a map keyed by session id,
// honoring the owner check the real store applies.
type fakeSessionStore struct {
	store.ChatSessionStore
	sessions map[string]*types.ChatSession
}

func (f *fakeSessionStore) GetChatSession(_ context.Context, userID, sessionID string) (*types.ChatSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return session, nil
}

type fakeProjectStore struct {
	store.ProjectStore
	projects map[string]*types.Project
}

func (f *fakeProjectStore) GetProject(_ context.Context, userID, id string) (*types.Project, error) {
	project, ok := f.projects[id]
	if !ok || project.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return project, nil
}

// fakeMessageStore applies the limit the way the SQL query would: newest
// limit messages, returned ascending.
type fakeMessageStore struct {
	store.ChatMessageStore
	messages []*types.ChatMessage
}

func (f *fakeMessageStore) ListLatestSessionMessages(_ context.Context, sessionID string, limit uint64) ([]*types.ChatMessage, error) {
	var matched []*types.ChatMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			matched = append(matched, m)
		}
	}
	if uint64(len(matched)) > limit {
		matched = matched[uint64(len(matched))-limit:]
	}
	return matched, nil
}

func errorCode(t *testing.T, err error) int {
	t.Helper()
	customized, ok := err.(*errors.CustomizedError)
	require.True(t, ok, "unexpected error type: %T", err)
	return customized.GetCode()
}

func TestResolveChatTargetSessionWins(t *testing.T) {
	sessions := &fakeSessionStore{sessions: map[string]*types.ChatSession{
		"s1": {ID: "s1", UserID: "u1", ProjectID: "pa"},
	}}
	projects := &fakeProjectStore{projects: map[string]*types.Project{
		"pa": {ID: "pa", UserID: "u1"},
		"pb": {ID: "pb", UserID: "u1"},
	}}

	// an explicit projectID in the same request is ignored, the session's
	// own project is authoritative
	session, project, err := resolveChatTarget(context.Background(), sessions, projects, "u1", "pb", "s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, "pa", project.ID)
}

func TestResolveChatTargetStaleSessionFallsThrough(t *testing.T) {
	sessions := &fakeSessionStore{sessions: map[string]*types.ChatSession{}}
	projects := &fakeProjectStore{projects: map[string]*types.Project{
		"pa": {ID: "pa", UserID: "u1"},
	}}

	// a deleted session id with a usable projectID starts a fresh
	// conversation against the project
	session, project, err := resolveChatTarget(context.Background(), sessions, projects, "u1", "pa", "gone")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "pa", project.ID)
}

func TestResolveChatTargetForeignSessionFallsThrough(t *testing.T) {
	sessions := &fakeSessionStore{sessions: map[string]*types.ChatSession{
		"s1": {ID: "s1", UserID: "someone-else", ProjectID: "pa"},
	}}
	projects := &fakeProjectStore{projects: map[string]*types.Project{
		"pa": {ID: "pa", UserID: "u1"},
	}}

	session, project, err := resolveChatTarget(context.Background(), sessions, projects, "u1", "pa", "s1")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "pa", project.ID)
}

func TestResolveChatTargetNotFound(t *testing.T) {
	sessions := &fakeSessionStore{sessions: map[string]*types.ChatSession{}}
	projects := &fakeProjectStore{projects: map[string]*types.Project{}}

	// stale session and nothing to fall through to
	_, _, err := resolveChatTarget(context.Background(), sessions, projects, "u1", "", "gone")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorCode(t, err))

	// stale session, projectID that does not resolve either
	_, _, err = resolveChatTarget(context.Background(), sessions, projects, "u1", "nope", "gone")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorCode(t, err))
}

func TestResolveChatTargetEmptyRequest(t *testing.T) {
	sessions := &fakeSessionStore{sessions: map[string]*types.ChatSession{}}
	projects := &fakeProjectStore{projects: map[string]*types.Project{}}

	_, _, err := resolveChatTarget(context.Background(), sessions, projects, "u1", "", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errorCode(t, err))
}

func TestSessionHistoryWindow(t *testing.T) {
	session := &types.ChatSession{ID: "s1", UserID: "u1"}

	for _, tt := range []struct {
		stored    int
		wantLines int
	}{
		{stored: 0, wantLines: 0},
		{stored: 3, wantLines: 3},
		{stored: ChatHistoryWindow, wantLines: ChatHistoryWindow},
		{stored: 25, wantLines: ChatHistoryWindow},
	} {
		messages := &fakeMessageStore{}
		for i := 0; i < tt.stored; i++ {
			messages.messages = append(messages.messages, &types.ChatMessage{
				SessionID: "s1",
				Role:      types.USER_ROLE_USER,
				Content:   fmt.Sprintf("question %d", i),
			})
		}

		history, err := sessionHistoryWindow(context.Background(), messages, session)
		require.NoError(t, err)
		assert.Len(t, history, tt.wantLines, "stored=%d", tt.stored)

		if tt.wantLines > 0 {
			// the window keeps the newest messages, oldest first
			assert.Equal(t, fmt.Sprintf("User: question %d", tt.stored-tt.wantLines), history[0])
			assert.Equal(t, fmt.Sprintf("User: question %d", tt.stored-1), history[len(history)-1])
		}
	}
}

func TestSessionHistoryWindowNilSession(t *testing.T) {
	history, err := sessionHistoryWindow(context.Background(), &fakeMessageStore{}, nil)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBuildChatHistory(t *testing.T) {
	messages := []*types.ChatMessage{
		{Role: types.USER_ROLE_USER, Content: "show top customers"},
		{Role: types.USER_ROLE_ASSISTANT, Content: AnswerQueryExecuted},
		{Role: types.USER_ROLE_USER, Content: "only from last month"},
	}

	history := BuildChatHistory(messages)
	assert.Equal(t, []string{
		"User: show top customers",
		"AI: Query executed successfully.",
		"User: only from last month",
	}, history)
}

func TestBuildChatHistoryEmpty(t *testing.T) {
	assert.Empty(t, BuildChatHistory(nil))
	assert.Empty(t, BuildChatHistory([]*types.ChatMessage{}))
}

func TestBuildChatHistoryUnknownRole(t *testing.T) {
	// anything that is not the user speaks as the AI
	history := BuildChatHistory([]*types.ChatMessage{
		{Role: "system", Content: "context reset"},
	})
	assert.Equal(t, []string{"AI: context reset"}, history)
}
