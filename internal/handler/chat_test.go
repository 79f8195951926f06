package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakabidaasta/npc-hackaton/internal/model"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
	"github.com/Rakabidaasta/npc-hackaton/internal/ws"
)

func TestChatView_EmptyRoom(t *testing.T) {
	env := newTestEnv(t)
	session := env.signupAndLogin(t, "a@x.com", "A", "secret")

	rec := env.get(t, "/chat", session)

	require.Equal(t, http.StatusOK, rec.Code)
	// No message entries rendered.
	assert.NotContains(t, rec.Body.String(), "[")
}

func TestPostMessage_PersistsAndRedirects(t *testing.T) {
	env := newTestEnv(t)
	session := env.signupAndLogin(t, "a@x.com", "A", "secret")

	rec := env.postForm(t, "/chat", url.Values{"text": {"hello room"}}, session)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/chat", rec.Header().Get("Location"))

	view := env.get(t, "/chat", session)
	require.Equal(t, http.StatusOK, view.Code)
	assert.Contains(t, view.Body.String(), "A: hello room")
}

func TestPostMessage_EmptyText_RedirectsWithError(t *testing.T) {
	env := newTestEnv(t)
	session := env.signupAndLogin(t, "a@x.com", "A", "secret")

	rec := env.postForm(t, "/chat", url.Values{"text": {"   "}}, session)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/chat", loc.Path)
	assert.NotEmpty(t, loc.Query().Get("error"))
}

func TestChatView_TwoAuthorsOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signupAndLogin(t, "alice@x.com", "Alice", "secret")
	bob := env.signupAndLogin(t, "bob@x.com", "Bob", "secret")

	env.postForm(t, "/chat", url.Values{"text": {"hi from alice"}}, alice)
	env.postForm(t, "/chat", url.Values{"text": {"hi from bob"}}, bob)

	rec := env.get(t, "/chat", alice)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	aliceIdx := strings.Index(body, "Alice: hi from alice")
	bobIdx := strings.Index(body, "Bob: hi from bob")
	require.GreaterOrEqual(t, aliceIdx, 0, "alice's message missing: %s", body)
	require.GreaterOrEqual(t, bobIdx, 0, "bob's message missing: %s", body)
	assert.Less(t, aliceIdx, bobIdx, "messages must render oldest first")
}

// failingMessageRepo simulates a storage outage.
type failingMessageRepo struct{}

func (failingMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	return errors.New("disk I/O error")
}

func (failingMessageRepo) ListRecent(ctx context.Context, limit int) ([]model.Message, error) {
	return nil, errors.New("disk I/O error")
}

func TestChatView_StorageFailureReturnsJSONError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	renderer, err := NewRenderer(testTemplates(t), logger)
	require.NoError(t, err)

	// The author lookup is never reached when listing fails, so no user
	// repository is needed.
	chatSvc := service.NewChatService(failingMessageRepo{}, nil, logger)
	h := NewChatHandler(chatSvc, ws.NewHub(logger), renderer, logger)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	h.HandleChatView(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	raw := rec.Body.String()
	assert.NotContains(t, raw, "disk I/O", "storage details must not leak to the client")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.Equal(t, "internal_error", body.Error)
}
