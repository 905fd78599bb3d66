package chatwork

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

type captured struct {
	path   string
	token  string
	ctype  string
	body   string
	method string
}

func newTestServer(t *testing.T, status int) (*httptest.Server, *[]captured) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		reqs = append(reqs, captured{
			path:   r.URL.Path,
			token:  r.Header.Get(tokenHeader),
			ctype:  r.Header.Get("Content-Type"),
			body:   r.PostForm.Get("body"),
			method: r.Method,
		})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message_id":"1"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newTestNotifier(t *testing.T, baseURL string) *Notifier {
	t.Helper()
	n, err := New(Options{
		Token:    "secret",
		RoomID:   "42",
		BaseURL:  baseURL,
		Interval: time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	return n
}

func TestNew_Disabled(t *testing.T) {
	_, err := New(Options{RoomID: "42"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotifierDisabled)

	_, err = New(Options{Token: "secret"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotifierDisabled)
}

func TestNotifier_PostTeamList(t *testing.T) {
	// Setup
	srv, reqs := newTestServer(t, http.StatusOK)
	n := newTestNotifier(t, srv.URL+"/")
	groups := []domain.AssigneeTasks{{
		Assignee: "宮内良明",
		Tasks:    []domain.Task{{Content: "見積書を送る", Deadline: "1/20", Room: "営業"}},
	}}

	// Execute
	err := n.PostTeamList(context.Background(), groups)

	// Assert
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/rooms/42/messages", got.path)
	assert.Equal(t, "secret", got.token)
	assert.Equal(t, "application/x-www-form-urlencoded", got.ctype)
	assert.Contains(t, got.body, "・見積書を送る (1/20) [営業]")
}

func TestNotifier_PostPersonal(t *testing.T) {
	srv, reqs := newTestServer(t, http.StatusOK)
	n := newTestNotifier(t, srv.URL)

	require.NoError(t, n.PostPersonal(context.Background(), domain.AssigneeTasks{Assignee: "安田太郎"}, "99"))
	assert.Empty(t, *reqs)

	group := domain.AssigneeTasks{Assignee: "安田太郎", Tasks: []domain.Task{{Content: "請求書", Kind: domain.KindRequiredAction}}}
	require.NoError(t, n.PostPersonal(context.Background(), group, "99"))
	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasPrefix((*reqs)[0].body, "[To:99]安田太郎さん"))
}

func TestNotifier_PostReminder_Empty(t *testing.T) {
	srv, reqs := newTestServer(t, http.StatusOK)
	n := newTestNotifier(t, srv.URL)

	require.NoError(t, n.PostReminder(context.Background(), nil))
	assert.Empty(t, *reqs)
}

func TestNotifier_PostSummary(t *testing.T) {
	srv, reqs := newTestServer(t, http.StatusOK)
	n := newTestNotifier(t, srv.URL)

	require.NoError(t, n.PostSummary(context.Background(), "2025-01-15", nil))
	require.Len(t, *reqs, 1)
	assert.Contains(t, (*reqs)[0].body, "2025-01-15 タスクサマリー")
}

func TestNotifier_APIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized)
	n := newTestNotifier(t, srv.URL)

	err := n.PostSummary(context.Background(), "2025-01-15", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNotifier_CanceledContext(t *testing.T) {
	srv, reqs := newTestServer(t, http.StatusOK)
	n := newTestNotifier(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.PostSummary(ctx, "2025-01-15", nil)

	assert.Error(t, err)
	assert.Empty(t, *reqs)
}
