// Package chatwork posts task digests to a Chatwork room through the v2 REST API.
package chatwork

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

const (
	defaultInterval = 500 * time.Millisecond
	defaultTimeout  = 30 * time.Second
	tokenHeader     = "X-ChatWorkToken"
)

// Options configures a Notifier.
type Options struct {
	HTTPClient *http.Client
	Token      string
	RoomID     string
	BaseURL    string
	Interval   time.Duration // Minimum gap between posts (default 500ms)
}

// Notifier implements domain.Notifier for one Chatwork room.
type Notifier struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	token      string
	roomID     string
	baseURL    string
}

// Ensure Notifier implements domain.Notifier.
var _ domain.Notifier = (*Notifier)(nil)

// New creates a Notifier. Returns domain.ErrNotifierDisabled without a token or room.
func New(opts Options, logger *zap.Logger) (*Notifier, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrNotifierDisabled, domain.EnvChatworkToken)
	}
	if opts.RoomID == "" {
		return nil, fmt.Errorf("%w: chatwork.room_id is not set", domain.ErrNotifierDisabled)
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = domain.DefaultChatworkBaseURL
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Notifier{
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     logger,
		token:      opts.Token,
		roomID:     opts.RoomID,
		baseURL:    baseURL,
	}, nil
}

// PostTeamList posts all tasks grouped by assignee.
func (n *Notifier) PostTeamList(ctx context.Context, groups []domain.AssigneeTasks) error {
	return n.send(ctx, "team_list", FormatTeamList(groups))
}

// PostPersonal posts one assignee's tasks. Empty groups are skipped.
func (n *Notifier) PostPersonal(ctx context.Context, group domain.AssigneeTasks, accountID string) error {
	if len(group.Tasks) == 0 {
		return nil
	}
	return n.send(ctx, "personal", FormatPersonal(group, accountID))
}

// PostSummary posts the daily counts.
func (n *Notifier) PostSummary(ctx context.Context, date string, groups []domain.AssigneeTasks) error {
	return n.send(ctx, "summary", FormatSummary(date, groups))
}

// PostReminder posts the given tasks. Posts nothing for an empty list.
func (n *Notifier) PostReminder(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		n.logger.Info("No tasks with near deadlines")
		return nil
	}
	return n.send(ctx, "reminder", FormatReminder(tasks))
}

func (n *Notifier) send(ctx context.Context, kind, message string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := n.baseURL + "/rooms/" + url.PathEscape(n.roomID) + "/messages"
	form := url.Values{"body": {message}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(tokenHeader, n.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("Chatwork request failed", zap.String("kind", kind), zap.Error(err))
		return fmt.Errorf("post %s: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		n.logger.Error("Chatwork API error",
			zap.String("kind", kind),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("post %s: chatwork API error (%d): %s", kind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	n.logger.Info("Posted to Chatwork", zap.String("kind", kind), zap.String("room_id", n.roomID))
	return nil
}
