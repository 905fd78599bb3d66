package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// NotifyMode selects what NotifyTasks posts.
type NotifyMode string

// Notify modes.
const (
	NotifyAll      NotifyMode = "all"      // Team list and daily summary
	NotifyPersonal NotifyMode = "personal" // One mention message per assignee
	NotifyReminder NotifyMode = "reminder" // Tasks with near deadlines
)

// NotifyTasksInput contains the parameters for notifying stored tasks.
type NotifyTasksInput struct {
	Mode     NotifyMode
	Assignee string // NotifyPersonal only; empty posts to every assignee
}

// NotifyTasksOutput contains the result of a notification run.
type NotifyTasksOutput struct {
	Posted int // Messages sent
	Tasks  int // Tasks included across all messages
}

// NotifyTasks is the use case for posting pending tasks to chat.
// Fields are ordered to minimize memory padding.
type NotifyTasks struct {
	store    domain.TaskStore
	roster   domain.RosterProvider
	notifier domain.Notifier
	metrics  domain.MetricsRecorder
	clock    domain.Clock
	logger   *zap.Logger
	operator string
}

// NewNotifyTasks creates a new NotifyTasks use case.
func NewNotifyTasks(
	store domain.TaskStore,
	roster domain.RosterProvider,
	notifier domain.Notifier,
	metrics domain.MetricsRecorder,
	clock domain.Clock,
	logger *zap.Logger,
	operator string,
) *NotifyTasks {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyTasks{
		store:    store,
		roster:   roster,
		notifier: notifier,
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
		operator: operator,
	}
}

// Execute posts pending tasks according to the mode.
func (uc *NotifyTasks) Execute(ctx context.Context, in NotifyTasksInput) (*NotifyTasksOutput, error) {
	if uc.notifier == nil {
		return nil, domain.ErrNotifierDisabled
	}

	pending, err := uc.store.List(ctx, domain.TaskFilter{Status: domain.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := &NotifyTasksOutput{}
	switch in.Mode {
	case NotifyAll, "":
		groups := domain.GroupByAssignee(pending, uc.operator)
		if err := uc.post(uc.notifier.PostTeamList(ctx, groups)); err != nil {
			return nil, fmt.Errorf("notify team list: %w", err)
		}
		date := uc.clock.Now().Format(domain.DateLayout)
		if err := uc.post(uc.notifier.PostSummary(ctx, date, groups)); err != nil {
			return nil, fmt.Errorf("notify summary: %w", err)
		}
		out.Posted, out.Tasks = 2, len(pending)

	case NotifyPersonal:
		roster, err := uc.roster.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
		for _, g := range domain.GroupByAssignee(pending, uc.operator) {
			if in.Assignee != "" && g.Assignee != in.Assignee {
				continue
			}
			accountID, _ := roster.AccountID(g.Assignee)
			if err := uc.post(uc.notifier.PostPersonal(ctx, g, accountID)); err != nil {
				return nil, fmt.Errorf("notify %s: %w", g.Assignee, err)
			}
			out.Posted++
			out.Tasks += len(g.Tasks)
		}

	case NotifyReminder:
		urgent := domain.NearDeadline(pending)
		if len(urgent) == 0 {
			uc.logger.Info("No tasks with near deadlines")
			return out, nil
		}
		if err := uc.post(uc.notifier.PostReminder(ctx, urgent)); err != nil {
			return nil, fmt.Errorf("notify reminder: %w", err)
		}
		out.Posted, out.Tasks = 1, len(urgent)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownNotifyMode, in.Mode)
	}

	uc.logger.Info("Notifications sent",
		zap.String("mode", string(in.Mode)),
		zap.Int("messages", out.Posted),
		zap.Int("count", out.Tasks),
	)
	return out, nil
}

// post records the result of one notifier call and passes the error through.
func (uc *NotifyTasks) post(err error) error {
	if err != nil {
		uc.metrics.Notification(notifyFailure)
		return err
	}
	uc.metrics.Notification(notifySuccess)
	return nil
}
