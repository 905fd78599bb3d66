// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/extract"
	"github.com/kijins-dev/chatwork-task-generator/internal/logparse"
)

// GenerateTasksInput contains the parameters for a generate run.
type GenerateTasksInput struct {
	Selection domain.Selection // Which reports to process
	Notify    bool             // Post the team list and summary to chat
	Clear     bool             // Remove stored tasks before adding
	DryRun    bool             // Skip the store, markdown and notifications
}

// ReportSummary describes one parsed report.
type ReportSummary struct {
	Source          string
	Date            string
	Rooms           int
	NextActions     int // Raw next-action lines
	RequiredActions int // Raw required-action lines
}

// GenerateTasksOutput contains the result of a generate run.
// Fields are ordered to minimize memory padding.
type GenerateTasksOutput struct {
	RunID     string
	Date      string                 // Date used for the summary and daily report
	Reports   []ReportSummary        // Parsed reports in processing order
	Skipped   []string               // Reports that could not be read
	Tasks     []domain.Task          // Extracted, validated and filtered tasks
	Added     []domain.Task          // Tasks newly persisted (nil on dry run)
	Groups    []domain.AssigneeTasks // Tasks grouped by assignee
	Written   []string               // Markdown files written
	Stats     extract.Stats
	Rejected  int // Tasks removed by the validator
	NonMember int // Tasks removed by the members-only filter
	Notified  bool
}

// GenerateTasks is the use case for turning daily reports into stored tasks.
// Fields are ordered to minimize memory padding.
type GenerateTasks struct {
	roster      domain.RosterProvider
	reports     domain.ReportSource
	store       domain.TaskStore
	validator   domain.TaskValidator
	extractor   domain.TaskExtractor
	notifier    domain.Notifier
	writer      domain.TaskWriter
	metrics     domain.MetricsRecorder
	clock       domain.Clock
	logger      *zap.Logger
	operator    string
	membersOnly bool
}

// NewGenerateTasks creates a new GenerateTasks use case.
// notifier, writer and metrics may be nil.
func NewGenerateTasks(
	roster domain.RosterProvider,
	reports domain.ReportSource,
	store domain.TaskStore,
	validator domain.TaskValidator,
	notifier domain.Notifier,
	writer domain.TaskWriter,
	metrics domain.MetricsRecorder,
	clock domain.Clock,
	logger *zap.Logger,
	operator string,
	membersOnly bool,
) *GenerateTasks {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &GenerateTasks{
		roster:      roster,
		reports:     reports,
		store:       store,
		validator:   validator,
		notifier:    notifier,
		writer:      writer,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
		operator:    operator,
		membersOnly: membersOnly,
	}
}

// WithExtractor replaces the rule-based assembler with e.
func (uc *GenerateTasks) WithExtractor(e domain.TaskExtractor) *GenerateTasks {
	uc.extractor = e
	return uc
}

// Execute runs the pipeline:
//   - load the roster and select reports
//   - parse every readable report and extract deduplicated tasks
//   - validate, apply the members-only filter and persist new tasks
//   - export markdown and notify when configured
func (uc *GenerateTasks) Execute(ctx context.Context, in GenerateTasksInput) (*GenerateTasksOutput, error) {
	if uc.operator == "" {
		return nil, domain.ErrNoOperator
	}
	if in.Notify && !in.DryRun && uc.notifier == nil {
		return nil, domain.ErrNotifierDisabled
	}

	out := &GenerateTasksOutput{RunID: uuid.NewString()}
	log := uc.logger.With(zap.String("run_id", out.RunID))

	roster, err := uc.roster.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	if in.Selection.Now.IsZero() {
		in.Selection.Now = uc.clock.Now()
	}
	refs, err := uc.reports.List(ctx, in.Selection)
	if err != nil {
		return nil, err
	}

	if len(refs) == 0 {
		return nil, domain.ErrNoReports
	}

	reports := uc.readReports(ctx, log, refs, out)
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: all %d reports failed to read", domain.ErrNoReports, len(refs))
	}
	out.Date = runDate(in.Selection, reports)

	result, err := uc.extractTasks(ctx, reports, roster)
	if err != nil {
		return nil, err
	}
	out.Stats = result.Stats
	uc.metrics.TasksExtracted(domain.KindNextAction, result.Stats.NextActions)
	uc.metrics.TasksExtracted(domain.KindRequiredAction, result.Stats.RequiredActions)
	uc.metrics.TasksDefaulted(result.Stats.Defaulted)
	uc.metrics.TasksDuplicated(result.Stats.Duplicates)
	log.Info("Tasks extracted",
		zap.Int("count", len(result.Tasks)),
		zap.Int("next_actions", result.Stats.NextActions),
		zap.Int("required_actions", result.Stats.RequiredActions),
		zap.Int("defaulted", result.Stats.Defaulted),
		zap.Int("duplicates", result.Stats.Duplicates),
		zap.Int("excluded_rooms", result.Stats.ExcludedRooms),
	)

	tasks := result.Tasks
	if len(tasks) > 0 {
		start := uc.clock.Now()
		validated, err := uc.validator.Validate(ctx, tasks)
		uc.metrics.ObserveValidator(uc.clock.Now().Sub(start))
		if err != nil {
			return nil, fmt.Errorf("validate tasks: %w", err)
		}
		out.Rejected = len(tasks) - len(validated)
		tasks = validated
	}

	if uc.membersOnly {
		var dropped int
		tasks, dropped = filterMembers(tasks, roster, uc.operator)
		out.NonMember = dropped
		if dropped > 0 {
			log.Info("Dropped tasks of non-members", zap.Int("count", dropped))
		}
	}

	out.Tasks = tasks
	out.Groups = domain.GroupByAssignee(tasks, uc.operator)

	if in.DryRun {
		log.Info("Dry run, nothing persisted", zap.Int("count", len(tasks)))
		return out, nil
	}

	if err := uc.persist(ctx, log, in.Clear, out); err != nil {
		return nil, err
	}

	if uc.writer != nil && len(out.Groups) > 0 {
		written, err := uc.writer.Write(ctx, out.Date, out.Groups, reports)
		if err != nil {
			return nil, fmt.Errorf("write markdown: %w", err)
		}
		out.Written = written
	}

	if in.Notify {
		if err := uc.notify(ctx, out); err != nil {
			return nil, err
		}
		out.Notified = true
	}

	return out, nil
}

func (uc *GenerateTasks) extractTasks(ctx context.Context, reports []domain.Report, roster *domain.Roster) (extract.Result, error) {
	if uc.extractor == nil {
		return extract.NewAssembler(roster, uc.operator).AssembleBatch(reports), nil
	}
	tasks, err := uc.extractor.Extract(ctx, reports, roster)
	if err != nil {
		return extract.Result{}, fmt.Errorf("extract tasks: %w", err)
	}
	return extract.Summarize(reports, roster, tasks), nil
}

func (uc *GenerateTasks) readReports(ctx context.Context, log *zap.Logger, refs []domain.ReportRef, out *GenerateTasksOutput) []domain.Report {
	reports := make([]domain.Report, 0, len(refs))
	for _, ref := range refs {
		text, err := uc.reports.Read(ctx, ref)
		if err != nil {
			log.Warn("Skipping unreadable report", zap.String("report", ref.Path), zap.Error(err))
			out.Skipped = append(out.Skipped, ref.Path)
			uc.metrics.ReportSkipped()
			continue
		}

		report := logparse.Parse(ref.Path, text)
		next, required := report.ActionCount()
		out.Reports = append(out.Reports, ReportSummary{
			Source:          report.Source,
			Date:            report.Date,
			Rooms:           len(report.Rooms),
			NextActions:     next,
			RequiredActions: required,
		})
		uc.metrics.ReportParsed()
		log.Debug("Parsed report",
			zap.String("report", ref.Path),
			zap.Int("rooms", len(report.Rooms)),
		)
		reports = append(reports, report)
	}
	return reports
}

func (uc *GenerateTasks) persist(ctx context.Context, log *zap.Logger, clearFirst bool, out *GenerateTasksOutput) error {
	if err := uc.store.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	if clearFirst {
		if err := uc.store.Clear(ctx); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
		log.Info("Cleared stored tasks")
	}

	added, err := uc.store.AddNew(ctx, out.Tasks)
	if err != nil {
		return fmt.Errorf("store tasks: %w", err)
	}
	out.Added = added
	uc.metrics.TasksPersisted(len(added))
	log.Info("Tasks stored",
		zap.Int("count", len(added)),
		zap.Int("already_stored", len(out.Tasks)-len(added)),
	)
	return nil
}

func (uc *GenerateTasks) notify(ctx context.Context, out *GenerateTasksOutput) error {
	if err := uc.notifier.PostTeamList(ctx, out.Groups); err != nil {
		uc.metrics.Notification(notifyFailure)
		return fmt.Errorf("notify team list: %w", err)
	}
	uc.metrics.Notification(notifySuccess)

	if err := uc.notifier.PostSummary(ctx, out.Date, out.Groups); err != nil {
		uc.metrics.Notification(notifyFailure)
		return fmt.Errorf("notify summary: %w", err)
	}
	uc.metrics.Notification(notifySuccess)
	return nil
}

// filterMembers keeps tasks owned by the operator or by someone on the roster.
// An empty roster keeps everything.
func filterMembers(tasks []domain.Task, roster *domain.Roster, operator string) ([]domain.Task, int) {
	if roster == nil || len(roster.Members) == 0 {
		return tasks, 0
	}
	kept := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Assignee == operator || roster.IsMember(t.Assignee) {
			kept = append(kept, t)
		}
	}
	return kept, len(tasks) - len(kept)
}

// runDate picks the date a run reports under: the selected date, else the newest report's.
func runDate(sel domain.Selection, reports []domain.Report) string {
	if sel.Mode == domain.SelectDate {
		return sel.Date
	}
	date := ""
	for _, r := range reports {
		if r.Date > date {
			date = r.Date
		}
	}
	return date
}

