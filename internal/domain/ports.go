package domain

import (
	"context"
	"time"
)

// RosterProvider supplies the team roster.
type RosterProvider interface {
	// Load returns the roster. Returns ErrRosterNotFound if no roster exists.
	Load(ctx context.Context) (*Roster, error)
}

// ReportSource enumerates and reads daily reports.
type ReportSource interface {
	// List returns the reports matching the selection, oldest first.
	// Returns ErrNoReports if nothing matches.
	List(ctx context.Context, sel Selection) ([]ReportRef, error)

	// Read returns the raw markdown of a report.
	Read(ctx context.Context, ref ReportRef) (string, error)
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error
}

// TaskStore persists tasks.
type TaskStore interface {
	StoreInitializer

	// List retrieves tasks matching the filter in insertion order.
	List(ctx context.Context, filter TaskFilter) ([]Task, error)

	// AddNew stores tasks whose key is not already present and returns them
	// with ID, Status and Created set.
	AddNew(ctx context.Context, tasks []Task) ([]Task, error)

	// Complete marks a task completed. Returns ErrTaskNotFound if missing.
	Complete(ctx context.Context, id string) error

	// Clear removes every stored task.
	Clear(ctx context.Context) error
}

// Notifier posts task digests to a chat room.
type Notifier interface {
	// PostTeamList posts all tasks grouped by assignee.
	PostTeamList(ctx context.Context, groups []AssigneeTasks) error

	// PostPersonal posts one assignee's tasks with a mention.
	PostPersonal(ctx context.Context, group AssigneeTasks, accountID string) error

	// PostSummary posts the daily counts.
	PostSummary(ctx context.Context, date string, groups []AssigneeTasks) error

	// PostReminder posts tasks whose deadline is near. Posts nothing for an empty list.
	PostReminder(ctx context.Context, tasks []Task) error
}

// TaskValidator filters out extracted lines that are not real tasks.
type TaskValidator interface {
	// Validate returns the subset of tasks judged to be real, in input order.
	Validate(ctx context.Context, tasks []Task) ([]Task, error)
}

// TaskExtractor derives tasks from report text without the regex rules.
type TaskExtractor interface {
	// Extract returns the tasks of every non-excluded room, not yet deduplicated.
	Extract(ctx context.Context, reports []Report, roster *Roster) ([]Task, error)
}

// TaskWriter exports tasks to human-readable files.
type TaskWriter interface {
	// Write renders the grouped tasks and returns the written paths.
	Write(ctx context.Context, date string, groups []AssigneeTasks, reports []Report) ([]string, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (local + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo returns information about the local config file.
	GetLocalConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitLocalConfig writes the config template to the local path.
	InitLocalConfig(cfg *Config) error

	// InitGlobalConfig writes the config template to the global path.
	InitGlobalConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// MetricsRecorder counts pipeline events.
type MetricsRecorder interface {
	ReportParsed()
	ReportSkipped()
	TasksExtracted(kind Kind, n int)
	TasksDefaulted(n int)
	TasksDuplicated(n int)
	TasksPersisted(n int)
	Notification(result string)
	ObserveValidator(d time.Duration)
}
