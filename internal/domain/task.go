// Package domain contains core business entities and interfaces.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// Kind distinguishes the report sub-section a task was extracted from.
type Kind string

const (
	KindNextAction     Kind = "next_action"     // From a "次アクション" section
	KindRequiredAction Kind = "required_action" // From a "要対応" section
)

// Display returns a human-readable representation of the kind.
func (k Kind) Display() string {
	switch k {
	case KindNextAction:
		return "次アクション"
	case KindRequiredAction:
		return "要対応"
	default:
		return string(k)
	}
}

// IsValid returns true if the kind is a known value.
func (k Kind) IsValid() bool {
	return k == KindNextAction || k == KindRequiredAction
}

// Task represents one actionable item attributed to a single person.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created    time.Time `json:"created"`            // Set by the store on first persist
	ID         string    `json:"-"`                  // Assigned by the store (map key, not in value)
	Assignee   string    `json:"assignee"`           // Canonical owner
	Content    string    `json:"content"`            // What to do (non-empty)
	Deadline   string    `json:"deadline,omitempty"` // Free-text deadline (empty = none)
	Room       string    `json:"room"`               // Source room name
	SourceDate string    `json:"sourceDate"`         // Date of the report the task came from
	Kind       Kind      `json:"kind"`
	Status     Status    `json:"status"`
}

// TaskKey is the natural key of a task.
// Two tasks with the same key are duplicates regardless of room, date or kind.
type TaskKey struct {
	Assignee string
	Content  string
}

// Key returns the natural key of the task.
func (t *Task) Key() TaskKey {
	return TaskKey{Assignee: t.Assignee, Content: t.Content}
}

// HasDeadline returns true if the task carries deadline text.
func (t *Task) HasDeadline() bool {
	return strings.TrimSpace(t.Deadline) != ""
}

// nearDeadlinePatterns match deadline text that names a concrete day or this week.
var nearDeadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}`),
	regexp.MustCompile(`\d{1,2}月\d{1,2}日`),
	regexp.MustCompile(`今日|本日`),
	regexp.MustCompile(`明日`),
	regexp.MustCompile(`今週`),
}

// IsDeadlineNear reports whether the deadline text names a date, today,
// tomorrow or this week. Deadlines stay free text; no date arithmetic is done.
func (t *Task) IsDeadlineNear() bool {
	if !t.HasDeadline() {
		return false
	}
	for _, re := range nearDeadlinePatterns {
		if re.MatchString(t.Deadline) {
			return true
		}
	}
	return false
}

// NearDeadline returns the tasks whose deadline is near, in input order.
func NearDeadline(tasks []Task) []Task {
	var out []Task
	for i := range tasks {
		if tasks[i].IsDeadlineNear() {
			out = append(out, tasks[i])
		}
	}
	return out
}

// IsCompleted returns true if the task has been marked completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Candidate is an unvalidated parse result of one action line.
type Candidate struct {
	Assignee string
	Content  string
	Deadline string // Empty when the line has no deadline
}

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	Assignee string // Exact assignee (empty = all)
	Status   Status // Exact status (empty = all)
}

// Matches reports whether the task satisfies the filter.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Assignee != "" && t.Assignee != f.Assignee {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}
