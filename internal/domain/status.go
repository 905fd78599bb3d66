package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"   // Extracted, not yet done
	StatusCompleted Status = "completed" // Marked done in the store
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusCompleted}
}

// transitions defines the allowed status transitions.
// Completion is one-way; the store never reopens a task.
var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted},
	StatusCompleted: {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "未完了"
	case StatusCompleted:
		return "完了"
	default:
		return string(s)
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseStatus converts user input to a Status.
// The Japanese display names are accepted as aliases.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending", "未完了":
		return StatusPending, nil
	case "completed", "完了", "done":
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}
