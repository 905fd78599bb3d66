package domain

import "time"

// Report is one parsed daily log.
// It is not modified after parsing.
type Report struct {
	Source string        // Identifier the report was parsed from (file path or name)
	Date   string        // YYYY-MM-DD found in Source, or Source itself
	Rooms  []RoomSection // In document order
}

// ActionCount returns the number of raw action lines across all rooms.
func (r *Report) ActionCount() (next, required int) {
	for i := range r.Rooms {
		next += len(r.Rooms[i].NextActions)
		required += len(r.Rooms[i].RequiredActions)
	}
	return next, required
}

// RoomSection is the portion of a report belonging to one chat room.
type RoomSection struct {
	SelfRelation    *SelfRelation // nil when the report has no self-relation block
	Name            string
	NextActions     []string
	RequiredActions []string
}

// SelfRelation records whether the operator was addressed in a room.
type SelfRelation struct {
	HasMention bool
	HasMessage bool
}

// ReportRef points at one report in a ReportSource.
type ReportRef struct {
	Path string
	Date string // Empty when the name carries no date
}

// SelectionMode chooses which reports a run processes.
type SelectionMode string

const (
	SelectToday SelectionMode = "today" // Today's report, falling back to the latest
	SelectAll   SelectionMode = "all"   // Every report
	SelectDate  SelectionMode = "date"  // The report for Selection.Date
)

// Selection specifies the reports to process.
type Selection struct {
	Now  time.Time // Reference time for SelectToday (zero = caller's clock)
	Mode SelectionMode
	Date string // YYYY-MM-DD, SelectDate only
}

// Validate checks the selection for consistency.
func (s Selection) Validate() error {
	switch s.Mode {
	case SelectToday, SelectAll:
		return nil
	case SelectDate:
		if _, err := time.Parse(DateLayout, s.Date); err != nil {
			return ErrInvalidSelection
		}
		return nil
	default:
		return ErrInvalidSelection
	}
}

// DateLayout is the date format used in report names.
const DateLayout = "2006-01-02"
