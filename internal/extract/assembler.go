package extract

import (
	"strings"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Stats counts what happened while assembling tasks.
type Stats struct {
	Rooms           int // Rooms processed
	ExcludedRooms   int // Rooms skipped by the roster's exclusion list
	NextActions     int // next_action tasks produced
	RequiredActions int // required_action tasks produced (including defaulted)
	Defaulted       int // required actions assigned to the operator for lack of a candidate
	Dropped         int // next-action lines without a candidate
	Duplicates      int // tasks removed by deduplication
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Rooms += o.Rooms
	s.ExcludedRooms += o.ExcludedRooms
	s.NextActions += o.NextActions
	s.RequiredActions += o.RequiredActions
	s.Defaulted += o.Defaulted
	s.Dropped += o.Dropped
	s.Duplicates += o.Duplicates
}

// Result is the output of assembling one or more reports.
type Result struct {
	Tasks []domain.Task
	Stats Stats
}

// Outcome describes what happened to a single action line.
type Outcome string

// Line outcomes.
const (
	OutcomeExtracted Outcome = "extracted"
	OutcomeDefaulted Outcome = "defaulted"
	OutcomeDropped   Outcome = "dropped"
)

// LineTrace records how one action line was resolved.
type LineTrace struct {
	Room     string
	Line     string
	Matcher  string
	Assignee string // Normalized assignee (empty when dropped)
	Content  string
	Deadline string
	Kind     domain.Kind
	Outcome  Outcome
}

// Assembler builds tasks from parsed reports.
type Assembler struct {
	roster    *domain.Roster
	resolver  *Resolver
	extractor *Extractor
	operator  string
}

// NewAssembler returns an assembler for the roster and operator.
func NewAssembler(roster *domain.Roster, operator string) *Assembler {
	resolver := NewResolver(roster, operator)
	return &Assembler{
		roster:    roster,
		resolver:  resolver,
		extractor: NewExtractor(resolver),
		operator:  operator,
	}
}

// Resolver returns the assembler's name resolver.
func (a *Assembler) Resolver() *Resolver {
	return a.resolver
}

// Assemble converts one report into tasks. The result is not deduplicated.
func (a *Assembler) Assemble(report domain.Report) Result {
	var res Result
	a.walk(report, func(tr LineTrace, room domain.RoomSection) {
		switch tr.Outcome {
		case OutcomeDropped:
			res.Stats.Dropped++
			return
		case OutcomeDefaulted:
			res.Stats.Defaulted++
		}
		if tr.Kind == domain.KindNextAction {
			res.Stats.NextActions++
		} else {
			res.Stats.RequiredActions++
		}
		res.Tasks = append(res.Tasks, domain.Task{
			Assignee:   tr.Assignee,
			Content:    tr.Content,
			Deadline:   tr.Deadline,
			Room:       room.Name,
			SourceDate: report.Date,
			Kind:       tr.Kind,
			Status:     domain.StatusPending,
		})
	}, &res.Stats)
	return res
}

// AssembleBatch assembles reports in order and deduplicates across all of them.
func (a *Assembler) AssembleBatch(reports []domain.Report) Result {
	var all Result
	for _, r := range reports {
		res := a.Assemble(r)
		all.Tasks = append(all.Tasks, res.Tasks...)
		all.Stats.Add(res.Stats)
	}
	all.Tasks, all.Stats.Duplicates = Deduplicate(all.Tasks)
	return all
}

// Summarize deduplicates tasks produced outside the assembler and counts
// them the way AssembleBatch does. Defaulted and Dropped stay zero.
func Summarize(reports []domain.Report, roster *domain.Roster, tasks []domain.Task) Result {
	var all Result
	for _, r := range reports {
		for _, room := range r.Rooms {
			if roster.IsExcludedRoom(room.Name) {
				all.Stats.ExcludedRooms++
			} else {
				all.Stats.Rooms++
			}
		}
	}
	for _, t := range tasks {
		if t.Kind == domain.KindRequiredAction {
			all.Stats.RequiredActions++
		} else {
			all.Stats.NextActions++
		}
	}
	all.Tasks, all.Stats.Duplicates = Deduplicate(tasks)
	return all
}

// Trace reports the resolution of every action line in the report.
// Excluded rooms are omitted.
func (a *Assembler) Trace(report domain.Report) []LineTrace {
	var out []LineTrace
	a.walk(report, func(tr LineTrace, _ domain.RoomSection) {
		out = append(out, tr)
	}, nil)
	return out
}

// walk visits every action line of every non-excluded room in document order.
func (a *Assembler) walk(report domain.Report, visit func(LineTrace, domain.RoomSection), stats *Stats) {
	for _, room := range report.Rooms {
		if a.roster.IsExcludedRoom(room.Name) {
			if stats != nil {
				stats.ExcludedRooms++
			}
			continue
		}
		if stats != nil {
			stats.Rooms++
		}
		for _, line := range room.NextActions {
			visit(a.resolveLine(room.Name, line, domain.KindNextAction), room)
		}
		for _, line := range room.RequiredActions {
			visit(a.resolveLine(room.Name, line, domain.KindRequiredAction), room)
		}
	}
}

func (a *Assembler) resolveLine(room, line string, kind domain.Kind) LineTrace {
	line = strings.TrimSpace(line)
	tr := LineTrace{Room: room, Line: line, Kind: kind}

	m := a.extractor.Explain(line)
	if m.OK && m.Candidate.Content != "" {
		tr.Matcher = m.Matcher
		tr.Assignee = a.resolver.Normalize(m.Candidate.Assignee)
		tr.Content = m.Candidate.Content
		tr.Deadline = m.Candidate.Deadline
		tr.Outcome = OutcomeExtracted
		return tr
	}
	if kind == domain.KindRequiredAction && line != "" {
		tr.Assignee = a.operator
		tr.Content = line
		tr.Outcome = OutcomeDefaulted
		return tr
	}
	tr.Outcome = OutcomeDropped
	return tr
}
