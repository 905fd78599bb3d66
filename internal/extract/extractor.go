package extract

import (
	"strings"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// NameValidator decides whether a string can be an assignee.
type NameValidator interface {
	IsValid(name string) bool
}

// skipPhrases mark lines that are template filler or completed events.
var skipPhrases = []string{
	"誰が・何を・いつまでに",
	"期限付きアクションは記載されていない",
	"承認が完了し",
}

// Extractor parses action lines into candidates.
type Extractor struct {
	validator NameValidator
	matchers  []Matcher
}

// NewExtractor returns an extractor that tries matchers in order.
// DefaultMatchers is used when none are given.
func NewExtractor(validator NameValidator, matchers ...Matcher) *Extractor {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Extractor{validator: validator, matchers: matchers}
}

// Match is the outcome of extracting one line.
type Match struct {
	Matcher   string // Name of the winning matcher (empty if none)
	Candidate domain.Candidate
	Skipped   bool // Line contained a skip phrase
	OK        bool
}

// Extract returns the candidate of the first matcher whose assignee is valid.
func (e *Extractor) Extract(line string) (domain.Candidate, bool) {
	m := e.Explain(line)
	return m.Candidate, m.OK
}

// Explain is Extract with the deciding matcher reported.
func (e *Extractor) Explain(line string) Match {
	line = strings.TrimSpace(line)
	for _, p := range skipPhrases {
		if strings.Contains(line, p) {
			return Match{Skipped: true}
		}
	}
	for _, m := range e.matchers {
		c, ok := m.Match(line)
		if !ok || !e.validator.IsValid(c.Assignee) {
			continue
		}
		return Match{Matcher: m.Name, Candidate: c, OK: true}
	}
	return Match{}
}
