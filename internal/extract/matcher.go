// Package extract turns parsed report lines into normalized, deduplicated tasks.
package extract

import (
	"regexp"
	"strings"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Matcher recognises one action-line shape.
// Match returns a trimmed candidate when the line has the matcher's shape;
// the assignee is not validated here.
type Matcher struct {
	Match func(line string) (domain.Candidate, bool)
	Name  string
}

// Matcher names.
const (
	MatcherBold      = "bold"      // **name**：content（deadline）
	MatcherNarrative = "narrative" // nameさんがcontent（deadline）
	MatcherTriple    = "triple"    // nameが・content・deadline
	MatcherColon     = "colon"     // name：content（deadline）
)

var (
	boldPattern      = regexp.MustCompile(`^\*\*(.+?)\*\*[：:]\s*(.+?)(?:（(.+?)）)?$`)
	narrativePattern = regexp.MustCompile(`^(.+?)さんが(.+?)(?:（(.+?)）)?$`)
	triplePattern    = regexp.MustCompile(`^(.+?)が・(.+?)・(.+?)$`)
	colonPattern     = regexp.MustCompile(`^(.+?)[：:]\s*(.+?)(?:（(.+?)）)?$`)
	mentionSuffix    = regexp.MustCompile(`@.*$`)
)

// DefaultMatchers returns the matchers in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Name: MatcherBold, Match: regexpMatcher(boldPattern, nil)},
		{Name: MatcherNarrative, Match: regexpMatcher(narrativePattern, nil)},
		{Name: MatcherTriple, Match: regexpMatcher(triplePattern, stripMention)},
		{Name: MatcherColon, Match: regexpMatcher(colonPattern, nil)},
	}
}

// regexpMatcher builds a Match func from a pattern with
// (assignee, content, deadline) capture groups.
func regexpMatcher(re *regexp.Regexp, cleanAssignee func(string) string) func(string) (domain.Candidate, bool) {
	return func(line string) (domain.Candidate, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return domain.Candidate{}, false
		}
		c := domain.Candidate{
			Assignee: strings.TrimSpace(m[1]),
			Content:  strings.TrimSpace(m[2]),
		}
		if len(m) > 3 {
			c.Deadline = strings.TrimSpace(m[3])
		}
		if cleanAssignee != nil {
			c.Assignee = cleanAssignee(c.Assignee)
		}
		return c, true
	}
}

// stripMention drops a trailing "@..." suffix.
func stripMention(name string) string {
	return mentionSuffix.ReplaceAllString(name, "")
}
