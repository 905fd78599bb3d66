package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Name length bounds in runes.
const (
	minNameLen = 2
	maxNameLen = 15
)

// selfToken refers to the operator in report text.
const selfToken = "自分"

// nameDenylist holds tokens that show a string is a label or fragment, not a name.
var nameDenylist = []string{
	"決定事項", "発言者", "内容", "時系列", "いつまでに", "何を", "誰が",
	"スコープ", "体制", "条件", "募集", "契約", "金額", "時期", "期限",
	"http", "URL", "※", "【", "】", "（システム", "インフォメーション",
	"**", "__",
}

// Resolver validates assignee strings and maps them onto roster names.
// It is safe for concurrent use.
type Resolver struct {
	operator string
	members  []string // roster names in order
	stripped []string // members with white space removed
}

// NewResolver returns a resolver for the roster.
// operator receives tasks whose assignee cannot be resolved.
func NewResolver(roster *domain.Roster, operator string) *Resolver {
	r := &Resolver{operator: operator}
	for _, name := range roster.Names() {
		if strings.TrimSpace(name) == "" {
			continue
		}
		r.members = append(r.members, name)
		r.stripped = append(r.stripped, domain.RemoveSpaces(name))
	}
	return r
}

// Operator returns the identity that owns unresolved tasks.
func (r *Resolver) Operator() string {
	return r.operator
}

// IsValid reports whether name looks like a person's name.
func (r *Resolver) IsValid(name string) bool {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minNameLen || n > maxNameLen {
		return false
	}
	if name[0] >= '0' && name[0] <= '9' {
		return false
	}
	for _, tok := range nameDenylist {
		if strings.Contains(name, tok) {
			return false
		}
	}
	if hasJapanese(name) {
		return true
	}
	for i, m := range r.members {
		if domain.MutuallyContains(m, name) || domain.MutuallyContains(r.stripped[i], name) {
			return true
		}
	}
	return false
}

// Normalize maps a raw assignee onto its canonical form.
// Invalid names resolve to the operator. Roster names are returned verbatim.
func (r *Resolver) Normalize(name string) string {
	s := strings.TrimSpace(strings.ReplaceAll(name, "**", ""))
	s = strings.TrimSpace(stripMention(s))
	if strings.Contains(s, selfToken) {
		s = r.operator
	}
	s = domain.RemoveSpaces(s)

	if !r.IsValid(s) {
		return r.operator
	}
	for i, m := range r.stripped {
		if domain.MutuallyContains(m, s) {
			return r.members[i]
		}
	}
	return s
}

// hasJapanese reports whether s contains hiragana, katakana or a CJK ideograph.
func hasJapanese(s string) bool {
	for _, c := range s {
		switch {
		case c >= 0x3040 && c <= 0x309F,
			c >= 0x30A0 && c <= 0x30FF,
			c >= 0x4E00 && c <= 0x9FFF:
			return true
		}
	}
	return false
}
