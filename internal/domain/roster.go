package domain

import (
	"regexp"
	"strings"
)

// Member is one person known to the team.
type Member struct {
	Name       string `yaml:"name"`
	ChatworkID string `yaml:"chatwork_id,omitempty"`
}

// Roster is the ordered list of canonical member names plus rooms to ignore.
// Member order is significant: name resolution picks the first match.
type Roster struct {
	Members       []Member `yaml:"members"`
	ExcludedRooms []string `yaml:"excluded_rooms"`
}

// NewRoster builds a roster from plain names.
func NewRoster(names []string, excludedRooms []string) *Roster {
	r := &Roster{ExcludedRooms: excludedRooms}
	for _, n := range names {
		r.Members = append(r.Members, Member{Name: n})
	}
	return r
}

// Names returns member names in roster order.
func (r *Roster) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		names = append(names, m.Name)
	}
	return names
}

// IsMember reports whether name and some member name contain one another.
func (r *Roster) IsMember(name string) bool {
	if r == nil {
		return false
	}
	for _, m := range r.Members {
		if MutuallyContains(m.Name, name) {
			return true
		}
	}
	return false
}

// IsExcludedRoom reports whether room matches an excluded-room entry.
func (r *Roster) IsExcludedRoom(room string) bool {
	if r == nil {
		return false
	}
	for _, ex := range r.ExcludedRooms {
		if MutuallyContains(room, ex) {
			return true
		}
	}
	return false
}

// AccountID returns the chat account ID of the member called name.
func (r *Roster) AccountID(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, m := range r.Members {
		if m.Name == name && m.ChatworkID != "" {
			return m.ChatworkID, true
		}
	}
	return "", false
}

var idRefPattern = regexp.MustCompile(`※(\d+)|\((\d+)\)`)

// ReplaceIDs rewrites "※<id>" and "(<id>)" references to known members as "（name）".
// Unknown IDs are left as they are.
func (r *Roster) ReplaceIDs(text string) string {
	if r == nil || len(r.Members) == 0 {
		return text
	}
	byID := make(map[string]string, len(r.Members))
	for _, m := range r.Members {
		if m.ChatworkID == "" {
			continue
		}
		if _, dup := byID[m.ChatworkID]; !dup {
			byID[m.ChatworkID] = m.Name
		}
	}
	return idRefPattern.ReplaceAllStringFunc(text, func(ref string) string {
		sub := idRefPattern.FindStringSubmatch(ref)
		id := sub[1]
		if id == "" {
			id = sub[2]
		}
		if name, ok := byID[id]; ok {
			return "（" + name + "）"
		}
		return ref
	})
}

// MutuallyContains reports whether a contains b or b contains a.
// An empty string is contained in everything, so callers must guard against it.
func MutuallyContains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// RemoveSpaces strips every Unicode white space rune, including U+3000.
func RemoveSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
