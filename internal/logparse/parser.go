// Package logparse turns a daily chat-log report into per-room action lines.
//
// A report is a markdown document in which every room starts with a callout
// header ("> [!note] <room>" or "> [!info] <room>"). Inside a room, level-2
// headings introduce the "次アクション", "要対応" and "自分への関係" blocks.
// The parser never fails: anything it does not recognise is ignored.
package logparse

import (
	"regexp"
	"strings"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Sub-section titles.
const (
	SectionNextActions     = "次アクション"
	SectionRequiredActions = "要対応"
	SectionSelfRelation    = "自分への関係"
)

// Phrases that mark template filler rather than real actions.
const (
	placeholderWhoWhatWhen = "誰が・何を・いつまでに"
	placeholderNoDeadline  = "期限付きアクションは記載されていない"
	none                   = "なし"
)

var (
	roomHeaderPattern = regexp.MustCompile(`^> \[!(?:note|info)\]`)
	roomNamePattern   = regexp.MustCompile(`> \[!(?:note|info)\] (.+)`)
	quotePrefix       = regexp.MustCompile(`^>\s*`)

	// Any count, 0件 included, sets the flag. Only the half-width colon is recognized.
	mentionPattern = regexp.MustCompile(`自分宛てメンション:(?: あり|\s*\d+件)`)
	messagePattern = regexp.MustCompile(`自分の発言:(?: あり|\s*\d+件)`)
)

// Parse splits text into rooms and extracts their action lines.
// identifier names the report; its YYYY-MM-DD part becomes the report date.
func Parse(identifier, text string) domain.Report {
	report := domain.Report{
		Source: identifier,
		Date:   domain.DateFromIdentifier(identifier),
	}
	for _, seg := range splitRooms(text) {
		room, ok := parseRoom(seg)
		if !ok {
			continue
		}
		report.Rooms = append(report.Rooms, room)
	}
	return report
}

// splitRooms cuts text at every callout header line.
// Lines before the first header belong to no room and are dropped.
func splitRooms(text string) [][]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var segments [][]string
	var current []string
	for _, line := range lines {
		if roomHeaderPattern.MatchString(line) {
			if current != nil {
				segments = append(segments, current)
			}
			current = []string{line}
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	if current != nil {
		segments = append(segments, current)
	}
	return segments
}

func parseRoom(seg []string) (domain.RoomSection, bool) {
	m := roomNamePattern.FindStringSubmatch(seg[0])
	if m == nil {
		return domain.RoomSection{}, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return domain.RoomSection{}, false
	}

	sections := splitSections(seg[1:])
	room := domain.RoomSection{Name: name}
	if body, ok := sections[SectionNextActions]; ok {
		room.NextActions = nextActions(body)
	}
	if body, ok := sections[SectionRequiredActions]; ok {
		room.RequiredActions = requiredActions(body)
	}
	if body, ok := sections[SectionSelfRelation]; ok {
		room.SelfRelation = selfRelation(body)
	}
	return room, true
}

// splitSections groups lines under their level-2 heading title.
// Only the first occurrence of a title is kept.
func splitSections(lines []string) map[string][]string {
	sections := make(map[string][]string)
	title := ""
	for _, line := range lines {
		if t, ok := headingTitle(line); ok {
			if _, seen := sections[t]; seen {
				title = ""
				continue
			}
			title = t
			sections[title] = []string{}
			continue
		}
		if title != "" {
			sections[title] = append(sections[title], line)
		}
	}
	return sections
}

// headingTitle reports whether line is a level-2 heading, optionally quoted.
func headingTitle(line string) (string, bool) {
	s := strings.TrimSpace(stripQuote(line))
	if !strings.HasPrefix(s, "## ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(s, "## ")), true
}

func stripQuote(line string) string {
	return quotePrefix.ReplaceAllString(line, "")
}

// bulletBody returns the text after a "- " or "* " marker.
func bulletBody(s string) (string, bool) {
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		return strings.TrimSpace(s[2:]), true
	}
	return "", false
}

func nextActions(body []string) []string {
	var out []string
	for _, line := range body {
		s := strings.TrimSpace(stripQuote(line))
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if s == none || strings.Contains(s, none+"（") {
			continue
		}
		if strings.Contains(s, placeholderWhoWhatWhen) || strings.Contains(s, placeholderNoDeadline) {
			continue
		}
		if content, ok := bulletBody(s); ok && content != "" && content != none {
			out = append(out, content)
		}
	}
	return out
}

func requiredActions(body []string) []string {
	var out []string
	for _, line := range body {
		s := strings.TrimSpace(stripQuote(line))
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if s == none || strings.HasPrefix(s, none+"（") || strings.HasPrefix(s, "- "+none) {
			continue
		}
		if strings.Contains(s, placeholderWhoWhatWhen) {
			continue
		}
		if content, ok := bulletBody(s); ok {
			if content != "" && content != none {
				out = append(out, content)
			}
			continue
		}
		if !strings.HasPrefix(s, ">") {
			out = append(out, s)
		}
	}
	return out
}

func selfRelation(body []string) *domain.SelfRelation {
	text := strings.Join(body, "\n")
	return &domain.SelfRelation{
		HasMention: mentionPattern.MatchString(text),
		HasMessage: messagePattern.MatchString(text),
	}
}

