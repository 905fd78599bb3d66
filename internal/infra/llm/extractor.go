package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

var _ domain.TaskExtractor = (*Extractor)(nil)

const (
	minSectionLen   = 10
	maxSectionRunes = 4000
	surnameRunes    = 3
)

// Candidate is one element of the model's extraction answer.
type Candidate struct {
	Assignee string `json:"assignee"`
	Content  string `json:"content"`
	Deadline string `json:"deadline"`
	Kind     string `json:"kind"`
}

// Extractor asks the model to list the action items of each room.
// A room whose call or answer fails contributes no tasks.
type Extractor struct {
	completer Completer
	logger    *zap.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(completer Completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{completer: completer, logger: logger}
}

// Extract runs one completion per room that has action lines.
func (e *Extractor) Extract(ctx context.Context, reports []domain.Report, roster *domain.Roster) ([]domain.Task, error) {
	members := roster.Names()
	var out []domain.Task
	for _, report := range reports {
		for _, room := range report.Rooms {
			if roster.IsExcludedRoom(room.Name) {
				continue
			}
			if len(room.NextActions) == 0 && len(room.RequiredActions) == 0 {
				continue
			}

			tasks, err := e.extractRoom(ctx, room, report.Date, roster, members)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				e.logger.Warn("AI extraction failed, skipping room",
					zap.String("room", room.Name),
					zap.String("report", report.Source),
					zap.Error(err),
				)
				continue
			}
			e.logger.Debug("AI extracted tasks",
				zap.String("room", room.Name),
				zap.Int("count", len(tasks)),
			)
			out = append(out, tasks...)
		}
	}
	return out, nil
}

func (e *Extractor) extractRoom(ctx context.Context, room domain.RoomSection, date string, roster *domain.Roster, members []string) ([]domain.Task, error) {
	text := SectionText(room)
	if len([]rune(strings.TrimSpace(text))) < minSectionLen {
		return nil, nil
	}

	answer, err := e.completer.Complete(ctx, BuildExtractPrompt(roster.ReplaceIDs(text), members))
	if err != nil {
		return nil, err
	}
	candidates, err := ParseCandidates(answer)
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	for _, c := range candidates {
		assignee := assigneeByID(roster, strings.TrimSpace(c.Assignee))
		content := strings.TrimSpace(c.Content)
		if assignee == "" || content == "" {
			continue
		}
		member, ok := MatchMember(assignee, members)
		if !ok {
			e.logger.Debug("AI task owner is not a member",
				zap.String("assignee", assignee),
				zap.String("content", content),
			)
			continue
		}
		tasks = append(tasks, domain.Task{
			Assignee:   member,
			Content:    content,
			Deadline:   strings.TrimSpace(c.Deadline),
			Room:       room.Name,
			SourceDate: date,
			Kind:       candidateKind(c.Kind),
			Status:     domain.StatusPending,
		})
	}
	return tasks, nil
}

// SectionText joins a room's action lines under their section headings.
func SectionText(room domain.RoomSection) string {
	lines := make([]string, 0, len(room.NextActions)+len(room.RequiredActions)+3)
	lines = append(lines, "## "+domain.KindNextAction.Display())
	lines = append(lines, room.NextActions...)
	lines = append(lines, "", "## "+domain.KindRequiredAction.Display())
	lines = append(lines, room.RequiredActions...)
	return strings.Join(lines, "\n")
}

// BuildExtractPrompt renders the member list, the room text and the extraction rules.
// text is cut to its first 4000 runes.
func BuildExtractPrompt(text string, members []string) string {
	if r := []rune(text); len(r) > maxSectionRunes {
		text = string(r[:maxSectionRunes])
	}

	return `以下はチャットワークの会話ログから抽出された「次アクション」「要対応」セクションです。

## 対象メンバー一覧
` + strings.Join(members, ", ") + `

## ログ内容
` + text + `

## ルール
1. ログに記載された担当者が対象メンバーの場合のみ抽出
2. 担当者名はログに記載された通りに出力（推測・変更しない）
3. 対象メンバー以外の人のタスクはスキップ
4. 担当者不明のタスクもスキップ
5. kind には抽出元のセクション名（次アクション または 要対応）を入れる

## 出力形式（JSON配列のみ）
[{"assignee": "担当者名", "content": "タスク内容", "deadline": "期限", "kind": "次アクション"}]

該当なしなら [] を返す。`
}

// ParseCandidates extracts the first-to-last bracketed JSON array from text.
func ParseCandidates(text string) ([]Candidate, error) {
	raw := jsonArrayPattern.FindString(text)
	if raw == "" {
		return nil, errors.New("no JSON array in response")
	}
	var out []Candidate
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return out, nil
}

// MatchMember maps name onto the first roster member it matches, ignoring spaces.
// A match is an exact match, a shared surname (the first three runes, at
// least two long) or one name containing the other.
func MatchMember(name string, members []string) (string, bool) {
	stripped := domain.RemoveSpaces(name)
	if stripped == "" {
		return "", false
	}
	surname := prefixRunes(stripped, surnameRunes)
	for _, m := range members {
		ms := domain.RemoveSpaces(m)
		if ms == "" {
			continue
		}
		if stripped == ms {
			return m, true
		}
		if len([]rune(surname)) >= 2 && surname == prefixRunes(ms, surnameRunes) {
			return m, true
		}
		if domain.MutuallyContains(stripped, ms) {
			return m, true
		}
	}
	return "", false
}

// assigneeByID returns the member name when name carries a member's chat ID.
func assigneeByID(roster *domain.Roster, name string) string {
	if roster == nil {
		return name
	}
	for _, m := range roster.Members {
		if m.ChatworkID != "" && strings.Contains(name, m.ChatworkID) {
			return m.Name
		}
	}
	return name
}

func candidateKind(s string) domain.Kind {
	switch strings.TrimSpace(s) {
	case domain.KindRequiredAction.Display(), string(domain.KindRequiredAction):
		return domain.KindRequiredAction
	default:
		return domain.KindNextAction
	}
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
