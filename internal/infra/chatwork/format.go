package chatwork

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// summaryTop is how many assignees the daily summary ranks.
const summaryTop = 3

// FormatTeamList renders every assignee's tasks in one info block.
func FormatTeamList(groups []domain.AssigneeTasks) string {
	lines := []string{"[info][title]📋 本日のタスク一覧[/title]"}

	for _, g := range groups {
		if len(g.Tasks) == 0 {
			continue
		}
		lines = append(lines, "[hr]", "👤 "+g.Assignee, "")
		for _, t := range g.Tasks {
			lines = append(lines, "・"+t.Content+deadlineSuffix(t)+roomSuffix(t))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "[/info]")
	return strings.Join(lines, "\n")
}

// FormatPersonal renders one assignee's tasks with a mention when accountID is known.
// Required actions are marked red.
func FormatPersonal(group domain.AssigneeTasks, accountID string) string {
	mention := ""
	if accountID != "" {
		mention = "[To:" + accountID + "]"
	}
	lines := []string{
		mention + group.Assignee + "さん",
		"",
		"[info][title]📋 あなたのタスク[/title]",
	}

	for _, t := range group.Tasks {
		priority := ""
		if t.Kind == domain.KindRequiredAction {
			priority = "🔴 "
		}
		lines = append(lines, priority+"・"+t.Content+deadlineSuffix(t))
	}

	lines = append(lines, "[/info]")
	return strings.Join(lines, "\n")
}

// FormatSummary renders the task totals for a day and the busiest assignees.
func FormatSummary(date string, groups []domain.AssigneeTasks) string {
	total, members := 0, 0
	for _, g := range groups {
		total += len(g.Tasks)
		if len(g.Tasks) > 0 {
			members++
		}
	}

	lines := []string{
		fmt.Sprintf("[info][title]📊 %s タスクサマリー[/title]", date),
		"",
		fmt.Sprintf("・合計タスク数: %d件", total),
		fmt.Sprintf("・担当者数: %d名", members),
		"",
	}

	ranked := make([]domain.AssigneeTasks, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Tasks) > len(ranked[j].Tasks)
	})
	if len(ranked) > summaryTop {
		ranked = ranked[:summaryTop]
	}
	if len(ranked) > 0 {
		lines = append(lines, "📌 タスクが多い担当者:")
		for _, g := range ranked {
			lines = append(lines, fmt.Sprintf("  %s: %d件", g.Assignee, len(g.Tasks)))
		}
	}

	lines = append(lines, "", "[/info]")
	return strings.Join(lines, "\n")
}

// FormatReminder renders tasks with near deadlines.
func FormatReminder(tasks []domain.Task) string {
	lines := []string{"[info][title]⚠️ 期限が近いタスク[/title]"}
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("・%s: %s (%s)", t.Assignee, t.Content, t.Deadline))
	}
	lines = append(lines, "[/info]")
	return strings.Join(lines, "\n")
}

func deadlineSuffix(t domain.Task) string {
	if !t.HasDeadline() {
		return ""
	}
	return " (" + t.Deadline + ")"
}

func roomSuffix(t domain.Task) string {
	if t.Room == "" {
		return ""
	}
	return " [" + t.Room + "]"
}
