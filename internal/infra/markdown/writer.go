// Package markdown exports grouped tasks as markdown files.
package markdown

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

const timestampLayout = "2006/01/02 15:04:05"

// Writer renders per-assignee files, the team list and the daily report into one directory.
type Writer struct {
	clock    domain.Clock
	dir      string
	operator string
}

// Ensure Writer implements domain.TaskWriter.
var _ domain.TaskWriter = (*Writer)(nil)

// NewWriter creates a Writer for dir. The operator is starred in the daily report.
func NewWriter(dir, operator string, clock domain.Clock) *Writer {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Writer{dir: dir, operator: operator, clock: clock}
}

// Write renders every file and returns their paths in write order.
func (w *Writer) Write(ctx context.Context, date string, groups []domain.AssigneeTasks, reports []domain.Report) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stamp := w.clock.Now().Format(timestampLayout)
	var written []string

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if strings.TrimSpace(domain.SafeFileName(g.Assignee)) == "" {
			continue
		}
		path := domain.AssigneeFilePath(w.dir, g.Assignee)
		if err := writeFile(path, AssigneeMarkdown(g, stamp)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	team := domain.TeamFilePath(w.dir)
	if err := writeFile(team, TeamMarkdown(groups, stamp)); err != nil {
		return written, err
	}
	written = append(written, team)

	daily := domain.DailyReportFilePath(w.dir, date)
	if err := writeFile(daily, DailyMarkdown(date, groups, reports, w.operator, stamp)); err != nil {
		return written, err
	}
	written = append(written, daily)

	return written, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // exported reports are meant to be shared
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// AssigneeMarkdown renders one assignee's file: required actions, next actions, sources.
func AssigneeMarkdown(g domain.AssigneeTasks, stamp string) string {
	lines := []string{
		"# " + g.Assignee + "のタスク",
		"",
		"> 最終更新: " + stamp,
		"",
	}

	if required := g.Required(); len(required) > 0 {
		lines = append(lines, "## 🔴 要対応", "")
		for _, t := range required {
			lines = append(lines, taskLine(t))
		}
		lines = append(lines, "")
	}
	if next := g.Next(); len(next) > 0 {
		lines = append(lines, "## 📋 次アクション", "")
		for _, t := range next {
			lines = append(lines, taskLine(t))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "---", "", "## ソース情報", "")
	seen := make(map[string]bool)
	for _, t := range g.Tasks {
		src := t.SourceDate + " - " + t.Room
		if seen[src] {
			continue
		}
		seen[src] = true
		lines = append(lines, "- "+src)
	}

	return strings.Join(lines, "\n") + "\n"
}

// TeamMarkdown renders every group as a checklist.
func TeamMarkdown(groups []domain.AssigneeTasks, stamp string) string {
	lines := []string{
		"# チームタスク一覧",
		"",
		"> 最終更新: " + stamp,
		"",
	}
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("## %s (%d件)", g.Assignee, len(g.Tasks)), "")
		for _, t := range g.Tasks {
			lines = append(lines, "- "+checkbox(t)+" "+t.Content+deadlineMark(t)+" 📌 "+t.Room)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// DailyMarkdown renders the day's summary, per-assignee counts and task details.
func DailyMarkdown(date string, groups []domain.AssigneeTasks, reports []domain.Report, operator, stamp string) string {
	total := 0
	for _, g := range groups {
		total += len(g.Tasks)
	}

	lines := []string{
		fmt.Sprintf("# タスクレポート (%s)", date),
		"",
		"> 生成日時: " + stamp,
		"",
		"## 📊 サマリー",
		"",
		fmt.Sprintf("- 合計タスク数: %d件", total),
		fmt.Sprintf("- 担当者数: %d名", len(groups)),
	}
	if len(reports) > 0 {
		rooms := 0
		for _, r := range reports {
			rooms += len(r.Rooms)
		}
		lines = append(lines, fmt.Sprintf("- 対象ログ: %d件 (%dルーム)", len(reports), rooms))
	}
	lines = append(lines, "", "## 👥 担当者別タスク数", "")

	ranked := make([]domain.AssigneeTasks, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Tasks) > len(ranked[j].Tasks)
	})
	for _, g := range ranked {
		star := ""
		if operator != "" && g.Assignee == operator {
			star = " ⭐"
		}
		lines = append(lines, fmt.Sprintf("- %s: %d件%s", g.Assignee, len(g.Tasks), star))
	}

	lines = append(lines, "", "## 📝 タスク詳細", "")
	for _, g := range groups {
		for _, t := range g.Tasks {
			mark := "📋"
			if t.Kind == domain.KindRequiredAction {
				mark = "🔴"
			}
			lines = append(lines, fmt.Sprintf("- %s **%s**: %s%s", mark, t.Assignee, t.Content, deadlineMark(t)))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func taskLine(t domain.Task) string {
	return "- " + checkbox(t) + " " + t.Content + deadlineMark(t) + " (" + t.Room + ")"
}

func checkbox(t domain.Task) string {
	if t.IsCompleted() {
		return "[x]"
	}
	return "[ ]"
}

func deadlineMark(t domain.Task) string {
	if !t.HasDeadline() {
		return ""
	}
	return " 📅 " + t.Deadline
}
