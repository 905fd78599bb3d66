package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// taskItem is one row of the board. header is set on the first task of an assignee.
type taskItem struct {
	task   domain.Task
	header bool
}

func (t taskItem) FilterValue() string {
	return t.task.Assignee + " " + t.task.Content + " " + t.task.Room
}

// itemsFromGroups flattens groups into list items in group order.
func itemsFromGroups(groups []domain.AssigneeTasks) []list.Item {
	var items []list.Item
	for _, g := range groups {
		for i, t := range g.Tasks {
			items = append(items, taskItem{task: t, header: i == 0})
		}
	}
	return items
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// prefixWidth is the display width of indicator, ID and status columns.
const prefixWidth = 12

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()
	listWidth := m.Width()

	indicator := " "
	if selected {
		indicator = ">"
	}
	kind := "[" + task.Kind.Display() + "] "
	maxContent := listWidth - prefixWidth - runewidth.StringWidth(kind) - 2
	if maxContent < 10 {
		maxContent = 10
	}
	content := runewidth.Truncate(singleLine(task.Content), maxContent, "...")

	titleStyle := d.styles.TaskTitle
	descStyle := d.styles.TaskDesc
	if selected {
		titleStyle = d.styles.TaskTitleSelected
		descStyle = d.styles.TaskDescSelected
	}

	line := " " + d.styles.Indicator.Render(indicator) + " " +
		d.styles.TaskID.Render(runewidth.FillRight(task.ID, 5)) + " " +
		d.styles.StatusStyle(task.Status).Render(StatusIcon(task.Status)) + "  " +
		d.styles.KindStyle(task.Kind).Render(kind) +
		titleStyle.Render(content)
	_, _ = fmt.Fprintln(w, line)

	desc := strings.Repeat(" ", prefixWidth) + describe(task, ti.header)
	desc = runewidth.Truncate(desc, max(listWidth, prefixWidth+10), "...")
	_, _ = fmt.Fprint(w, descStyle.Render(desc))
}

// describe renders the second row: assignee on group starts, then room and deadline.
func describe(t domain.Task, header bool) string {
	var parts []string
	if header {
		parts = append(parts, "■ "+t.Assignee)
	}
	if t.Room != "" {
		parts = append(parts, t.Room)
	}
	if t.HasDeadline() {
		parts = append(parts, "期限: "+t.Deadline)
	}
	if t.SourceDate != "" {
		parts = append(parts, t.SourceDate)
	}
	return strings.Join(parts, " · ")
}

// singleLine replaces newline characters with spaces for single-line display.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
