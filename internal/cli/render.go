package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/tui"
)

// contentWidth is the display width of the content column.
const contentWidth = 48

type listStyles struct {
	header   lipgloss.Style
	id       lipgloss.Style
	required lipgloss.Style
	next     lipgloss.Style
	deadline lipgloss.Style
	muted    lipgloss.Style
	warning  lipgloss.Style
	success  lipgloss.Style
}

func newListStyles() listStyles {
	return listStyles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(tui.Colors.Primary),
		id:       lipgloss.NewStyle().Foreground(tui.Colors.Muted),
		required: lipgloss.NewStyle().Bold(true).Foreground(tui.Colors.Required),
		next:     lipgloss.NewStyle().Foreground(tui.Colors.Secondary),
		deadline: lipgloss.NewStyle().Foreground(tui.Colors.Deadline),
		muted:    lipgloss.NewStyle().Foreground(tui.Colors.Muted),
		warning:  lipgloss.NewStyle().Foreground(tui.Colors.Warning),
		success:  lipgloss.NewStyle().Foreground(tui.Colors.Success),
	}
}

// printGroups prints one block per assignee. Columns are padded by display
// width so that full-width text lines up.
func printGroups(w io.Writer, groups []domain.AssigneeTasks, styles listStyles) {
	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, styles.header.Render(fmt.Sprintf("■ %s (%d件)", g.Assignee, len(g.Tasks))))
		for _, t := range g.Tasks {
			_, _ = fmt.Fprintln(w, formatTaskLine(t, styles))
		}
	}
}

func formatTaskLine(t domain.Task, styles listStyles) string {
	kindStyle := styles.next
	if t.Kind == domain.KindRequiredAction {
		kindStyle = styles.required
	}
	id := t.ID
	if id == "" {
		id = "-"
	}

	content := runewidth.Truncate(t.Content, contentWidth, "...")
	line := "  " + styles.id.Render(runewidth.FillRight(id, 5)) + " " +
		tui.StatusIcon(t.Status) + " " +
		kindStyle.Render(runewidth.FillRight("["+t.Kind.Display()+"]", 14)) + " " +
		runewidth.FillRight(content, contentWidth)
	if t.HasDeadline() {
		line += " " + styles.deadline.Render("期限: "+t.Deadline)
	}
	if t.Room != "" {
		line += " " + styles.muted.Render("("+t.Room+")")
	}
	return line
}
