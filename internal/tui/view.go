package tui

import (
	"fmt"
	"strings"
)

// View renders the board.
func (m *Model) View() string {
	var b strings.Builder

	scope := "未完了"
	if m.showAll {
		scope = "すべて"
	}
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("taskbot board  %s %d件 / %d人", scope, m.taskCount(), len(m.groups))))
	b.WriteString("\n")

	if m.taskCount() == 0 {
		b.WriteString(m.styles.TaskDesc.Render("タスクはありません"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.taskList.View())
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.info != "":
		b.WriteString(m.styles.Info.Render(m.info))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}
