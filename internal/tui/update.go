package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgTasksLoaded:
		m.groups = msg.Groups
		m.err = nil
		cmd := m.taskList.SetItems(itemsFromGroups(msg.Groups))
		return m, cmd

	case MsgTaskCompleted:
		m.info = fmt.Sprintf("%s を完了にしました", msg.TaskID)
		return m, m.loadTasks()

	case MsgError:
		m.err = msg.Err
		m.info = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The list owns every key while the filter input is active.
	if m.taskList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Complete):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		if task.Status == domain.StatusCompleted {
			m.err = fmt.Errorf("%w: %s is already completed", domain.ErrInvalidTransition, task.ID)
			return m, nil
		}
		return m, m.completeTask(task.ID)

	case key.Matches(msg, m.keys.ToggleShowAll):
		m.showAll = !m.showAll
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Refresh):
		m.info = ""
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.updateLayoutSizes()
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// updateLayoutSizes fits the list between the header and the footer.
func (m *Model) updateLayoutSizes() {
	footer := 3
	if m.showHelp {
		footer = 6
	}
	height := m.height - footer - 4
	if height < 2 {
		height = 2
	}
	m.taskList.SetSize(m.width-4, height)
}
