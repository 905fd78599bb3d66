// Package tui implements the terminal task board.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

// TaskLister lists stored tasks grouped by assignee.
type TaskLister interface {
	Execute(ctx context.Context, in usecase.ListTasksInput) (*usecase.ListTasksOutput, error)
}

// TaskCompleter marks a task completed.
type TaskCompleter interface {
	Execute(ctx context.Context, in usecase.CompleteTaskInput) (*usecase.CompleteTaskOutput, error)
}

// Model is the bubbletea model for the board.
type Model struct {
	// Dependencies
	lister    TaskLister
	completer TaskCompleter
	err       error

	// State
	groups []domain.AssigneeTasks
	info   string

	// Components
	keys     KeyMap
	styles   Styles
	help     help.Model
	taskList list.Model

	// Numeric state
	width    int
	height   int
	showAll  bool
	showHelp bool
}

// New creates a board over the given use cases.
func New(lister TaskLister, completer TaskCompleter) *Model {
	styles := DefaultStyles()
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetFilteringEnabled(true)
	taskList.DisableQuitKeybindings()

	return &Model{
		lister:    lister,
		completer: completer,
		keys:      DefaultKeyMap(),
		styles:    styles,
		help:      help.New(),
		taskList:  taskList,
	}
}

// Init loads the tasks.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

// loadTasks returns a command that loads tasks from the store.
func (m *Model) loadTasks() tea.Cmd {
	includeCompleted := m.showAll
	return func() tea.Msg {
		out, err := m.lister.Execute(context.Background(), usecase.ListTasksInput{IncludeCompleted: includeCompleted})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Groups: out.Groups}
	}
}

// completeTask returns a command that completes the task with id.
func (m *Model) completeTask(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.completer.Execute(context.Background(), usecase.CompleteTaskInput{TaskID: id}); err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskCompleted{TaskID: id}
	}
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	item, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return nil
	}
	return &item.task
}

// taskCount returns the number of tasks loaded.
func (m *Model) taskCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.Tasks)
	}
	return n
}
