package tui

import "github.com/kijins-dev/chatwork-task-generator/internal/domain"

// MsgTasksLoaded is sent when tasks are loaded from the store.
type MsgTasksLoaded struct {
	Groups []domain.AssigneeTasks
}

// MsgTaskCompleted is sent when a task is marked completed.
type MsgTaskCompleted struct {
	TaskID string
}

// MsgError is sent when a store operation fails.
type MsgError struct {
	Err error
}
