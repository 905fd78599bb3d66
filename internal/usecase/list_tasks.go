package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Assignee         string // Exact assignee (empty = everyone)
	IncludeCompleted bool   // Include completed tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks  []domain.Task          // Matching tasks in store order
	Groups []domain.AssigneeTasks // Tasks grouped by assignee, operator first
}

// ListTasks is the use case for listing stored tasks.
type ListTasks struct {
	store    domain.TaskStore
	operator string
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store domain.TaskStore, operator string) *ListTasks {
	return &ListTasks{
		store:    store,
		operator: operator,
	}
}

// Execute lists tasks matching the given input criteria.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	filter := domain.TaskFilter{Assignee: in.Assignee}
	if !in.IncludeCompleted {
		filter.Status = domain.StatusPending
	}

	tasks, err := uc.store.List(ctx, filter)
	if errors.Is(err, domain.ErrStoreNotInitialized) {
		// Nothing has been generated yet.
		tasks, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &ListTasksOutput{
		Tasks:  tasks,
		Groups: domain.GroupByAssignee(tasks, uc.operator),
	}, nil
}
