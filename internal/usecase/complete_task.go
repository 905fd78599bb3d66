package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	TaskID string // Task ID to complete (e.g. T12)
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	TaskID string
}

// CompleteTask is the use case for marking a task as completed.
type CompleteTask struct {
	store  domain.TaskStore
	logger *zap.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(store domain.TaskStore, logger *zap.Logger) *CompleteTask {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompleteTask{
		store:  store,
		logger: logger,
	}
}

// Execute marks a task as completed.
// Preconditions:
//   - The task exists
//   - Status is pending
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	id := strings.ToUpper(strings.TrimSpace(in.TaskID))
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}

	if err := uc.store.Complete(ctx, id); err != nil {
		return nil, err
	}

	uc.logger.Info("Task completed", zap.String("task_id", id))
	return &CompleteTaskOutput{TaskID: id}, nil
}
