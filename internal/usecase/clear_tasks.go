package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// ClearTasksInput contains the parameters for clearing the store.
type ClearTasksInput struct{}

// ClearTasksOutput contains the result of clearing the store.
type ClearTasksOutput struct {
	Removed int // Number of tasks that were stored
}

// ClearTasks is the use case for removing every stored task.
type ClearTasks struct {
	store  domain.TaskStore
	logger *zap.Logger
}

// NewClearTasks creates a new ClearTasks use case.
func NewClearTasks(store domain.TaskStore, logger *zap.Logger) *ClearTasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClearTasks{
		store:  store,
		logger: logger,
	}
}

// Execute removes every task.
func (uc *ClearTasks) Execute(ctx context.Context, _ ClearTasksInput) (*ClearTasksOutput, error) {
	if err := uc.store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	existing, err := uc.store.List(ctx, domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if err := uc.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear tasks: %w", err)
	}

	uc.logger.Info("Tasks cleared", zap.Int("count", len(existing)))
	return &ClearTasksOutput{Removed: len(existing)}, nil
}
