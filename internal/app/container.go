// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/chatwork"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/config"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/jsonstore"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/llm"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/logging"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/markdown"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/metrics"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/pgstore"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/reportsource"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/roster"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

// Options locates the configuration and overrides process-level inputs.
type Options struct {
	Getenv     func(string) string // Defaults to os.Getenv
	LogOutput  io.Writer           // Defaults to os.Stderr
	Dir        string              // Working directory; relative paths resolve against it
	ConfigPath string              // Local config file (default <Dir>/taskbot.toml)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Roster        domain.RosterProvider
	Reports       domain.ReportSource
	Validator     domain.TaskValidator
	Extractor     domain.TaskExtractor // nil unless [ai] mode = "extract" is active
	Notifier      domain.Notifier      // nil when chat notification is not configured
	Writer        domain.TaskWriter    // nil when markdown export is disabled
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Config  *domain.Config
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	store     domain.TaskStore
	openStore func(ctx context.Context) (domain.TaskStore, func(), error)
	closeFn   func()
	storeMu   sync.Mutex
}

// New loads the configuration and wires every adapter.
// The task store is opened on first use.
func New(opts Options) (*Container, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = domain.LocalConfigPath(dir)
	}

	configLoader := config.NewLoader(configPath).WithEnv(getenv)
	cfg, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Output: opts.LogOutput,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	clock := domain.RealClock{}
	rosterProvider := roster.NewFile(resolve(dir, cfg.Roster.File))
	validator, extractor, err := newAI(cfg, getenv, rosterProvider, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Roster:        rosterProvider,
		Reports:       reportsource.NewDir(resolve(dir, cfg.Logs.Dir), cfg.Logs.Pattern, clock),
		Validator:     validator,
		Extractor:     extractor,
		Clock:         clock,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(configPath),
		Config:        cfg,
		Metrics:       metrics.New(),
		Logger:        logger,
	}

	notifier, err := chatwork.New(chatwork.Options{
		Token:   getenv(domain.EnvChatworkToken),
		RoomID:  cfg.Chatwork.RoomID,
		BaseURL: cfg.Chatwork.BaseURL,
	}, logger)
	switch {
	case err == nil:
		c.Notifier = notifier
	case errors.Is(err, domain.ErrNotifierDisabled):
		logger.Debug("Chat notifications disabled", zap.Error(err))
	default:
		return nil, err
	}

	if cfg.Output.MarkdownDir != "" {
		c.Writer = markdown.NewWriter(resolve(dir, cfg.Output.MarkdownDir), cfg.Operator, clock)
	}

	c.openStore = func(ctx context.Context) (domain.TaskStore, func(), error) {
		return openStore(ctx, cfg.Store, dir, clock, logger)
	}
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, store domain.TaskStore, rosterProvider domain.RosterProvider, reports domain.ReportSource, clock domain.Clock, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{
		Roster:    rosterProvider,
		Reports:   reports,
		Validator: llm.PassThrough{},
		Clock:     clock,
		Config:    cfg,
		Metrics:   metrics.New(),
		Logger:    logger,
		store:     store,
	}
}

// TaskStore returns the configured store, opening it on first call.
func (c *Container) TaskStore(ctx context.Context) (domain.TaskStore, error) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	if c.store != nil {
		return c.store, nil
	}
	if c.openStore == nil {
		return nil, errors.New("task store not configured")
	}
	store, closeFn, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	c.store = store
	c.closeFn = closeFn
	return store, nil
}

// Close releases the store connection and flushes the logger.
func (c *Container) Close() {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.closeFn != nil {
		c.closeFn()
		c.closeFn = nil
	}
	_ = c.Logger.Sync()
}

// openStore builds the backend named in the [store] section.
func openStore(ctx context.Context, cfg domain.StoreConfig, dir string, clock domain.Clock, logger *zap.Logger) (domain.TaskStore, func(), error) {
	switch cfg.Backend {
	case "", domain.StoreBackendJSON:
		return jsonstore.New(resolve(dir, cfg.Path)).WithClock(clock), func() {}, nil
	case domain.StoreBackendPostgres:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("store.dsn or %s is required for the postgres backend", domain.EnvDatabaseURL)
		}
		pool, err := pgstore.Connect(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return pgstore.New(pool, logger), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreBackend, cfg.Backend)
	}
}

// newAI wires the LLM for the configured [ai] mode. Without an API key both
// modes fall back to rule-based extraction with no validation.
func newAI(cfg *domain.Config, getenv func(string) string, rosterProvider domain.RosterProvider, logger *zap.Logger) (domain.TaskValidator, domain.TaskExtractor, error) {
	switch cfg.AI.Mode {
	case "", domain.AIModeValidate, domain.AIModeExtract:
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownAIMode, cfg.AI.Mode)
	}
	if !cfg.AI.Enabled {
		return llm.PassThrough{}, nil, nil
	}
	client, err := llm.NewClient(llm.ClientOptions{
		APIKey:  getenv(domain.EnvAnthropicKey),
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
	if err != nil {
		logger.Warn("LLM disabled", zap.String("mode", cfg.AI.Mode), zap.Error(err))
		return llm.PassThrough{}, nil, nil
	}
	if cfg.AI.Mode == domain.AIModeExtract {
		return llm.PassThrough{}, llm.NewExtractor(client, logger), nil
	}
	return llm.NewValidator(client, rosterProvider, cfg.AI.BatchSize, logger), nil, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// UseCase factory methods

// GenerateTasksUseCase returns a new GenerateTasks use case.
func (c *Container) GenerateTasksUseCase(ctx context.Context) (*usecase.GenerateTasks, error) {
	store, err := c.TaskStore(ctx)
	if err != nil {
		return nil, err
	}
	uc := usecase.NewGenerateTasks(c.Roster, c.Reports, store, c.Validator, c.Notifier, c.Writer,
		c.Metrics, c.Clock, c.Logger, c.Config.Operator, c.Config.Store.MembersOnly)
	if c.Extractor != nil {
		uc = uc.WithExtractor(c.Extractor)
	}
	return uc, nil
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase(ctx context.Context) (*usecase.ListTasks, error) {
	store, err := c.TaskStore(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewListTasks(store, c.Config.Operator), nil
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase(ctx context.Context) (*usecase.CompleteTask, error) {
	store, err := c.TaskStore(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewCompleteTask(store, c.Logger), nil
}

// ClearTasksUseCase returns a new ClearTasks use case.
func (c *Container) ClearTasksUseCase(ctx context.Context) (*usecase.ClearTasks, error) {
	store, err := c.TaskStore(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewClearTasks(store, c.Logger), nil
}

// NotifyTasksUseCase returns a new NotifyTasks use case.
func (c *Container) NotifyTasksUseCase(ctx context.Context) (*usecase.NotifyTasks, error) {
	store, err := c.TaskStore(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewNotifyTasks(store, c.Roster, c.Notifier, c.Metrics, c.Clock, c.Logger, c.Config.Operator), nil
}

// ParseReportUseCase returns a new ParseReport use case.
func (c *Container) ParseReportUseCase() *usecase.ParseReport {
	return usecase.NewParseReport(c.Roster, c.Reports, c.Config.Operator)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
