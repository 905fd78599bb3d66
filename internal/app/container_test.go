package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/jsonstore"
	"github.com/kijins-dev/chatwork-task-generator/internal/infra/llm"
	"github.com/kijins-dev/chatwork-task-generator/internal/testutil"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

func newTestContainer(t *testing.T, configText string, env map[string]string) (*Container, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	if configText != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.LocalConfigFileName), []byte(configText), 0o600))
	}
	c, err := New(Options{
		Dir:       dir,
		LogOutput: io.Discard,
		Getenv:    func(k string) string { return env[k] },
	})
	require.NoError(t, err)
	return c, dir
}

func TestNew_Defaults(t *testing.T) {
	// Setup & Execute
	c, dir := newTestContainer(t, `operator = "宮内良明"`, nil)

	// Assert
	assert.Equal(t, "宮内良明", c.Config.Operator)
	assert.Nil(t, c.Notifier)
	assert.Nil(t, c.Writer)
	assert.IsType(t, llm.PassThrough{}, c.Validator)

	store, err := c.TaskStore(context.Background())
	require.NoError(t, err)
	js, ok := store.(*jsonstore.Store)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, domain.DefaultStorePath), js.Path())

	again, err := c.TaskStore(context.Background())
	require.NoError(t, err)
	assert.Same(t, store, again)
}

func TestNew_OptionalAdapters(t *testing.T) {
	c, _ := newTestContainer(t, `
operator = "宮内良明"

[chatwork]
room_id = "42"

[output]
markdown_dir = "out"

[ai]
enabled = true
`, map[string]string{
		domain.EnvChatworkToken: "token",
		domain.EnvAnthropicKey:  "key",
	})

	assert.NotNil(t, c.Notifier)
	assert.NotNil(t, c.Writer)
	assert.IsType(t, &llm.Validator{}, c.Validator)
}

func TestNew_AIEnabledWithoutKey(t *testing.T) {
	c, _ := newTestContainer(t, "[ai]\nenabled = true\n", nil)

	assert.IsType(t, llm.PassThrough{}, c.Validator)
}

func TestNew_AIModes(t *testing.T) {
	key := map[string]string{domain.EnvAnthropicKey: "key"}
	tests := []struct {
		name          string
		config        string
		env           map[string]string
		wantValidator any
		wantExtractor bool
	}{
		{name: "validate", config: "[ai]\nenabled = true\nmode = \"validate\"\n", env: key, wantValidator: &llm.Validator{}},
		{name: "extract", config: "[ai]\nenabled = true\nmode = \"extract\"\n", env: key, wantValidator: llm.PassThrough{}, wantExtractor: true},
		{name: "extract without key", config: "[ai]\nenabled = true\nmode = \"extract\"\n", wantValidator: llm.PassThrough{}},
		{name: "extract disabled", config: "[ai]\nmode = \"extract\"\n", env: key, wantValidator: llm.PassThrough{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup & Execute
			c, _ := newTestContainer(t, "operator = \"宮内良明\"\n"+tt.config, tt.env)

			// Assert
			assert.IsType(t, tt.wantValidator, c.Validator)
			if tt.wantExtractor {
				assert.IsType(t, &llm.Extractor{}, c.Extractor)
			} else {
				assert.Nil(t, c.Extractor)
			}
			_, err := c.GenerateTasksUseCase(context.Background())
			require.NoError(t, err)
		})
	}
}

func TestNew_UnknownAIMode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.LocalConfigFileName), []byte("[ai]\nmode = \"summarize\"\n"), 0o600))

	_, err := New(Options{Dir: dir, LogOutput: io.Discard, Getenv: func(string) string { return "" }})

	assert.ErrorIs(t, err, domain.ErrUnknownAIMode)
}

func TestTaskStore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr error
		wantMsg string
	}{
		{name: "unknown backend", config: "[store]\nbackend = \"sqlite\"\n", wantErr: domain.ErrUnknownStoreBackend},
		{name: "postgres without dsn", config: "[store]\nbackend = \"postgres\"\n", wantMsg: domain.EnvDatabaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContainer(t, tt.config, nil)

			_, err := c.TaskStore(context.Background())

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNewWithDeps_UseCases(t *testing.T) {
	store := testutil.NewMockTaskStore()
	cfg := domain.NewDefaultConfig()
	cfg.Operator = "宮内良明"
	c := NewWithDeps(cfg, store, &testutil.MockRosterProvider{}, testutil.NewMockReportSource(), &testutil.MockClock{}, nil)
	ctx := context.Background()

	_, err := c.GenerateTasksUseCase(ctx)
	require.NoError(t, err)
	_, err = c.ListTasksUseCase(ctx)
	require.NoError(t, err)

	out, err := c.ClearTasksUseCase(ctx)
	require.NoError(t, err)
	_, err = out.Execute(ctx, usecase.ClearTasksInput{})
	require.NoError(t, err)
	assert.True(t, store.Cleared)

	notify, err := c.NotifyTasksUseCase(ctx)
	require.NoError(t, err)
	_, err = notify.Execute(ctx, usecase.NotifyTasksInput{})
	assert.ErrorIs(t, err, domain.ErrNotifierDisabled)
}
