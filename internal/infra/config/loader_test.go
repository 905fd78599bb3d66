package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

func noEnv(string) string { return "" }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	// Setup
	dir := t.TempDir()
	loader := NewLoaderWithGlobalDir(filepath.Join(dir, "taskbot.toml"), t.TempDir()).WithEnv(noEnv)

	// Execute
	cfg, err := loader.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_LocalConfigOnly(t *testing.T) {
	// Setup
	dir := t.TempDir()
	localPath := filepath.Join(dir, "taskbot.toml")
	writeFile(t, localPath, `
operator = "宮内良明"

[logs]
dir = "/data/chatwork"

[store]
backend = "postgres"
members_only = false

[ai]
enabled = true
mode = "extract"
batch_size = 5

[log]
level = "debug"
format = "json"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(localPath, t.TempDir()).WithEnv(noEnv).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "宮内良明", cfg.Operator)
	assert.Equal(t, "/data/chatwork", cfg.Logs.Dir)
	assert.Equal(t, domain.DefaultLogsPattern, cfg.Logs.Pattern, "unset keys keep defaults")
	assert.Equal(t, domain.StoreBackendPostgres, cfg.Store.Backend)
	assert.False(t, cfg.Store.MembersOnly, "explicit false overrides default true")
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, domain.AIModeExtract, cfg.AI.Mode)
	assert.Equal(t, 5, cfg.AI.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_LocalOverridesGlobal(t *testing.T) {
	// Setup
	dir := t.TempDir()
	globalDir := t.TempDir()
	localPath := filepath.Join(dir, "taskbot.toml")
	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
operator = "安田太郎"

[chatwork]
room_id = "111"

[roster]
file = "/etc/taskbot/roster.yaml"
`)
	writeFile(t, localPath, `
operator = "宮内良明"

[chatwork]
room_id = "222"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(localPath, globalDir).WithEnv(noEnv).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "宮内良明", cfg.Operator)
	assert.Equal(t, "222", cfg.Chatwork.RoomID)
	assert.Equal(t, "/etc/taskbot/roster.yaml", cfg.Roster.File)
}

func TestLoader_Load_Warnings(t *testing.T) {
	// Setup
	dir := t.TempDir()
	localPath := filepath.Join(dir, "taskbot.toml")
	writeFile(t, localPath, `
owner = "x"

[log]
level = "info"
colour = true

[sheets]
id = "abc"

[ai]
batch_size = "ten"
`)

	// Execute
	cfg, err := NewLoaderWithGlobalDir(localPath, t.TempDir()).WithEnv(noEnv).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"invalid value for ai.batch_size: expected integer",
		"unknown key in [log]: colour",
		"unknown key: owner",
		"unknown section: sheets",
	}, cfg.Warnings)
	assert.Equal(t, domain.DefaultAIBatchSize, cfg.AI.BatchSize)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "taskbot.toml")
	writeFile(t, localPath, "operator = \n")

	_, err := NewLoaderWithGlobalDir(localPath, t.TempDir()).WithEnv(noEnv).Load()

	assert.Error(t, err)
}

func TestLoader_Load_DatabaseURLFromEnv(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "taskbot.toml")
	writeFile(t, localPath, "[store]\ndsn = \"postgres://file\"\n")

	env := func(key string) string {
		if key == domain.EnvDatabaseURL {
			return "postgres://env"
		}
		return ""
	}
	cfg, err := NewLoaderWithGlobalDir(localPath, t.TempDir()).WithEnv(env).Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.Store.DSN)
}

func TestLoader_LoadGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), "operator = \"安田太郎\"\n")

	cfg, err := NewLoaderWithGlobalDir("", globalDir).LoadGlobal()

	require.NoError(t, err)
	assert.Equal(t, "安田太郎", cfg.Operator)
}

func TestLoader_LoadGlobal_Missing(t *testing.T) {
	_, err := NewLoaderWithGlobalDir("", t.TempDir()).LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
