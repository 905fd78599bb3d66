// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	getenv        func(string) string
	localPath     string // Path to taskbot.toml (or --config)
	globalConfDir string // Path to global config directory (e.g., ~/.config/taskbot)
}

// NewLoader creates a new Loader.
func NewLoader(localPath string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		localPath:     localPath,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(localPath, globalConfDir string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		localPath:     localPath,
		globalConfDir: globalConfDir,
	}
}

// WithEnv replaces the environment lookup. Used by tests.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Load returns the merged configuration.
// Merge order: default <- global <- local (later takes precedence).
// TASKBOT_DATABASE_URL overrides store.dsn.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.globalLayer()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	local, err := l.readLayer(l.localPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := domain.NewDefaultConfig()
	global.applyTo(cfg)
	local.applyTo(cfg)

	if dsn := l.getenv(domain.EnvDatabaseURL); dsn != "" {
		cfg.Store.DSN = dsn
	}
	return cfg, nil
}

// LoadGlobal returns only the global configuration on top of the defaults.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	global, err := l.globalLayer()
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	global.applyTo(cfg)
	return cfg, nil
}

func (l *Loader) globalLayer() (*layer, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.readLayer(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// readLayer loads one TOML file.
func (l *Loader) readLayer(path string) (*layer, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return convertRaw(raw), nil
}

// layer is the set of values one file defines.
// Only keys present in the file override lower layers.
type layer struct {
	values   []setting
	warnings []string
}

type setting struct {
	value any
	field field
}

func (ly *layer) applyTo(cfg *domain.Config) {
	if ly == nil {
		return
	}
	for _, s := range ly.values {
		s.field.set(cfg, s.value)
	}
	cfg.Warnings = append(cfg.Warnings, ly.warnings...)
}

// field binds a TOML key to a Config field.
type field struct {
	set  func(cfg *domain.Config, v any)
	kind string // "string", "bool" or "integer"
}

func stringField(ptr func(*domain.Config) *string) field {
	return field{kind: "string", set: func(c *domain.Config, v any) { *ptr(c) = v.(string) }}
}

func boolField(ptr func(*domain.Config) *bool) field {
	return field{kind: "bool", set: func(c *domain.Config, v any) { *ptr(c) = v.(bool) }}
}

func intField(ptr func(*domain.Config) *int) field {
	return field{kind: "integer", set: func(c *domain.Config, v any) { *ptr(c) = int(v.(int64)) }}
}

// topLevel lists keys outside any section.
var topLevel = map[string]field{
	"operator": stringField(func(c *domain.Config) *string { return &c.Operator }),
}

// sections lists the known [section] keys.
var sections = map[string]map[string]field{
	"logs": {
		"dir":     stringField(func(c *domain.Config) *string { return &c.Logs.Dir }),
		"pattern": stringField(func(c *domain.Config) *string { return &c.Logs.Pattern }),
	},
	"roster": {
		"file": stringField(func(c *domain.Config) *string { return &c.Roster.File }),
	},
	"store": {
		"backend":      stringField(func(c *domain.Config) *string { return &c.Store.Backend }),
		"path":         stringField(func(c *domain.Config) *string { return &c.Store.Path }),
		"dsn":          stringField(func(c *domain.Config) *string { return &c.Store.DSN }),
		"members_only": boolField(func(c *domain.Config) *bool { return &c.Store.MembersOnly }),
	},
	"output": {
		"markdown_dir": stringField(func(c *domain.Config) *string { return &c.Output.MarkdownDir }),
	},
	"chatwork": {
		"room_id":  stringField(func(c *domain.Config) *string { return &c.Chatwork.RoomID }),
		"base_url": stringField(func(c *domain.Config) *string { return &c.Chatwork.BaseURL }),
	},
	"ai": {
		"enabled":    boolField(func(c *domain.Config) *bool { return &c.AI.Enabled }),
		"mode":       stringField(func(c *domain.Config) *string { return &c.AI.Mode }),
		"model":      stringField(func(c *domain.Config) *string { return &c.AI.Model }),
		"base_url":   stringField(func(c *domain.Config) *string { return &c.AI.BaseURL }),
		"batch_size": intField(func(c *domain.Config) *int { return &c.AI.BatchSize }),
	},
	"log": {
		"level":  stringField(func(c *domain.Config) *string { return &c.Log.Level }),
		"format": stringField(func(c *domain.Config) *string { return &c.Log.Format }),
	},
}

// convertRaw maps the decoded TOML onto known fields and collects warnings.
func convertRaw(raw map[string]any) *layer {
	ly := &layer{}
	for key, value := range raw {
		if f, ok := topLevel[key]; ok {
			ly.add(f, key, value)
			continue
		}
		known, ok := sections[key]
		if !ok {
			if _, isTable := value.(map[string]any); isTable {
				ly.warnings = append(ly.warnings, fmt.Sprintf("unknown section: %s", key))
			} else {
				ly.warnings = append(ly.warnings, fmt.Sprintf("unknown key: %s", key))
			}
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			ly.warnings = append(ly.warnings, fmt.Sprintf("[%s] must be a table", key))
			continue
		}
		for k, v := range m {
			f, ok := known[k]
			if !ok {
				ly.warnings = append(ly.warnings, fmt.Sprintf("unknown key in [%s]: %s", key, k))
				continue
			}
			ly.add(f, fmt.Sprintf("%s.%s", key, k), v)
		}
	}
	sort.Strings(ly.warnings)
	return ly
}

func (ly *layer) add(f field, name string, v any) {
	if !hasKind(v, f.kind) {
		ly.warnings = append(ly.warnings, fmt.Sprintf("invalid value for %s: expected %s", name, f.kind))
		return
	}
	ly.values = append(ly.values, setting{field: f, value: v})
}

func hasKind(v any, kind string) bool {
	switch kind {
	case "string":
		_, ok := v.(string)
		return ok
	case "bool":
		_, ok := v.(bool)
		return ok
	case "integer":
		_, ok := v.(int64)
		return ok
	}
	return false
}
