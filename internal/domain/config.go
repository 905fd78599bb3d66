package domain

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Operator string         `toml:"operator"` // Identity that owns unattributed tasks and "自分"
	Logs     LogsConfig     `toml:"logs"`
	Roster   RosterConfig   `toml:"roster"`
	Output   OutputConfig   `toml:"output"`
	Chatwork ChatworkConfig `toml:"chatwork"`
	AI       AIConfig       `toml:"ai"`
	Log      LogConfig      `toml:"log"`
	Store    StoreConfig    `toml:"store"`
}

// LogsConfig locates the daily reports from the [logs] section.
type LogsConfig struct {
	Dir     string `toml:"dir,omitempty"`     // Directory holding YYYY-MM-DD.md reports
	Pattern string `toml:"pattern,omitempty"` // Glob matched inside Dir
}

// RosterConfig holds settings from the [roster] section.
type RosterConfig struct {
	File string `toml:"file,omitempty"` // YAML roster path
}

// StoreConfig holds task persistence settings from the [store] section.
type StoreConfig struct {
	Backend     string `toml:"backend,omitempty"` // "json" (default) or "postgres"
	Path        string `toml:"path,omitempty"`    // JSON store file
	DSN         string `toml:"dsn,omitempty"`     // PostgreSQL connection string
	MembersOnly bool   `toml:"members_only"`      // Keep only roster members' tasks
}

// OutputConfig holds settings from the [output] section.
type OutputConfig struct {
	MarkdownDir string `toml:"markdown_dir,omitempty"` // Empty disables markdown export
}

// ChatworkConfig holds settings from the [chatwork] section.
// The API token is read from CHATWORK_API_TOKEN only.
type ChatworkConfig struct {
	RoomID  string `toml:"room_id,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// AIConfig holds LLM settings from the [ai] section.
// The API key is read from ANTHROPIC_API_KEY only.
type AIConfig struct {
	Mode      string `toml:"mode,omitempty"` // validate or extract
	Model     string `toml:"model,omitempty"`
	BaseURL   string `toml:"base_url,omitempty"`
	BatchSize int    `toml:"batch_size,omitempty"`
	Enabled   bool   `toml:"enabled"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level  string `toml:"level,omitempty"`  // debug, info, warn, error
	Format string `toml:"format,omitempty"` // console or json
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Backend names for StoreConfig.Backend.
const (
	StoreBackendJSON     = "json"
	StoreBackendPostgres = "postgres"
)

// AI modes for AIConfig.Mode.
const (
	AIModeValidate = "validate" // Regex extraction, LLM filters the result
	AIModeExtract  = "extract"  // LLM extracts tasks per room
)

// Environment variables carrying secrets.
const (
	EnvChatworkToken = "CHATWORK_API_TOKEN"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvDatabaseURL   = "TASKBOT_DATABASE_URL"
)

// Default configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultLogsDir         = "logs"
	DefaultLogsPattern     = "*.md"
	DefaultRosterFile      = "roster.yaml"
	DefaultStorePath       = ".taskbot/tasks.json"
	DefaultChatworkBaseURL = "https://api.chatwork.com/v2"
	DefaultAIModel         = "claude-3-5-haiku-latest"
	DefaultAIBaseURL       = "https://api.anthropic.com"
	DefaultAIBatchSize     = 10
)

// Config file names and directories.
const (
	AppDirName          = "taskbot"
	ConfigFileName      = "config.toml"  // Global config file name
	LocalConfigFileName = "taskbot.toml" // Config file name in the working directory
)

// LocalConfigPath returns the local config path inside dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// GlobalAppDir returns the global taskbot directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalAppDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalAppDir(configHome), ConfigFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logs: LogsConfig{
			Dir:     DefaultLogsDir,
			Pattern: DefaultLogsPattern,
		},
		Roster: RosterConfig{File: DefaultRosterFile},
		Store: StoreConfig{
			Backend:     StoreBackendJSON,
			Path:        DefaultStorePath,
			MembersOnly: true,
		},
		Chatwork: ChatworkConfig{BaseURL: DefaultChatworkBaseURL},
		AI: AIConfig{
			Mode:      AIModeValidate,
			Model:     DefaultAIModel,
			BaseURL:   DefaultAIBaseURL,
			BatchSize: DefaultAIBatchSize,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// RenderConfigTemplate renders the commented config template from cfg.
// Falls back to the raw template if rendering fails.
func RenderConfigTemplate(cfg *Config) string {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		return configTemplateContent
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return configTemplateContent
	}
	return buf.String()
}
