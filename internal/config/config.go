// Package config loads and validates promptguard configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration for the promptguard service. Values are
// read once at startup and never change for the life of the process.
type Config struct {
	Plugin   PluginConfig   `yaml:"plugin"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Bot      BotConfig      `yaml:"bot"`
	Template TemplateConfig `yaml:"template"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// PluginConfig is the process-wide switch.
type PluginConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RuntimeConfig holds the per-request behavior flags.
type RuntimeConfig struct {
	ApplyGroup             bool `yaml:"apply_group"`
	ApplyPrivate           bool `yaml:"apply_private"`
	ApplyRewrite           bool `yaml:"apply_rewrite"`
	MergeConsecutive       bool `yaml:"merge_consecutive"`
	MaxContextSizeOverride int  `yaml:"max_context_size_override"`
	FallbackToOriginal     bool `yaml:"fallback_to_original"`
}

// BotConfig identifies the bot's own accounts. Identities are
// "platform:user_id" pairs; Nickname is only used for rendering the bot's
// own turns, never for matching.
type BotConfig struct {
	Nickname   string   `yaml:"nickname"`
	Identities []string `yaml:"identities"`
}

// TemplateConfig pins the host prompt-template contract version.
type TemplateConfig struct {
	Version int `yaml:"version"`
}

// ServerConfig controls the local HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig locates the decision audit database. An empty path selects
// the per-user default.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Plugin: PluginConfig{Enabled: true},
		Runtime: RuntimeConfig{
			ApplyGroup:         true,
			ApplyPrivate:       true,
			ApplyRewrite:       true,
			MergeConsecutive:   true,
			FallbackToOriginal: true,
		},
		Template: TemplateConfig{Version: 1},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 37901,
		},
	}
}

// DefaultPath returns ~/.promptguard/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".promptguard", "config.yaml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error: defaults apply. File values are
// merged over defaults, so a partial file only overrides what it names.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks the service-level values. Guard-domain values (template
// version, bot identities, history override) are validated where they are
// consumed, when the guard controller is built.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
