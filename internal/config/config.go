// Package config loads the docview configuration from YAML, with .env
// support and environment-variable expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// ContentBase is prefixed to relative document source identifiers.
	ContentBase string `yaml:"content_base"`
	// ImageBase is prefixed to relative image paths during transformation.
	ImageBase string `yaml:"image_base"`
	// DefaultContainer is the container identifier used when a page does
	// not name one.
	DefaultContainer string `yaml:"default_container"`
	// AutoNav controls whether navigation is generated after each render.
	AutoNav *bool `yaml:"auto_nav,omitempty"`
	// NavTarget is the identifier of the navigation target region; a page
	// without it skips navigation silently.
	NavTarget string `yaml:"nav_target"`
	// HeaderClearance is the scroll offset below the viewport top used for
	// active-section tracking.
	HeaderClearance float64 `yaml:"header_clearance"`

	Server ServerConfig `yaml:"server"`
	Retry  RetryConfig  `yaml:"retry"`
	Local  LocalConfig  `yaml:"local"`
}

// ServerConfig configures the viewer HTTP server.
type ServerConfig struct {
	Listen string `yaml:"listen"`
	Title  string `yaml:"title,omitempty"`
}

// RetryConfig configures the bounded retrieval retry schedule.
type RetryConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// LocalConfig configures the local-file context.
type LocalConfig struct {
	// Enabled switches retrieval to the local filesystem.
	Enabled bool `yaml:"enabled"`
	// Dir is the content directory for local mode.
	Dir string `yaml:"dir,omitempty"`
	// Watch re-renders containers when local content files change.
	Watch bool `yaml:"watch"`
}

// Defaults applied when fields are omitted.
const (
	DefaultContentBase      = "../content/"
	DefaultImageBase        = "../assets/"
	DefaultContainerID      = "markdown-content"
	DefaultNavTarget        = "sidebar-nav"
	DefaultListen           = ":8080"
	DefaultHeaderClearance  = 100
	DefaultRetryInterval    = 2 * time.Second
	DefaultRetryMaxAttempts = 3
)

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env if present; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.ContentBase == "" {
		c.ContentBase = DefaultContentBase
	}
	if c.ImageBase == "" {
		c.ImageBase = DefaultImageBase
	}
	if c.DefaultContainer == "" {
		c.DefaultContainer = DefaultContainerID
	}
	if c.AutoNav == nil {
		autoNav := true
		c.AutoNav = &autoNav
	}
	if c.NavTarget == "" {
		c.NavTarget = DefaultNavTarget
	}
	if c.HeaderClearance <= 0 {
		c.HeaderClearance = DefaultHeaderClearance
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.Title == "" {
		c.Server.Title = "docview"
	}
	if c.Retry.Interval <= 0 {
		c.Retry.Interval = DefaultRetryInterval
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = DefaultRetryMaxAttempts
	}
	if c.Local.Enabled && c.Local.Dir == "" {
		c.Local.Dir = "./content"
	}
}

// NavEnabled reports whether navigation generation is on.
func (c *Config) NavEnabled() bool {
	return c.AutoNav == nil || *c.AutoNav
}

const starterConfig = `# docview configuration
content_base: ../content/
image_base: ../assets/
default_container: markdown-content
auto_nav: true
nav_target: sidebar-nav
header_clearance: 100

server:
  listen: ":8080"
  title: docview

retry:
  interval: 2s
  max_attempts: 3

local:
  enabled: false
  dir: ./content
  watch: false
`

// Init writes a starter configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
