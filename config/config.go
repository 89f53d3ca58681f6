// Package config loads client settings from defaults, an optional YAML file
// and A2A_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/kagenti/a2aclient/transport"
)

// Defaults applied by Default.
const (
	DefaultAgentURL       = "http://localhost:8080"
	DefaultTimeout        = transport.DefaultTimeout
	DefaultSessionTimeout = 60 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config holds the settings needed to build a client.
type Config struct {
	// AgentURL is the base address of the agent. ENV: A2A_AGENT_URL
	AgentURL string `yaml:"agent_url" env:"A2A_AGENT_URL,strict"`
	// AuthToken is sent as a bearer token when set. ENV: A2A_AUTH_TOKEN
	AuthToken string `yaml:"auth_token" env:"A2A_AUTH_TOKEN,strict"`
	// Timeout bounds each HTTP round trip. ENV: A2A_TIMEOUT
	Timeout time.Duration `yaml:"timeout" env:"A2A_TIMEOUT,strict"`
	// SessionTimeout is the idle time after which sessions are swept.
	// ENV: A2A_SESSION_TIMEOUT
	SessionTimeout time.Duration `yaml:"session_timeout" env:"A2A_SESSION_TIMEOUT,strict"`
	// UserAgent overrides the default user agent. ENV: A2A_USER_AGENT
	UserAgent string `yaml:"user_agent" env:"A2A_USER_AGENT,strict"`
	// Headers are extra HTTP headers. File only.
	Headers map[string]string `yaml:"headers"`
	// LogLevel is one of debug, info, warn, error. ENV: A2A_LOG_LEVEL
	LogLevel string `yaml:"log_level" env:"A2A_LOG_LEVEL,strict"`
	// LogFormat is text or json. ENV: A2A_LOG_FORMAT
	LogFormat string `yaml:"log_format" env:"A2A_LOG_FORMAT,strict"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		AgentURL:       DefaultAgentURL,
		Timeout:        DefaultTimeout,
		SessionTimeout: DefaultSessionTimeout,
		UserAgent:      transport.DefaultUserAgent,
		Headers:        map[string]string{},
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// Load is Read followed by Validate.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment without validating it, so callers can
// layer further overrides first. Malformed environment values are errors.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}

		cfg.Merge(&file)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv builds a Config from defaults and the environment only.
func FromEnv() (*Config, error) {
	cfg := Default()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// Merge copies every non-zero field of src onto c. Headers are merged key by
// key with src winning.
func (c *Config) Merge(src *Config) {
	if src == nil {
		return
	}

	if src.AgentURL != "" {
		c.AgentURL = src.AgentURL
	}
	if src.AuthToken != "" {
		c.AuthToken = src.AuthToken
	}
	if src.Timeout != 0 {
		c.Timeout = src.Timeout
	}
	if src.SessionTimeout != 0 {
		c.SessionTimeout = src.SessionTimeout
	}
	if src.UserAgent != "" {
		c.UserAgent = src.UserAgent
	}
	if len(src.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(src.Headers))
		}
		maps.Copy(c.Headers, src.Headers)
	}
	if src.LogLevel != "" {
		c.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		c.LogFormat = src.LogFormat
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.AgentURL == "" {
		return errors.New("agent url is required")
	}

	u, err := url.Parse(c.AgentURL)
	if err != nil {
		return fmt.Errorf("invalid agent url %q: %w", c.AgentURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid agent url %q: scheme must be http or https", c.AgentURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid agent url %q: missing host", c.AgentURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("session timeout must be positive, got %s", c.SessionTimeout)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return nil
}
