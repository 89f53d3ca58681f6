package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a2a.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAgentURL, cfg.AgentURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.SessionTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
agent_url: https://agent.example.com
auth_token: tok
timeout: 5s
session_timeout: 15m
headers:
  X-Tenant: acme
log_level: debug
log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://agent.example.com", cfg.AgentURL)
	assert.Equal(t, "tok", cfg.AuthToken)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, map[string]string{"X-Tenant": "acme"}, cfg.Headers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "agent_url: http://other:9000\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://other:9000", cfg.AgentURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("A2A_AGENT_URL", "http://from-env:1234")
	t.Setenv("A2A_TIMEOUT", "2s")

	cfg, err := Load(writeFile(t, "agent_url: http://from-file\ntimeout: 9s\nauth_token: file-token\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:1234", cfg.AgentURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "file-token", cfg.AuthToken)
}

func TestLoad_NoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAgentURL, cfg.AgentURL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "agent_url: [unterminated\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "agent_url: ftp://nope\n"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("A2A_AUTH_TOKEN", "env-token")
	t.Setenv("A2A_SESSION_TIMEOUT", "90m")
	t.Setenv("A2A_LOG_LEVEL", "warn")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.AuthToken)
	assert.Equal(t, 90*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultAgentURL, cfg.AgentURL)
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("A2A_TIMEOUT", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoad_InvalidEnvDuration(t *testing.T) {
	t.Setenv("A2A_TIMEOUT", "soon")
	t.Setenv("A2A_SESSION_TIMEOUT", "-")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode environment")

	_, err = Read("")
	assert.Error(t, err)
}

func TestRead_DoesNotValidate(t *testing.T) {
	path := writeFile(t, "agent_url: ftp://nope\ntimeout: 5s\n")

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "ftp://nope", cfg.AgentURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Error(t, cfg.Validate())

	cfg.Merge(&Config{AgentURL: "https://agent.example"})
	assert.NoError(t, cfg.Validate())

	_, err = Load(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := Default()
	cfg.Headers["A"] = "1"

	cfg.Merge(&Config{AuthToken: "t", Headers: map[string]string{"B": "2", "A": "3"}})
	cfg.Merge(nil)

	assert.Equal(t, "t", cfg.AuthToken)
	assert.Equal(t, DefaultAgentURL, cfg.AgentURL)
	assert.Equal(t, map[string]string{"A": "3", "B": "2"}, cfg.Headers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty url", func(c *Config) { c.AgentURL = "" }},
		{"bad scheme", func(c *Config) { c.AgentURL = "ws://agent" }},
		{"no host", func(c *Config) { c.AgentURL = "http://" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative session timeout", func(c *Config) { c.SessionTimeout = -time.Minute }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
