package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagenti/a2aclient/a2a"
	"github.com/kagenti/a2aclient/internal/testutil"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestHealth(t *testing.T) {
	srv := testutil.NewAgentServer(t, nil)

	out, err := run(t, "", "health", "--agent-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Agent is healthy")

	srv.SetHealthStatus(http.StatusServiceUnavailable)
	out, err = run(t, "", "health", "--agent-url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, out, "Agent is not responding")
}

func TestSend(t *testing.T) {
	srv := testutil.NewAgentServer(t, testutil.Echo)

	out, err := run(t, "", "send", "--agent-url", srv.URL, "--token", "tok", "--session", "cli", "hello", "there")
	require.NoError(t, err)
	assert.Contains(t, out, "echo: hello there")
	assert.Contains(t, out, "session cli")

	rec, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Bearer tok", rec.Header.Get("Authorization"))
}

func TestSend_JSON(t *testing.T) {
	srv := testutil.NewAgentServer(t, testutil.Echo)

	out, err := run(t, "", "send", "--agent-url", srv.URL, "--json", "hi")
	require.NoError(t, err)

	var resp a2a.TaskResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "echo: hi", resp.Output)
	assert.Equal(t, a2a.TaskStatusCompleted, resp.Status)
}

func TestSend_FlagOverridesInvalidConfigFile(t *testing.T) {
	srv := testutil.NewAgentServer(t, testutil.Echo)

	path := filepath.Join(t.TempDir(), "a2a.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent_url: ftp://bad\n"), 0o600))

	out, err := run(t, "", "send", "--config", path, "--agent-url", srv.URL, "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "echo: hi")

	_, err = run(t, "", "send", "--config", path, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp://bad")
}

func TestSend_Failure(t *testing.T) {
	srv := testutil.NewAgentServer(t, func(w http.ResponseWriter, req *jsonrpc2.Request) {
		testutil.ReplyError(w, req.ID, -32000, "agent busy")
	})

	_, err := run(t, "", "send", "--agent-url", srv.URL, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent busy")
}

func TestSend_RequiresMessage(t *testing.T) {
	_, err := run(t, "", "send")
	assert.Error(t, err)
}

func TestChat(t *testing.T) {
	srv := testutil.NewAgentServer(t, testutil.Echo)

	out, err := run(t, "first\n\n/history\nsecond\n/exit\nignored\n", "chat", "--agent-url", srv.URL, "--session", "repl")
	require.NoError(t, err)

	assert.Contains(t, out, "session repl")
	assert.Contains(t, out, "echo: first")
	assert.Contains(t, out, "echo: second")
	assert.Contains(t, out, "Conversation history (1 turns)")
	assert.Contains(t, out, "Conversation history (2 turns)")
	assert.NotContains(t, out, "ignored")
	assert.Len(t, srv.Requests(), 2)
}

func TestChat_RecordsFailures(t *testing.T) {
	srv := testutil.NewAgentServer(t, func(w http.ResponseWriter, _ *jsonrpc2.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	out, err := run(t, "hello\n", "chat", "--agent-url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "connection error: http error 502")
	assert.Contains(t, out, "Error: http error 502")
}
