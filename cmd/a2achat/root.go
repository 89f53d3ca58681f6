package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kagenti/a2aclient"
	"github.com/kagenti/a2aclient/config"
)

type rootOptions struct {
	agentURL   string
	token      string
	configPath string
	timeout    time.Duration
	logLevel   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "a2achat",
		Short: "Talk to an A2A agent over JSON-RPC",
		Long: `a2achat sends messages to an A2A agent and keeps the conversation
history for the lifetime of the command.

Settings are resolved from defaults, the optional --config YAML file,
A2A_* environment variables and finally the flags below.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.agentURL, "agent-url", "", "Agent base URL (overrides config and A2A_AGENT_URL)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "Bearer token sent to the agent")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout, e.g. 10s")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Client log level written to stderr")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Shorthand for --log-level debug")

	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(newHealthCmd(opts), newSendCmd(opts), newChatCmd(opts))

	return cmd
}

// newClient resolves the configuration, applies the flags on top and builds a
// client from it. Validation happens once, after the flags are merged.
func (o *rootOptions) newClient() (*a2aclient.Client, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return nil, err
	}

	cfg.Merge(&config.Config{
		AgentURL:  o.agentURL,
		AuthToken: o.token,
		Timeout:   o.timeout,
	})

	cfg.LogLevel = o.logLevel
	if o.verbose {
		cfg.LogLevel = "debug"
	}

	return a2aclient.NewFromConfig(cfg)
}
