package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the agent answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()

			if !client.HealthCheck(cmd.Context()) {
				fmt.Fprintln(out, errorStyle.Render("✗ Agent is not responding:"), client.AgentURL())
				return errors.New("agent unreachable")
			}

			fmt.Fprintln(out, successStyle.Render("✓ Agent is healthy:"), client.AgentURL())

			return nil
		},
	}
}
