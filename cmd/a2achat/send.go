package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/kagenti/a2aclient"
)

func newSendCmd(opts *rootOptions) *cobra.Command {
	var (
		sessionID  string
		outputMode string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send a single message and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.SendMessage(cmd.Context(), strings.Join(args, " "),
				a2aclient.WithSessionID(sessionID),
				a2aclient.WithOutputMode(outputMode),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if asJSON {
				data, err := json.Marshal(resp)
				if err != nil {
					return err
				}
				_, err = out.Write(pretty.Pretty(data))
				return err
			}

			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("session %s, task %s (%s)", resp.SessionID, resp.TaskID, resp.Status)))
			fmt.Fprintln(out, resp.Output)

			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to use (generated when empty)")
	cmd.Flags().StringVar(&outputMode, "output-mode", "text", "Requested output mode")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full task response as JSON")

	return cmd
}
