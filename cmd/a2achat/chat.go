package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kagenti/a2aclient"
	"github.com/kagenti/a2aclient/core"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation. Every line is sent as one message
within the same session. Type /history to print the turns so far and
/exit (or end the input) to quit; the history is printed on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			sess, err := client.CreateSession(sessionID, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Chatting with %s (session %s)", client.AgentURL(), sess.ID)))

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, userStyle.Render("you> "))
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}

				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "/exit", "/quit":
					return printHistory(out, client, sess.ID)
				case "/history":
					if err := printHistory(out, client, sess.ID); err != nil {
						return err
					}
					continue
				}

				resp, err := client.SendMessage(cmd.Context(), line, a2aclient.WithSessionID(sess.ID))
				if err != nil {
					var cerr *a2aclient.ClientError
					if !errors.As(err, &cerr) {
						return err
					}
					fmt.Fprintln(out, errorStyle.Render("error:"), cerr.Error())
					continue
				}

				fmt.Fprintln(out, agentStyle.Render("agent>"), resp.Output)
			}

			if err := scanner.Err(); err != nil {
				return err
			}

			return printHistory(out, client, sess.ID)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to use (generated when empty)")

	return cmd
}

func printHistory(out io.Writer, client *a2aclient.Client, sessionID string) error {
	turns, err := client.History(sessionID, 0)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Conversation history (%d turns)", len(turns))))

	for i, turn := range turns {
		fmt.Fprintf(out, "  Turn %d:\n", i+1)
		fmt.Fprintf(out, "    User:  %s\n", turn.InputText)

		switch turn.Status() {
		case core.TurnCompleted:
			text, _ := turn.OutputText()
			fmt.Fprintf(out, "    Agent: %s\n", text)
		case core.TurnFailed:
			text, _ := turn.ErrorText()
			fmt.Fprintf(out, "    Error: %s\n", text)
		default:
			fmt.Fprintln(out, mutedStyle.Render("    (pending)"))
		}
	}

	return nil
}
