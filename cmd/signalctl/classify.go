package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"interview-engine/internal/domain"
	"interview-engine/internal/inbox"
)

func (c *cli) classifyCmd() *cobra.Command {
	var (
		e       domain.Email
		emlPath string
		nowStr  string
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one email and print the trace",
		Example: `  signalctl classify --subject "Interview invitation" --from jane@acme.io --body "Mon, Feb 10 at 3:00 PM"
  signalctl classify --eml message.eml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if emlPath != "" {
				raw, err := os.ReadFile(emlPath)
				if err != nil {
					return err
				}
				e = inbox.ParseMessage(raw)
			}
			if e.Subject == "" && e.Body == "" {
				return errors.New("need --subject/--body or --eml")
			}

			now := time.Now()
			if nowStr != "" {
				t, err := time.Parse(time.RFC3339, nowStr)
				if err != nil {
					return err
				}
				now = t
			}

			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env.Classifier().Trace(e, now))
		},
	}
	f := cmd.Flags()
	f.StringVar(&e.Subject, "subject", "", "subject line")
	f.StringVar(&e.From, "from", "", "sender")
	f.StringVar(&e.Body, "body", "", "body text")
	f.StringVar(&e.MessageID, "id", "", "message id")
	f.StringVar(&emlPath, "eml", "", "read an RFC 5322 message instead of flags")
	f.StringVar(&nowStr, "now", "", "reference time, RFC3339")
	return cmd
}
