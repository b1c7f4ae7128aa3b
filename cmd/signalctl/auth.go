package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"interview-engine/internal/config"
	"interview-engine/internal/googleauth"
)

func (c *cli) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth {gmail|calendar}",
		Short: "Authorize Google access and cache the token",
		Long: `Prints a consent URL, reads the authorization code from stdin and
writes the token file named in config.yml. The engine never prompts; run this
once per account.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"gmail", "calendar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			cfg := env.Config()

			var cred, token, scope string
			switch args[0] {
			case "gmail":
				cred, token, scope = cfg.Email.Gmail.CredentialsFile, cfg.Email.Gmail.TokenFile, gmail.GmailReadonlyScope
			case "calendar":
				cred, token, scope = cfg.Calendar.CredentialsFile, cfg.Calendar.TokenFile, gcal.CalendarEventsScope
			default:
				return fmt.Errorf("unknown service %q", args[0])
			}
			cred, token = config.Resolve(env.DataDir, cred), config.Resolve(env.DataDir, token)

			oc, err := googleauth.Config(cred, scope)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Open this URL, approve access, then paste the code:\n%s\n> ", googleauth.AuthURL(oc))

			code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && strings.TrimSpace(code) == "" {
				return fmt.Errorf("read code: %w", err)
			}
			if err := googleauth.Exchange(cmd.Context(), oc, strings.TrimSpace(code), token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token saved to %s\n", token)
			return nil
		},
	}
	return cmd
}
