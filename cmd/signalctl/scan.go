package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"interview-engine/internal/app"
	"interview-engine/internal/poll"
)

func (c *cli) scanCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch mail once, store interview signals and push calendar events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			if err := env.Lock(); err != nil {
				if errors.Is(err, app.ErrLocked) {
					return fmt.Errorf("%w: POST /scan/run on the running engine instead", err)
				}
				return err
			}
			rep, err := env.Poller(cmd.Context()).Run(cmd.Context(), poll.ScanOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify only; no storage or calendar")
	return cmd
}
