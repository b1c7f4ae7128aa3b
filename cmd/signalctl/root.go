package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"interview-engine/internal/app"
)

type cli struct {
	dataDir string
	env     *app.Env
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "signalctl",
		Short:         "Find interview invitations in mail",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.env == nil {
				return nil
			}
			return c.env.Close()
		},
	}
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "data directory (default $"+app.EnvDataDir+" or .)")

	root.AddCommand(
		c.classifyCmd(),
		c.scanCmd(),
		c.exportCmd(),
		c.researchCmd(),
		c.lexiconCmd(),
		c.companiesCmd(),
		c.authCmd(),
	)
	return root
}

// open bootstraps the data dir once per invocation.
func (c *cli) open(cmd *cobra.Command) (*app.Env, error) {
	if c.env != nil {
		return c.env, nil
	}
	dir := c.dataDir
	if dir == "" {
		dir = app.DataDir()
	}
	env, err := app.Open(cmd.Context(), dir)
	if err != nil {
		return nil, err
	}
	c.env = env
	return env, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
