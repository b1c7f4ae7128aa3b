package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"interview-engine/internal/export"
	"interview-engine/internal/store"
)

func (c *cli) exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export applications (csv) or applications and signals (xlsx)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("format must be csv or xlsx, got %q", format)
			}
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			apps, err := store.ListApplications(ctx, env.DB.Pool)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "csv" {
				return export.WriteCSV(w, apps)
			}
			sigs, err := store.ListSignals(ctx, env.DB.Pool, store.ListSignalsOpts{Limit: 2000})
			if err != nil {
				return err
			}
			return export.WriteXLSX(w, apps, sigs)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
