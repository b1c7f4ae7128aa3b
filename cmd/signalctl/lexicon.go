package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"interview-engine/internal/app"
	"interview-engine/internal/lexicon"
)

func (c *cli) lexiconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect the keyword tables",
	}

	var effective bool
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the built-in tables, or the effective ones with --effective",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !effective {
				_, err := cmd.OutOrStdout().Write(lexicon.DefaultYAML())
				return err
			}
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			lx, err := app.BuildLexicon(cmd.Context(), env.DB, env.DataDir, env.Config())
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(lx.Spec())
		},
	}
	dump.Flags().BoolVar(&effective, "effective", false, "include the lexicon file, companies file and learned domains")

	cmd.AddCommand(dump)
	return cmd
}
