package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func (c *cli) researchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Interview preparation lookups",
	}

	var (
		company, role string
		limit         int
		fetch         bool
	)
	questions := &cobra.Command{
		Use:   "questions",
		Short: "List past interview questions for a company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if company == "" {
				return errors.New("--company is required")
			}
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = env.Config().Research.MaxQuestions
			}
			bank, err := env.Research()
			if err != nil {
				return err
			}
			got, err := bank.Past(cmd.Context(), company, role, limit, fetch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), got)
		},
	}
	f := questions.Flags()
	f.StringVar(&company, "company", "", "company name")
	f.StringVar(&role, "role", "", "role, e.g. backend engineer")
	f.IntVar(&limit, "limit", 0, "max questions (default research.max_questions)")
	f.BoolVar(&fetch, "fetch", false, "search the web when nothing is stored")

	cmd.AddCommand(questions)
	return cmd
}
