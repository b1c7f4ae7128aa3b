package main

import (
	"errors"

	"github.com/spf13/cobra"

	"interview-engine/internal/store"
)

func (c *cli) companiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Manage learned sender domain to company mappings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List learned mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			rules, err := store.ListCompanyDomains(cmd.Context(), env.DB.Pool)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rules)
		},
	}

	add := &cobra.Command{
		Use:   "add DOMAIN COMPANY",
		Short: "Map a sender domain to a company",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" || args[1] == "" {
				return errors.New("domain and company must not be empty")
			}
			env, err := c.open(cmd)
			if err != nil {
				return err
			}
			return store.UpsertCompanyDomain(cmd.Context(), env.DB.Pool, args[0], args[1])
		},
	}

	cmd.AddCommand(list, add)
	return cmd
}
