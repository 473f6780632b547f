package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stavsoft/boqflow/internal/cli"
	"github.com/stavsoft/boqflow/internal/engine"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the work-group rule table",
	}

	cmd.AddCommand(categoriesListCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and their keyword rules",
		RunE: func(_ *cobra.Command, _ []string) error {
			rules := engine.DefaultRules()

			for _, r := range rules {
				header := cli.BoldStyle.Render(r.Category)
				if r.Name != "" {
					header += cli.SubtleStyle.Render("  " + r.Name)
				}
				fmt.Fprintln(os.Stdout, header)
				fmt.Fprintf(os.Stdout, "  include: %s\n", strings.Join(r.Include, ", "))
				if len(r.Exclude) > 0 {
					fmt.Fprintf(os.Stdout, "  exclude: %s\n", strings.Join(r.Exclude, ", "))
				}
				if len(r.UnitBoost) > 0 {
					fmt.Fprintf(os.Stdout, "  units:   %s\n", strings.Join(r.UnitBoost, ", "))
				}
				if len(r.PriorityOver) > 0 {
					fmt.Fprintf(os.Stdout, "  outranks: %s\n", strings.Join(r.PriorityOver, ", "))
				}
			}

			return nil
		},
	}
}
