package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stavsoft/boqflow/internal/cli"
	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
)

func overridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage learned code overrides",
		Long: `View, record, and delete code to category overrides. Overrides are the
engine's memory: once a code is mapped, every future item with that code
gets the mapped category before any rule runs.`,
	}

	cmd.AddCommand(overridesListCmd())
	cmd.AddCommand(overridesRecordCmd())
	cmd.AddCommand(overridesDeleteCmd())
	cmd.AddCommand(overridesClearCmd())

	return cmd
}

func overridesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetAllOverrides(ctx)
			if err != nil {
				return fmt.Errorf("failed to list overrides: %w", err)
			}

			if len(entries) == 0 {
				slog.Info("No overrides recorded yet")
				return nil
			}

			fmt.Fprintln(os.Stdout, cli.TableHeaderStyle.Render(fmt.Sprintf("%-15s %-25s %-8s %s", "Code", "Category", "Used", "Updated")))
			for _, e := range entries {
				fmt.Fprintf(os.Stdout, "%-15s %-25s %-8d %s\n",
					e.Code, e.Category, e.UseCount, e.LastUpdated.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func overridesRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <code> <category>",
		Short: "Record an override",
		Long: `Map an item code to a category. The mapping is only stored after an
explicit confirmation; --yes gives that confirmation up front for
scripted use.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code, category := args[0], args[1]
			assumeYes, _ := cmd.Flags().GetBool("yes")

			if normalize.Code(code) == "" {
				return fmt.Errorf("code must not be empty")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !assumeYes {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, promptErr := prompter.ConfirmOverride(ctx, code, category)
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					slog.Info("Override not recorded")
					return nil
				}
			}

			entry := &model.OverrideEntry{Code: code, Category: category}
			if err := store.SaveOverride(ctx, entry); err != nil {
				return fmt.Errorf("failed to save override: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Recorded override %s → %s", entry.Code, category)))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "record without interactive confirmation")

	return cmd
}

func overridesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete an override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteOverride(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete override: %w", err)
			}

			slog.Info(cli.FormatSuccess("Override deleted"), "code", args[0])
			return nil
		},
	}
}

func overridesClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := store.CountOverrides(ctx)
			if err != nil {
				return err
			}
			if count == 0 {
				slog.Info("No overrides to clear")
				return nil
			}

			prompter := cli.NewPrompter(os.Stdin, os.Stdout)
			ok, err := prompter.ConfirmDestructive(ctx, fmt.Sprintf("Clearing %d overrides", count))
			if err != nil {
				return err
			}
			if !ok {
				slog.Info("Aborted")
				return nil
			}

			if err := store.ClearOverrides(ctx); err != nil {
				return fmt.Errorf("failed to clear overrides: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Cleared %d overrides", count)))
			return nil
		},
	}
}
