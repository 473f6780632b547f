package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stavsoft/boqflow/internal/cli"
	"github.com/stavsoft/boqflow/internal/exporter"
	"github.com/stavsoft/boqflow/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output.xlsx>",
		Short: "Export classified items to a workbook",
		Long: `Write a project's items and a per-category cost summary to an XLSX
workbook, in the original sheet order.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("project", "p", "", "project to export (required)")
	cmd.Flags().StringP("category", "c", "", "limit export to one category")
	_ = cmd.MarkFlagRequired("project")

	_ = viper.BindPFlag("export.project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("export.category", cmd.Flags().Lookup("category"))

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	outPath := args[0]
	project := viper.GetString("export.project")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	items, err := store.GetItems(ctx, service.ItemFilter{
		Project:  project,
		Category: viper.GetString("export.category"),
	})
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("project %q has no matching items", project)
	}

	if err := exporter.WriteWorkbook(outPath, items); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported %d items to %s", len(items), outPath)))
	return nil
}
