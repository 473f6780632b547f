package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stavsoft/boqflow/internal/cli"
	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/service"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify imported work items",
		Long: `Assign structural roles and work-group categories to imported items.

By default only items without a category are classified, so repeated runs
never disturb reviewed results. Use --all to reclassify everything.

Examples:
  boqflow classify --project most       # Classify uncategorized items
  boqflow classify --project most --all # Reclassify the whole project
  boqflow classify --project most --ai  # Consult the AI fallback for misses`,
		RunE: runClassify,
	}

	cmd.Flags().StringP("project", "p", "", "project to classify (required)")
	cmd.Flags().StringP("sheet", "s", "", "limit classification to one sheet")
	cmd.Flags().Bool("all", false, "reclassify already categorized items too")
	cmd.Flags().Bool("ai", false, "consult the AI fallback when rules score nothing")
	cmd.Flags().Bool("dry-run", false, "preview without saving changes")
	_ = cmd.MarkFlagRequired("project")

	_ = viper.BindPFlag("classification.project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("classification.sheet", cmd.Flags().Lookup("sheet"))
	_ = viper.BindPFlag("classification.all", cmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("classification.ai", cmd.Flags().Lookup("ai"))
	_ = viper.BindPFlag("classification.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	project := viper.GetString("classification.project")
	dryRun := viper.GetBool("classification.dry_run")

	mode := model.ModeEmptyOnly
	if viper.GetBool("classification.all") {
		mode = model.ModeReclassifyAll
	}

	slog.Info(cli.FormatTitle("Classifying work items"), "project", project, "mode", string(mode))

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, err := newEngine(store, viper.GetBool("classification.ai"))
	if err != nil {
		return err
	}

	// Keep per-item override lookups off the database during the batch.
	if err := store.WarmOverrideCache(ctx); err != nil {
		slog.Warn("Failed to warm override cache", "error", err)
	}

	items, err := store.GetItems(ctx, service.ItemFilter{
		Project: project,
		Sheet:   viper.GetString("classification.sheet"),
	})
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("project %q has no items, run boqflow import first", project)
	}

	summary, err := eng.ClassifyBatch(ctx, items, mode)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("Classification interrupted")
			return nil
		}
		return fmt.Errorf("classification failed: %w", err)
	}

	if dryRun {
		slog.Info(cli.FormatWarning("Dry run mode - not saving results"))
		return cli.RenderSummary(os.Stdout, summary)
	}

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription("Saving results"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for i := range items {
		if err := store.UpdateItemClassification(ctx, &items[i]); err != nil {
			return fmt.Errorf("failed to save item %s: %w", items[i].ID, err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return cli.RenderSummary(os.Stdout, summary)
}
