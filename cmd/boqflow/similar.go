package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stavsoft/boqflow/internal/cli"
	"github.com/stavsoft/boqflow/internal/engine"
	"github.com/stavsoft/boqflow/internal/service"
)

func similarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <item-id>",
		Short: "Spread a category to similar items",
		Long: `Copy the category of one classified item to items with similar
descriptions within the same project. Similarity is text based; the
threshold is adjustable and at most ` + fmt.Sprint(engine.MaxSimilarResults) + ` items are changed per run.`,
		Args: cobra.ExactArgs(1),
		RunE: runSimilar,
	}

	cmd.Flags().Float64P("threshold", "t", engine.DefaultMinSimilarity, "minimum similarity (0-1)")
	cmd.Flags().Bool("dry-run", false, "show matches without saving")

	_ = viper.BindPFlag("similar.threshold", cmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("similar.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	itemID := args[0]
	threshold := viper.GetFloat64("similar.threshold")

	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %v", threshold)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	source, err := store.GetItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load source item: %w", err)
	}
	if source.Category == "" {
		return fmt.Errorf("item %s has no category to spread", itemID)
	}

	items, err := store.GetItems(ctx, service.ItemFilter{Project: source.Project})
	if err != nil {
		return fmt.Errorf("failed to load project items: %w", err)
	}

	changed := engine.ApplyCategoryToSimilar(source, items, threshold)
	if len(changed) == 0 {
		slog.Info("No similar uncategorized items found", "threshold", threshold)
		return nil
	}

	fmt.Fprintln(os.Stdout, cli.FormatTitle(fmt.Sprintf("Matched %d items for %q", len(changed), source.Category)))
	for _, idx := range changed {
		it := items[idx]
		fmt.Fprintf(os.Stdout, "  %s %s (%.0f%%)\n", cli.SubtleStyle.Render(it.Code), it.Description, it.Confidence)
	}

	if viper.GetBool("similar.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving changes"))
		return nil
	}

	for _, idx := range changed {
		if err := store.UpdateItemClassification(ctx, &items[idx]); err != nil {
			return fmt.Errorf("failed to save item %s: %w", items[idx].ID, err)
		}
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Applied %q to %d items", source.Category, len(changed))))
	return nil
}
