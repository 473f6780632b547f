package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stavsoft/boqflow/internal/cli"
	"github.com/stavsoft/boqflow/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Import a bill of quantities workbook",
		Long: `Import work items from an XLSX bill of quantities into the local database
for later classification. Header columns are detected automatically; rows
keep their worksheet positions so list structure survives the import.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("project", "p", "", "project name (defaults to the workbook file name)")
	cmd.Flags().StringP("sheet", "s", "", "sheet to import (defaults to the first sheet)")
	cmd.Flags().Bool("replace", false, "delete existing items of the project before importing")
	cmd.Flags().Bool("dry-run", false, "parse the workbook without saving")

	_ = viper.BindPFlag("import.project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("import.sheet", cmd.Flags().Lookup("sheet"))
	_ = viper.BindPFlag("import.replace", cmd.Flags().Lookup("replace"))
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	project := viper.GetString("import.project")
	if project == "" {
		project = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	slog.Info(cli.FormatTitle("Importing bill of quantities"))
	slog.Info("Reading workbook", "path", path, "project", project)

	items, err := importer.ReadWorkbook(path, project, viper.GetString("import.sheet"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Parsed %d items", len(items))))

	if viper.GetBool("import.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if viper.GetBool("import.replace") {
		if err := store.DeleteProjectItems(ctx, project); err != nil {
			return fmt.Errorf("failed to clear project: %w", err)
		}
		slog.Info("Cleared existing project items", "project", project)
	}

	if err := store.SaveItems(ctx, items); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d items into project %q", len(items), project)))
	slog.Info("Next step: boqflow classify --project " + project)

	return nil
}
