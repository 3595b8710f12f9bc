package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [workbook]",
	Short: "Copy a workbook into the local warehouse",
	Long: `Copy every sheet of an .xlsx workbook into the local SQLite warehouse,
replacing the tables imported before. Each sheet becomes a FINAL_<SHEET>
table read by the sqlite source.

Without an argument the configured workbook is imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importWorkbook == nil {
		return errors.New("import not configured")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		path = settings.Source.WorkbookPath
	}
	if path == "" {
		return errors.New("no workbook given and none configured")
	}

	lines, err := importWorkbook(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if len(lines) == 0 {
		cmd.Printf("No sheets with data in %s.\n", path)
		return nil
	}

	cmd.Printf("Imported %s:\n", path)
	for _, l := range lines {
		cmd.Printf("  %s\n", l)
	}
	return nil
}
