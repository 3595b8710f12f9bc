// Package cli implements the pidash command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pidash/internal/adapters/driving/cli/styles"
	"github.com/custodia-labs/pidash/internal/core/ports/driving"
	"github.com/custodia-labs/pidash/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// ImportFunc copies the workbook at path into the local warehouse and
// returns one line per imported sheet.
type ImportFunc func(ctx context.Context, path string) ([]string, error)

// WatchFunc watches the data files and invalidates cached snapshots until
// the context is cancelled.
type WatchFunc func(ctx context.Context) error

// Services are the dependencies the commands drive.
type Services struct {
	Dashboard driving.DashboardService
	Assistant driving.AssistantService
	Records   driving.RecordService
	Settings  driving.SettingsService

	// QuickPrompts are the suggested questions for ask --quick.
	QuickPrompts []string

	// Import and Watch are optional.
	Import ImportFunc
	Watch  WatchFunc
}

var (
	dashboardService driving.DashboardService
	assistantService driving.AssistantService
	recordService    driving.RecordService
	settingsService  driving.SettingsService
	quickPrompts     []string
	importWorkbook   ImportFunc
	watchFiles       WatchFunc
)

var (
	verbose bool
	theme   = styles.DefaultStyles()
)

var rootCmd = &cobra.Command{
	Use:   "pidash",
	Short: "Project and invoice dashboards with an AI assistant",
	Long: `pidash reports on project and invoice tables kept in a workbook,
Google Sheets or a local SQLite warehouse, and answers questions about them
with a language model using the most relevant rows as context.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	dashboardService = s.Dashboard
	assistantService = s.Assistant
	recordService = s.Records
	settingsService = s.Settings
	quickPrompts = s.QuickPrompts
	importWorkbook = s.Import
	watchFiles = s.Watch
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
