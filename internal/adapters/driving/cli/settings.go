package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

var sourceFlags struct {
	backend       string
	workbook      string
	spreadsheetID string
	credentials   string
	projectSheet  string
	invoiceSheet  string
}

var knowledgeClear bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the data source, the language model provider and the
domain-knowledge document.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsSourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Configure the data source",
	Long: `Configure where the project and invoice tables are read from.

Available backends:
  sqlite   - Local warehouse tables (fill with 'pidash import')
  excel    - A local .xlsx workbook
  gsheets  - A Google spreadsheet, falling back to the workbook when offline
  memory   - Built-in demo data

Without --backend the backend is chosen interactively.`,
	RunE: runSettingsSource,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the language model provider used by 'pidash ask'.`,
	RunE:  runSettingsLLM,
}

var settingsKnowledgeCmd = &cobra.Command{
	Use:   "knowledge [path]",
	Short: "Set the domain-knowledge document",
	Long: `Set the PDF or text document whose chunks can be added to the assistant's
context with 'pidash ask --knowledge'. PDFs need pdftotext on the PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsKnowledge,
}

func init() {
	sf := settingsSourceCmd.Flags()
	sf.StringVar(&sourceFlags.backend, "backend", "", "sqlite, excel, gsheets or memory")
	sf.StringVar(&sourceFlags.workbook, "workbook", "", "path to the .xlsx workbook")
	sf.StringVar(&sourceFlags.spreadsheetID, "spreadsheet-id", "", "Google spreadsheet ID")
	sf.StringVar(&sourceFlags.credentials, "credentials", "", "service account JSON key for Google Sheets")
	sf.StringVar(&sourceFlags.projectSheet, "project-sheet", "", "project sheet or table name")
	sf.StringVar(&sourceFlags.invoiceSheet, "invoice-sheet", "", "invoice sheet or table name")

	settingsKnowledgeCmd.Flags().BoolVar(&knowledgeClear, "clear", false, "stop using a knowledge document")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsSourceCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsKnowledgeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(theme.Title.Render("Current Settings"))
	cmd.Println()

	cmd.Println(theme.Subtitle.Render("[Source]"))
	cmd.Printf("  Backend: %s\n", settings.Source.Backend.Description())
	cmd.Printf("  Workbook: %s\n", orNotSet(settings.Source.WorkbookPath))
	if settings.Source.Backend == domain.SourceBackendSheets {
		cmd.Printf("  Spreadsheet: %s\n", orNotSet(settings.Source.SpreadsheetID))
		cmd.Printf("  Credentials: %s\n", orNotSet(settings.Source.CredentialsPath))
	}
	cmd.Printf("  Sheets: %s, %s\n", settings.Source.ProjectSheet, settings.Source.InvoiceSheet)
	cmd.Println()

	cmd.Println(theme.Subtitle.Render("[LLM]"))
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", orNotSet(settings.LLM.Model))
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set, export %s)\n", settings.LLM.Provider.APIKeyEnv())
		}
	}
	if settings.LLM.Reasoning {
		cmd.Println("  Reasoning: enabled")
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println(theme.Subtitle.Render("[Knowledge]"))
	cmd.Printf("  Document: %s\n", orNotSet(settings.Knowledge.DocumentPath))
	cmd.Printf("  Chunk size: %d\n", settings.Knowledge.ChunkSize)
	cmd.Println()

	cmd.Println(theme.Subtitle.Render("[Cache]"))
	cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	cmd.Printf("  Persist: %t\n", settings.Cache.Persist)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(theme.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'pidash settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println(theme.Title.Render("pidash Settings Wizard"))
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Data Source")
	cmd.Println("-------------------")
	if err := configureSource(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: LLM Provider")
	cmd.Println("--------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 3: Knowledge Document")
	cmd.Println("--------------------------")
	cmd.Print("Path to a PDF or text file (empty to skip): ")
	if path := readLine(reader); path != "" {
		if err := settingsService.SetKnowledgeDocument(path); err != nil {
			return fmt.Errorf("failed to set knowledge document: %w", err)
		}
		cmd.Printf("Knowledge document set to: %s\n", path)
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsSource(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if sourceFlags.backend == "" {
		return configureSource(cmd, bufio.NewReader(cmd.InOrStdin()))
	}

	src := domain.SourceSettings{
		Backend:         domain.SourceBackend(strings.ToLower(sourceFlags.backend)),
		WorkbookPath:    sourceFlags.workbook,
		SpreadsheetID:   sourceFlags.spreadsheetID,
		CredentialsPath: sourceFlags.credentials,
		ProjectSheet:    sourceFlags.projectSheet,
		InvoiceSheet:    sourceFlags.invoiceSheet,
	}
	if err := settingsService.SetSource(src); err != nil {
		return fmt.Errorf("failed to configure source: %w", err)
	}
	cmd.Printf("Source set to: %s\n", src.Backend.Description())
	return nil
}

func configureSource(cmd *cobra.Command, reader *bufio.Reader) error {
	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Select Data Source")
	backends := domain.AllSourceBackends()
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)
	src := domain.SourceSettings{Backend: backends[idx-1]}

	if src.Backend != domain.SourceBackendMemory {
		cmd.Printf("Workbook path [%s]: ", current.Source.WorkbookPath)
		src.WorkbookPath = readLine(reader)
	}
	if src.Backend == domain.SourceBackendSheets {
		cmd.Print("Spreadsheet ID: ")
		src.SpreadsheetID = readLine(reader)
		cmd.Print("Service account key file (empty for default credentials): ")
		src.CredentialsPath = readLine(reader)
	}

	if err := settingsService.SetSource(src); err != nil {
		return fmt.Errorf("failed to configure source: %w", err)
	}
	cmd.Printf("Source set to: %s\n\n", src.Backend.Description())
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// An empty key falls back to the provider's environment variable.
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (empty to use $%s): ", selectedProvider.APIKeyEnv())
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func runSettingsKnowledge(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	path := ""
	switch {
	case knowledgeClear:
	case len(args) == 1:
		path = args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("knowledge document: %w", err)
		}
	default:
		return errors.New("a document path or --clear is required")
	}

	if err := settingsService.SetKnowledgeDocument(path); err != nil {
		return fmt.Errorf("failed to set knowledge document: %w", err)
	}
	if path == "" {
		cmd.Println("Knowledge document cleared.")
	} else {
		cmd.Printf("Knowledge document set to: %s\n", path)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when input is an interactive terminal and
// falls back to reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
