package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

var (
	askDomain      string
	askTopK        int
	askKnowledge   bool
	askWorkflow    bool
	askQuick       int
	askShowContext bool
	askContextOnly bool
	historyLimit   int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about projects and invoices",
	Long: `Ranks the project and invoice rows against the question, sends the best
matches to the language model as context and streams the answer.

Quote the question or pass --quick N to use one of the suggested questions
listed by 'pidash ask prompts'.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

var askHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently answered questions",
	Args:  cobra.NoArgs,
	RunE:  runAskHistory,
}

var askPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List suggested questions",
	Args:  cobra.NoArgs,
	Run:   runAskPrompts,
}

func init() {
	f := askCmd.Flags()
	f.StringVarP(&askDomain, "domain", "d", string(domain.CorpusDomainBoth), "records to search: project, invoice or both")
	f.IntVarP(&askTopK, "top-k", "k", domain.DefaultTopK, "number of context snippets")
	f.BoolVar(&askKnowledge, "knowledge", false, "include the domain-knowledge document")
	f.BoolVar(&askWorkflow, "workflow", true, "include the project workflow description (--workflow=false to leave it out)")
	f.IntVarP(&askQuick, "quick", "q", 0, "use suggested question N")
	f.BoolVar(&askShowContext, "show-context", false, "print the context sent to the model")
	f.BoolVar(&askContextOnly, "context-only", false, "print the ranked context without calling the model")

	askHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")

	askCmd.AddCommand(askHistoryCmd)
	askCmd.AddCommand(askPromptsCmd)
	rootCmd.AddCommand(askCmd)
}

func prompts() []string {
	if len(quickPrompts) > 0 {
		return quickPrompts
	}
	return domain.QuickPrompts
}

func buildAskRequest(args []string) (domain.AskRequest, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if askQuick > 0 {
		list := prompts()
		if askQuick > len(list) {
			return domain.AskRequest{}, fmt.Errorf("--quick must be between 1 and %d", len(list))
		}
		question = list[askQuick-1]
	}
	if question == "" {
		return domain.AskRequest{}, errors.New("a question or --quick is required")
	}

	d := domain.CorpusDomain(strings.ToLower(askDomain))
	if !d.IsValid() {
		return domain.AskRequest{}, fmt.Errorf("invalid --domain %q: want project, invoice or both", askDomain)
	}

	return domain.AskRequest{
		Question:         question,
		Domain:           d,
		TopK:             askTopK,
		IncludeKnowledge: askKnowledge,
		IncludeWorkflow:  askWorkflow,
	}, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	req, err := buildAskRequest(args)
	if err != nil {
		return err
	}

	if askContextOnly {
		docs, err := assistantService.Retrieve(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("retrieve failed: %w", err)
		}
		printContext(cmd, docs)
		return nil
	}

	result, err := assistantService.Ask(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return fmt.Errorf("ask failed: %w. Run 'pidash settings llm' to configure a provider", err)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askQuick > 0 {
		cmd.Println(theme.Subtitle.Render(req.Question))
	}
	if askShowContext {
		printContext(cmd, result.Context)
	}

	for frag, err := range result.Stream {
		if err != nil {
			cmd.Println()
			return fmt.Errorf("answer interrupted: %w", err)
		}
		cmd.Print(frag)
	}
	cmd.Println()
	cmd.Println(theme.Muted.Render(fmt.Sprintf("(%s, %d context snippets)", result.Model, len(result.Context))))
	return nil
}

func printContext(cmd *cobra.Command, docs []domain.CorpusDocument) {
	if len(docs) == 0 {
		cmd.Println("No context found.")
		return
	}
	cmd.Println(theme.Subtitle.Render("Context"))
	for _, d := range docs {
		cmd.Printf("  - (%s) %s\n", d.Source, d.Text)
	}
	cmd.Println()
}

func runAskHistory(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	records, err := assistantService.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("%s  %s\n",
			theme.Muted.Render(r.CreatedAt.Local().Format(time.DateTime)),
			theme.Subtitle.Render(r.Question))
		cmd.Println(theme.Muted.Render(fmt.Sprintf("  %s / %s / %s", r.ID, r.Domain, r.Model)))
		cmd.Println(indent(r.Answer, "  "))
		cmd.Println()
	}
	return nil
}

func runAskPrompts(cmd *cobra.Command, _ []string) {
	for i, p := range prompts() {
		cmd.Printf("  [%d] %s\n", i+1, p)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
