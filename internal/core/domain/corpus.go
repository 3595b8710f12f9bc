package domain

// CorpusSource tags where a corpus document came from.
type CorpusSource string

// Corpus sources.
const (
	CorpusSourceProject   CorpusSource = "project"
	CorpusSourceInvoice   CorpusSource = "invoice"
	CorpusSourceKnowledge CorpusSource = "knowledge"
	CorpusSourceWorkflow  CorpusSource = "workflow"
)

// String returns the string representation.
func (s CorpusSource) String() string {
	return string(s)
}

// CorpusDocument is a short text unit eligible as model context.
type CorpusDocument struct {
	Source CorpusSource `json:"source"`
	Text   string       `json:"text"`
}

// CorpusDomain selects which business records enter the corpus.
type CorpusDomain string

// Corpus domains.
const (
	CorpusDomainProject CorpusDomain = "project"
	CorpusDomainInvoice CorpusDomain = "invoice"
	CorpusDomainBoth    CorpusDomain = "both"
)

// IsValid returns true if the domain is recognised.
func (d CorpusDomain) IsValid() bool {
	switch d {
	case CorpusDomainProject, CorpusDomainInvoice, CorpusDomainBoth:
		return true
	default:
		return false
	}
}

// IncludesProjects reports whether project snippets are wanted.
func (d CorpusDomain) IncludesProjects() bool {
	return d == CorpusDomainProject || d == CorpusDomainBoth
}

// IncludesInvoices reports whether invoice snippets are wanted.
func (d CorpusDomain) IncludesInvoices() bool {
	return d == CorpusDomainInvoice || d == CorpusDomainBoth
}

// QuickPrompts are suggested questions.
var QuickPrompts = []string{
	"Which projects are delayed and need to be expedited?",
	"Which invoices are overdue and need customer follow-up?",
	"What is the total of paid invoices this year?",
	"Summarise the main risks of the three highest value projects.",
}

// Corpus caps.
const (
	DefaultRecordLimit    = 200
	DefaultKnowledgeLimit = 50
	DefaultTopK           = 8
)

// DefaultWorkflow is the static project workflow description.
const DefaultWorkflow = "Project workflow sequence: 1) Prepare document Focus, " +
	"2) Procurement Focus, 3) Fabrication Focus, 4) Final inspection, " +
	"5) Shipping, 6) Final Document (no delay considered), " +
	"7) Completed (no delay considered)."

// CorpusInput is everything the corpus builder needs.
type CorpusInput struct {
	Domain   CorpusDomain
	Projects []ProjectRecord
	Invoices []JoinedRecord

	// Knowledge chunks are only used when IncludeKnowledge is set.
	Knowledge        []string
	IncludeKnowledge bool

	// Workflow is appended when IncludeWorkflow is set.
	// Empty falls back to DefaultWorkflow.
	Workflow        string
	IncludeWorkflow bool

	// RecordLimit caps snippets per domain. Zero means DefaultRecordLimit.
	RecordLimit int

	// KnowledgeLimit caps knowledge chunks. Zero means DefaultKnowledgeLimit.
	KnowledgeLimit int
}
