package model

import "time"

// Document represents the complete parse result for one chronicle
type Document struct {
	Subject    string     `json:"subject"`     // Subject of the chronicle (e.g., "Famille Herbaut")
	Source     string     `json:"source"`      // File path or URL that was parsed
	ParsedAt   time.Time  `json:"parsed_at"`   // When the parse occurred
	SourceMeta SourceMeta `json:"source_meta"` // Line-source metadata

	Individuals   []*Individual  `json:"individuals"`   // Insertion order = order first encountered
	Relationships []Relationship `json:"relationships"` // Spouse edges before child edges, per individual

	Checks []CheckResult `json:"checks,omitempty"` // Graph invariant check results
	Score  Score         `json:"score"`            // Coverage index and scoring breakdown

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM summary (never affects the parse)

	byID map[string]*Individual
}

// SourceMeta contains metadata from the line source
type SourceMeta struct {
	StatusCode  int    `json:"status_code,omitempty"`  // HTTP status, URL sources only
	ContentType string `json:"content_type,omitempty"` // HTTP content type, URL sources only
	Pages       int    `json:"pages"`                  // Page count seen by the source
	Lines       int    `json:"lines"`                  // Total lines handed to the segmenter
	Cached      bool   `json:"cached,omitempty"`       // Whether the bytes came from cache
}

// NewDocument creates an empty document for the given source
func NewDocument(subject, source string) *Document {
	return &Document{
		Subject:  subject,
		Source:   source,
		ParsedAt: time.Now().UTC(),
		byID:     make(map[string]*Individual),
	}
}

// Add appends an individual, preserving insertion order. The first record
// registered for an identifier wins; identifiers are never reassigned.
func (d *Document) Add(ind *Individual) {
	if d.byID == nil {
		d.byID = make(map[string]*Individual)
	}
	if _, exists := d.byID[ind.ID]; exists {
		return
	}
	d.byID[ind.ID] = ind
	d.Individuals = append(d.Individuals, ind)
}

// Lookup returns the individual registered under the given identifier
func (d *Document) Lookup(id string) (*Individual, bool) {
	ind, ok := d.byID[id]
	return ind, ok
}

// Has reports whether an identifier is registered
func (d *Document) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// Score represents the transparent parse-coverage breakdown
type Score struct {
	Index      int      `json:"index"`      // Overall coverage index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formulas and inputs
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalNameCoverage      SignalType = "name_coverage"      // Sheets with a recognized name line
	SignalBirthCoverage     SignalType = "birth_coverage"     // Sheets with a birth date or place
	SignalGenderCoverage    SignalType = "gender_coverage"    // Sheets with an inferred gender
	SignalSpouseResolution  SignalType = "spouse_resolution"  // Internal partners vs synthesized stubs
	SignalAnnotationDensity SignalType = "annotation_density" // Unstructured lines per sheet
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// CheckResult is the outcome of one graph invariant check
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// LLMSummary contains the optional LLM-generated narrative.
// It never alters individuals, relationships or the score.
type LLMSummary struct {
	Enabled     bool     `json:"enabled"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	StrictNames bool     `json:"strict_names"`         // Whether name allowlisting was enforced
	SummaryMD   string   `json:"summary_md,omitempty"` // Markdown narrative
	Warnings    []string `json:"warnings,omitempty"`   // E.g. names cited that no record carries
}
