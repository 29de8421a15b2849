package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
	"github.com/JeanHerbaut/HerbautArbre/internal/resolve"
)

// Summarizer wraps a provider and the strict-names audit. The narrative is
// decorative: it never changes individuals, relationships or the score.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; a disabled configuration yields a
// summarizer whose IsEnabled is false.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary produces the narrative for a parsed document. With
// strict names enabled, every personal name in the output that matches no
// parsed record becomes a warning; warnings never fail the parse.
func (s *Summarizer) GenerateSummary(ctx context.Context, doc *model.Document) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	names := allowedNames(doc)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Document:     doc,
		AllowedNames: names,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	summary := &model.LLMSummary{
		Enabled:     true,
		Provider:    s.provider.Name(),
		Model:       resp.Model,
		StrictNames: s.config.StrictNames,
		SummaryMD:   resp.Summary,
	}
	if s.config.StrictNames {
		summary.Warnings = auditNames(resp.Summary, names)
	}
	return summary, nil
}

// allowedNames collects real names from the document, skipping synthetic
// "Personne <id>" placeholders.
func allowedNames(doc *model.Document) []string {
	var names []string
	for _, ind := range doc.Individuals {
		if !strings.HasPrefix(ind.Name, "Personne ") {
			names = append(names, ind.Name)
		}
	}
	return names
}

// nameLike matches runs of two or more capitalized words, the shape of a
// personal name in the narrative.
var nameLike = regexp.MustCompile(`[A-ZÀ-ÖØ-Þ][a-zà-öø-ÿ'-]+(?: [A-ZÀ-ÖØ-Þ][A-Za-zà-öø-ÿ'-]+)+`)

// auditNames flags name-shaped phrases in the narrative that match no
// parsed record. Heuristic, so a warning, never an error.
func auditNames(summary string, allowed []string) []string {
	allowedSlugs := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSlugs[resolve.Slugify(name)] = true
	}

	seen := make(map[string]bool)
	var warnings []string
	for _, candidate := range nameLike.FindAllString(summary, -1) {
		slug := resolve.Slugify(candidate)
		if allowedSlugs[slug] || seen[slug] {
			continue
		}
		seen[slug] = true
		warnings = append(warnings, fmt.Sprintf("narrative mentions %q, which matches no parsed record", candidate))
	}
	return warnings
}
