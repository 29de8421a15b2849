package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

// Renderer writes parse results to their output formats. The JSON document
// is the downstream contract: individuals in insertion order, then the
// relationship list in resolver order.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the document as indented JSON
func (r *Renderer) RenderJSON(doc *model.Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report of the parsed tree
func (r *Renderer) RenderMarkdown(doc *model.Document, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Subject)
	fmt.Fprintf(&b, "- Source: %s\n", doc.Source)
	fmt.Fprintf(&b, "- Parsed: %s\n", doc.ParsedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Pages: %d, lines: %d\n\n", doc.SourceMeta.Pages, doc.SourceMeta.Lines)

	fmt.Fprintf(&b, "## Coverage: %d/100 (%s)\n\n", doc.Score.Index, doc.Score.Confidence)
	fmt.Fprintf(&b, "| Signal | Severity | Description |\n|---|---|---|\n")
	for _, signal := range doc.Score.Signals {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", signal.Type, signal.Severity, signal.Description)
	}
	b.WriteString("\n")

	stubs := 0
	for _, ind := range doc.Individuals {
		if strings.HasPrefix(ind.ID, "EXT_") {
			stubs++
		}
	}
	fmt.Fprintf(&b, "## Individuals (%d, %d synthesized)\n\n", len(doc.Individuals), stubs)

	generation := "\x00"
	for _, ind := range doc.Individuals {
		if ind.Generation != generation {
			generation = ind.Generation
			if generation == "" {
				b.WriteString("### Sans génération\n\n")
			} else {
				fmt.Fprintf(&b, "### Génération %s\n\n", generation)
			}
		}
		fmt.Fprintf(&b, "- **%s** (`%s`)%s\n", ind.Name, ind.ID, describeLife(ind))
	}
	b.WriteString("\n")

	spouseEdges, childEdges := 0, 0
	for _, rel := range doc.Relationships {
		if rel.Type == model.RelationSpouse {
			spouseEdges++
		} else {
			childEdges++
		}
	}
	fmt.Fprintf(&b, "## Relationships (%d spouse, %d parent-child)\n\n", spouseEdges, childEdges)
	for _, rel := range doc.Relationships {
		fmt.Fprintf(&b, "- %s: %s → %s\n", rel.Type, rel.Source, rel.Target)
	}
	b.WriteString("\n")

	b.WriteString("## Checks\n\n")
	for _, check := range doc.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&b, "- %s %s", mark, check.Name)
		if check.Detail != "" {
			fmt.Fprintf(&b, ": %s", check.Detail)
		}
		b.WriteString("\n")
	}

	if doc.LLM != nil && doc.LLM.SummaryMD != "" {
		b.WriteString("\n## Narrative (LLM)\n\n")
		b.WriteString(doc.LLM.SummaryMD)
		b.WriteString("\n")
		for _, warning := range doc.LLM.Warnings {
			fmt.Fprintf(&b, "\n> Warning: %s\n", warning)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\nGenerated by HerbautArbre — heuristic parse, verify against the original chronicle.\n")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short overview to stderr
func (r *Renderer) RenderSummary(doc *model.Document) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  %s\n", doc.Subject)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Individuals:    %d\n", len(doc.Individuals))
	fmt.Fprintf(os.Stderr, "  Relationships:  %d\n", len(doc.Relationships))
	fmt.Fprintf(os.Stderr, "  Coverage:       %d/100 (%s)\n", doc.Score.Index, doc.Score.Confidence)
	failed := 0
	for _, check := range doc.Checks {
		if !check.Passed {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "  Failed checks:  %d\n", failed)
	}
	fmt.Fprintf(os.Stderr, "\n")
}

func describeLife(ind *model.Individual) string {
	var parts []string
	if ind.Birth != nil {
		parts = append(parts, "né(e) "+eventText(ind.Birth))
	}
	if ind.Death != nil {
		parts = append(parts, "mort(e) "+eventText(ind.Death))
	}
	if ind.Sosa != "" {
		parts = append(parts, "sosa "+ind.Sosa)
	}
	if len(parts) == 0 {
		return ""
	}
	return " — " + strings.Join(parts, ", ")
}

func eventText(event *model.LifeEvent) string {
	switch {
	case event.Date != "" && event.Place != "":
		return "le " + event.Date + " à " + event.Place
	case event.Date != "":
		return "le " + event.Date
	default:
		return "à " + event.Place
	}
}
