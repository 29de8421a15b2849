package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative for the parsed tree
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for narrative generation
type SummarizeRequest struct {
	// Document is the parsed chronicle to narrate
	Document *model.Document

	// AllowedNames is the allowlist of personal names the narrative may
	// mention; anything outside it is flagged as a warning downstream
	AllowedNames []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated narrative
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	Provider    string // "openai" or "" (disabled); OpenAI-compatible BaseURL covers local runtimes
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     int // seconds
	StrictNames bool
	MaxTokens   int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "",
		Timeout:     30,
		StrictNames: true,
		MaxTokens:   1000,
	}
}

// NewProvider creates an LLM provider from configuration. An empty
// provider name disables the feature and returns nil without error.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		StrictNames: modelConfig.StrictNames,
		MaxTokens:   modelConfig.MaxTokens,
	}
}

// BuildPrompt constructs the default narrative prompt. The model may only
// mention people present in the parsed records.
func BuildPrompt(doc *model.Document, allowedNames []string) string {
	spouseEdges, childEdges := 0, 0
	for _, rel := range doc.Relationships {
		if rel.Type == model.RelationSpouse {
			spouseEdges++
		} else {
			childEdges++
		}
	}

	prompt := fmt.Sprintf(`You are narrating a parsed genealogical chronicle. The parse is heuristic: describe what the records show, never invent facts.

CRITICAL RULES:
1. You may ONLY mention people from this list:
%s

2. Do not invent dates, places or relationships beyond the figures below.
3. If a record lacks a fact, say so rather than guessing.

Parsed records:
- Subject: %s
- Individuals: %d
- Spouse edges: %d, parent-child edges: %d
- Coverage index: %d/100 (%s)

Provide a 3-4 sentence summary of the family structure in this chronicle.`,
		joinNames(allowedNames), doc.Subject, len(doc.Individuals),
		spouseEdges, childEdges, doc.Score.Index, doc.Score.Confidence)

	return prompt
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(No named individuals)"
	}
	var b strings.Builder
	for i, name := range names {
		if i >= 40 { // avoid token bloat on large chronicles
			fmt.Fprintf(&b, "\n... and %d more names", len(names)-40)
			break
		}
		fmt.Fprintf(&b, "\n- %s", name)
	}
	return b.String()
}
