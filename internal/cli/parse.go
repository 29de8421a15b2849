package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
	"github.com/JeanHerbaut/HerbautArbre/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	llmEnabled  bool
	llmModel    string
	llmBaseURL  string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <path|url>",
	Short: "Parse a single chronicle into individuals and relationships",
	Long: `Parse reads one chronicle (a local text file, form-feed page breaks, or
an HTML page over HTTP) and produces:
- Individual records with stable identifiers, dates, places and parents
- Directed spouse and parent-child relationship edges
- Graph invariant checks and a parse-coverage score

Example:
  herbaut parse famille-herbaut.txt
  herbaut parse famille-herbaut.txt --json arbre.json --md arbre.md
  herbaut parse https://example.org/chroniques/herbaut.html
  herbaut parse famille-herbaut.txt --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Output flags
	parseCmd.Flags().StringVar(&outJSON, "json", "arbre.json", "output JSON path")
	parseCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags (URL sources only)
	parseCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall parse timeout")
	parseCmd.Flags().StringVar(&userAgent, "ua", "HerbautArbre/0.2 (+https://github.com/JeanHerbaut/HerbautArbre)", "HTTP User-Agent")
	parseCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	parseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	parseCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	parseCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")

	// LLM flags
	parseCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	parseCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	parseCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "OpenAI-compatible base URL (e.g. a local runtime)")
}

func runParse(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Parsing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	doc, err := p.ParseSource(ctx, source)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Parsed %d individuals\n", len(doc.Individuals))
		fmt.Fprintf(os.Stderr, "✓ Resolved %d relationships\n", len(doc.Relationships))
		fmt.Fprintf(os.Stderr, "✓ Coverage index: %d/100\n", doc.Score.Index)
		if doc.LLM != nil && doc.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated narrative using %s/%s\n", doc.LLM.Provider, doc.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderDocument(doc, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// buildConfig assembles configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = "openai"
		cfg.LLM.Model = llmModel
		cfg.LLM.BaseURL = llmBaseURL
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	return cfg, nil
}
