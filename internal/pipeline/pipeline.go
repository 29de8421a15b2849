package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/cache"
	"github.com/JeanHerbaut/HerbautArbre/internal/extract"
	"github.com/JeanHerbaut/HerbautArbre/internal/llm"
	"github.com/JeanHerbaut/HerbautArbre/internal/model"
	"github.com/JeanHerbaut/HerbautArbre/internal/resolve"
	"github.com/JeanHerbaut/HerbautArbre/internal/score"
	"github.com/JeanHerbaut/HerbautArbre/internal/segment"
	"github.com/JeanHerbaut/HerbautArbre/internal/validate"
)

// Pipeline orchestrates the complete parse: line source -> entries ->
// individuals -> relationship graph -> checks and score. Each run is
// single-threaded and deterministic; concurrency only exists across
// documents, in the batch processor.
type Pipeline struct {
	segmenter  *segment.Segmenter
	extractor  *extract.FieldExtractor
	resolver   *resolve.Resolver
	validator  *validate.Validator
	scorer     *score.Scorer
	fetcher    *Fetcher
	renderer   *Renderer
	summarizer *llm.Summarizer // nil when disabled
	config     *model.Config
}

// NewPipeline creates a pipeline from the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if base, err := os.UserCacheDir(); err == nil {
				dir = filepath.Join(base, "herbaut")
			}
		}
		if dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		}
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		segmenter:  segment.NewSegmenter(),
		extractor:  extract.NewFieldExtractor(),
		resolver:   resolve.NewResolver(),
		validator:  validate.NewValidator(),
		scorer:     score.NewScorer(),
		fetcher:    NewFetcher(cfg.HTTP, store),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
	}
}

// ParseSource loads the chronicle at the given location (file path or URL)
// and runs the full parse.
func (p *Pipeline) ParseSource(ctx context.Context, source string) (*model.Document, error) {
	var (
		ls   *LineSet
		meta model.SourceMeta
	)

	if IsURL(source) {
		fetched, err := p.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		body := string(fetched.Body)
		subject := SubjectFromURL(fetched.FinalURL)
		if looksLikeHTML(fetched.ContentType, body) {
			ls, err = LinesFromHTML(body, subject)
			if err != nil {
				return nil, fmt.Errorf("flatten HTML: %w", err)
			}
		} else {
			ls = LinesFromText(body, subject)
		}
		meta.StatusCode = fetched.StatusCode
		meta.ContentType = fetched.ContentType
		meta.Cached = fetched.Cached
	} else {
		var err error
		ls, err = LoadFile(source)
		if err != nil {
			return nil, err
		}
	}

	doc := p.ParseLines(ls.Lines, ls.Subject, source)
	meta.Pages = ls.Pages
	meta.Lines = len(ls.Lines)
	doc.SourceMeta = meta

	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			doc.LLM = summary
		}
	}

	return doc, nil
}

// ParseLines runs the pure core over an already-materialized line
// sequence. It never fails: unparseable content degrades to annotations.
func (p *Pipeline) ParseLines(lines []string, subject, source string) *model.Document {
	doc := model.NewDocument(subject, source)

	entries := p.segmenter.Segment(lines)
	for i, entry := range entries {
		doc.Add(p.extractor.Extract(entry, i))
	}

	p.resolver.Resolve(doc)
	doc.Checks = p.validator.Validate(doc)
	doc.Score = p.scorer.Calculate(doc)
	doc.SourceMeta.Lines = len(lines)
	return doc
}

// RenderDocument renders the document to the requested outputs and prints
// the stderr summary.
func (p *Pipeline) RenderDocument(doc *model.Document, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(doc, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(doc, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(doc)
	return nil
}

func looksLikeHTML(contentType, body string) bool {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "xhtml") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
