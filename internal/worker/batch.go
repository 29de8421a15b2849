package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

// Parser turns one chronicle source into a document
type Parser interface {
	ParseSource(ctx context.Context, source string) (*model.Document, error)
}

// ParseJob parses one chronicle source
type ParseJob struct {
	Source  string
	Parser  Parser
	Limiter *Limiter
}

// Execute runs the parse, pacing URL sources through the limiter
func (j *ParseJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Source); err != nil {
			return &ParseResult{Source: j.Source, Error: err}
		}
	}
	doc, err := j.Parser.ParseSource(ctx, j.Source)
	return &ParseResult{Source: j.Source, Document: doc, Error: err}
}

// ParseResult is the outcome of one parse job
type ParseResult struct {
	Source   string
	Document *model.Document
	Error    error
}

// GetError returns the job error, if any
func (r *ParseResult) GetError() error {
	return r.Error
}

// BatchProcessor parses many chronicles concurrently
type BatchProcessor struct {
	parser      Parser
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(parser Parser, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
		limiter:     NewLimiter(requestsPerSecond, burst),
	}
}

// ProcessSources parses the given sources concurrently
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ParseResult {
	if len(sources) == 0 {
		return []*ParseResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, source := range sources {
		pool.Submit(&ParseJob{
			Source:  source,
			Parser:  b.parser,
			Limiter: b.limiter,
		})
	}

	results := pool.Wait()
	parseResults := make([]*ParseResult, len(results))
	for i, result := range results {
		parseResults[i] = result.(*ParseResult)
	}
	return parseResults
}

// ProcessFile reads sources from a manifest file and parses them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ParseResult, error) {
	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads chronicle locations from a file, one per line.
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadSourcesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return sources, nil
}
