package pipeline

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// LineSet is a flattened chronicle: page order preserved, line order within
// each page preserved. A page with no extractable text contributes zero
// lines, not an error.
type LineSet struct {
	Lines   []string
	Pages   int
	Subject string
}

// IsURL reports whether the source is an HTTP(S) location
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// LoadFile reads a local text chronicle. Pages are separated by form feed.
// A missing file is the pipeline's one hard failure.
func LoadFile(path string) (*LineSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chronicle: %w", err)
	}
	return LinesFromText(string(raw), SubjectFromPath(path)), nil
}

// LinesFromText splits raw chronicle text into pages and lines
func LinesFromText(text, subject string) *LineSet {
	pages := strings.Split(text, "\f")
	ls := &LineSet{Pages: len(pages), Subject: subject}
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			ls.Lines = append(ls.Lines, strings.TrimRight(line, "\r"))
		}
	}
	return ls
}

// LinesFromHTML flattens an HTML chronicle page into visible text lines,
// skipping script/style content. Each text node contributes its own lines
// so the typeset line structure survives.
func LinesFromHTML(htmlContent, subject string) (*LineSet, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines = append(lines, trimmed)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return &LineSet{Lines: lines, Pages: 1, Subject: subject}, nil
}

// SubjectFromPath derives a human-readable subject from a file path
func SubjectFromPath(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}

// SubjectFromURL derives a human-readable subject from a URL
func SubjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}
	segments := strings.Split(path, "/")
	return SubjectFromPath(segments[len(segments)-1])
}
