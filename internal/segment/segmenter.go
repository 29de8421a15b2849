package segment

import (
	"regexp"
	"strings"
)

// Entry is the raw line bag for one individual sheet, prior to field
// extraction.
type Entry struct {
	Number     string   // Dotted numeric code from the header (e.g. "1.2"), empty when absent
	Sosa       string   // Sosa number as printed, empty when absent
	Generation string   // Ambient generation label in force when the entry opened
	Lines      []string // Body lines, trimmed, in original order
}

// entryHeader matches either a dotted numeric code optionally followed by a
// sosa number, or a bare sosa-number line.
var entryHeader = regexp.MustCompile(`^(?:(\d+(?:\.\d+)*)(?: - Sosa : ([\d\s]+))?|Sosa : ([\d\s]+))$`)

const generationMarker = "Génération"

// Segmenter groups a flat line stream into per-individual entries. The
// current generation label is segmenter-local state threaded through the
// scan: it is stamped onto each entry as it opens and persists until the
// next generation marker.
type Segmenter struct{}

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment scans lines in order and returns the entries they form. Blank
// lines are discarded. A header line flushes the open entry and starts a
// new one; any other line before the first header opens an anonymous entry.
// The final open entry is flushed when the stream ends.
func (s *Segmenter) Segment(lines []string) []Entry {
	var entries []Entry
	var current *Entry
	generation := ""

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, generationMarker) {
			if parts := strings.SplitN(line, " ", 2); len(parts) == 2 {
				generation = strings.TrimSpace(parts[1])
			}
			continue
		}

		if m := entryHeader.FindStringSubmatch(line); m != nil {
			flush()
			sosa := m[2]
			if sosa == "" {
				sosa = m[3] // bare "Sosa : n" header
			}
			current = &Entry{
				Number:     m[1],
				Sosa:       sosa,
				Generation: generation,
			}
			continue
		}

		if current == nil {
			current = &Entry{Generation: generation}
		}
		current.Lines = append(current.Lines, line)
	}

	flush()
	return entries
}
