package extract

import (
	"regexp"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
	"github.com/JeanHerbaut/HerbautArbre/internal/segment"
)

// Sentence patterns of the typeset chronicle. The booklet has no schema;
// these are the recurring phrasings of its individual sheets.
var (
	nameBirthRe    = regexp.MustCompile(`^([A-Za-zÀ-ÖØ-öø-ÿ' \-]+) est n`)
	birthRe        = regexp.MustCompile(`est n[ée]e? le ([^à]+) à ([^.]+)`)
	deathRe        = regexp.MustCompile(`meurt le ([^à,.]+)(?: à ([^,.]+))?`)
	filiationRe    = regexp.MustCompile(`^(Il|Elle) est l'enfant légitime de ([^,]+?)(?:, [^,]+)? et de ([^.,]+)(?:, [^.]+)?\.`)
	marriageRe     = regexp.MustCompile(`(?:A une date non connue, )?(Il|Elle) épouse ([^,]+?)(?:, [^l]+)?(?: le ([^à.]+?))?(?: à ([^.]+))?\.`)
	unknownBirthRe = regexp.MustCompile(`^La date de naissance de (.+?) n'est pas connue`)
	unknownDeathRe = regexp.MustCompile(`^La date de décès de (.+?) n'est pas connue`)
	bulletChildRe  = regexp.MustCompile(`^- (.+?) \(([\d.]+)\)`)
)

// rule is one step of the classification cascade: a cheap predicate
// followed by an extractor. The extractor returns false when its pattern
// does not actually match, letting the line fall through to later rules.
type rule struct {
	name    string
	when    func(ind *model.Individual, line string) bool
	extract func(ind *model.Individual, line string) bool
}

// FieldExtractor populates an Individual from one entry's line bag. The
// cascade is evaluated in fixed order, first success wins per line, and the
// final catch-all guarantees no line is ever discarded.
type FieldExtractor struct {
	rules []rule
}

// NewFieldExtractor creates a field extractor with the full cascade
func NewFieldExtractor() *FieldExtractor {
	nameUnset := func(ind *model.Individual, _ string) bool { return ind.Name == "" }

	return &FieldExtractor{
		rules: []rule{
			{
				name:    "name_from_birth",
				when:    nameUnset,
				extract: extractNameFromBirth,
			},
			{
				name:    "name_from_unknown_birth",
				when:    nameUnset,
				extract: extractNameFromUnknownBirth,
			},
			{
				name:    "name_from_unknown_death",
				when:    nameUnset,
				extract: extractNameFromUnknownDeath,
			},
			{
				name: "birth_details",
				when: func(ind *model.Individual, line string) bool {
					return (ind.Birth == nil || ind.Birth.Date == "") && strings.Contains(line, " est n")
				},
				extract: extractBirthDetails,
			},
			{
				name: "death_details",
				when: func(_ *model.Individual, line string) bool {
					return strings.Contains(line, "meurt le")
				},
				extract: extractDeathDetails,
			},
			{
				name: "filiation",
				when: func(_ *model.Individual, line string) bool {
					return strings.Contains(line, "est l'enfant légitime de")
				},
				extract: extractFiliation,
			},
			{
				name: "marriage",
				when: func(_ *model.Individual, line string) bool {
					return strings.Contains(line, "épouse ")
				},
				extract: extractMarriage,
			},
			{
				name: "bullet_child",
				when: func(_ *model.Individual, line string) bool {
					return strings.HasPrefix(line, "- ")
				},
				extract: extractBulletChild,
			},
			{
				name:    "annotation",
				when:    func(_ *model.Individual, _ string) bool { return true },
				extract: extractAnnotation,
			},
		},
	}
}

// Extract processes one entry's lines through the cascade and returns the
// populated individual. The entry index is used only for the AUTO_
// fallback identifier.
func (e *FieldExtractor) Extract(entry segment.Entry, index int) *model.Individual {
	ind := &model.Individual{
		ID:         NormalizeIdentifier(entry.Number, entry.Sosa, index),
		Generation: entry.Generation,
		Sosa:       strings.TrimSpace(entry.Sosa),
	}

	for _, line := range entry.Lines {
		for _, r := range e.rules {
			if !r.when(ind, line) {
				continue
			}
			if r.extract(ind, line) {
				break
			}
		}
	}

	if ind.Name == "" {
		ind.Name = "Personne " + ind.ID
	}
	return ind
}

// extractNameFromBirth captures a leading proper-name phrase followed by a
// birth verb. The verb inflection carries grammatical gender.
func extractNameFromBirth(ind *model.Individual, line string) bool {
	m := nameBirthRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Name = strings.TrimSpace(m[1])
	if strings.Contains(line, " est née ") {
		ind.Gender = "F"
	} else {
		ind.Gender = "M"
	}
	if bm := birthRe.FindStringSubmatch(line); bm != nil {
		ind.Birth = &model.LifeEvent{
			Date:  strings.TrimSpace(bm[1]),
			Place: strings.TrimSpace(bm[2]),
		}
	}
	return true
}

// extractNameFromUnknownBirth handles "La date de naissance de X n'est pas
// connue". Trailing-vowel heuristic only; anything else leaves gender unset.
func extractNameFromUnknownBirth(ind *model.Individual, line string) bool {
	m := unknownBirthRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Name = strings.TrimSpace(m[1])
	if strings.HasSuffix(ind.Name, "e") {
		ind.Gender = "F"
	}
	ind.Annotations = append(ind.Annotations, line)
	return true
}

// extractNameFromUnknownDeath handles the death counterpart. The sentence
// carries no usable gender marker.
func extractNameFromUnknownDeath(ind *model.Individual, line string) bool {
	m := unknownDeathRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Name = strings.TrimSpace(m[1])
	ind.Annotations = append(ind.Annotations, line)
	return true
}

func extractBirthDetails(ind *model.Individual, line string) bool {
	m := birthRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Birth = &model.LifeEvent{
		Date:  strings.TrimSpace(m[1]),
		Place: strings.TrimSpace(m[2]),
	}
	return true
}

// extractDeathDetails sets whichever groups matched. Death lines carry
// auxiliary narrative beyond the bare fact, so the line is always kept as
// an annotation.
func extractDeathDetails(ind *model.Individual, line string) bool {
	if m := deathRe.FindStringSubmatch(line); m != nil {
		if ind.Death == nil {
			ind.Death = &model.LifeEvent{}
		}
		ind.Death.Date = strings.TrimSpace(m[1])
		if m[2] != "" {
			ind.Death.Place = strings.TrimSpace(m[2])
		}
	}
	ind.Annotations = append(ind.Annotations, line)
	return true
}

func extractFiliation(ind *model.Individual, line string) bool {
	m := filiationRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Parents = &model.Parents{
		Father: strings.TrimSpace(m[2]),
		Mother: strings.TrimSpace(m[3]),
	}
	ind.Annotations = append(ind.Annotations, line)
	return true
}

// extractMarriage appends one spouse mention per matching line. Repeated
// mentions of the same name are kept; deduplication is not the cascade's
// job.
func extractMarriage(ind *model.Individual, line string) bool {
	m := marriageRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Spouses = append(ind.Spouses, &model.Spouse{
		Name:          strings.TrimSpace(m[2]),
		MarriageDate:  strings.TrimSpace(m[3]),
		MarriagePlace: strings.TrimSpace(m[4]),
		Note:          line,
	})
	return true
}

func extractBulletChild(ind *model.Individual, line string) bool {
	m := bulletChildRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	ind.Children = append(ind.Children, m[2])
	ind.Annotations = append(ind.Annotations, line)
	return true
}

func extractAnnotation(ind *model.Individual, line string) bool {
	ind.Annotations = append(ind.Annotations, line)
	return true
}
