package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

// Scorer calculates the coverage index and generates signals. The index
// measures how much of the chronicle the cascade managed to structure; it
// says nothing about the accuracy of the booklet itself.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate computes the coverage score over the parsed sheets. Synthetic
// EXT_ stubs are excluded from coverage; they carry no sheet of their own.
func (s *Scorer) Calculate(doc *model.Document) model.Score {
	var sheets []*model.Individual
	for _, ind := range doc.Individuals {
		if !strings.HasPrefix(ind.ID, "EXT_") {
			sheets = append(sheets, ind)
		}
	}

	var signals []model.Signal

	nameScore, nameSignal := s.calculateNameCoverage(sheets)
	signals = append(signals, nameSignal)

	birthScore, birthSignal := s.calculateBirthCoverage(sheets)
	signals = append(signals, birthSignal)

	genderScore, genderSignal := s.calculateGenderCoverage(sheets)
	signals = append(signals, genderSignal)

	spouseScore, spouseSignal := s.calculateSpouseResolution(sheets)
	signals = append(signals, spouseSignal)

	densityScore, densitySignal := s.calculateAnnotationDensity(sheets)
	signals = append(signals, densitySignal)

	total := nameScore + birthScore + genderScore + spouseScore + densityScore

	return model.Score{
		Index:      total,
		Confidence: s.determineConfidence(total, len(sheets)),
		Signals:    signals,
	}
}

// calculateNameCoverage scores recognized name lines (0-30 points)
func (s *Scorer) calculateNameCoverage(sheets []*model.Individual) (int, model.Signal) {
	named := 0
	for _, ind := range sheets {
		if !strings.HasPrefix(ind.Name, "Personne ") {
			named++
		}
	}
	ratio := ratioOf(named, len(sheets))
	score := int(math.Round(ratio * 30))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 0.8 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalNameCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Sheets with a recognized name: %d/%d", named, len(sheets)),
		Data: map[string]interface{}{
			"named":   named,
			"sheets":  len(sheets),
			"ratio":   ratio,
			"score":   score,
			"formula": "round(named / sheets * 30)",
		},
	}
}

// calculateBirthCoverage scores extracted birth facts (0-25 points)
func (s *Scorer) calculateBirthCoverage(sheets []*model.Individual) (int, model.Signal) {
	withBirth := 0
	for _, ind := range sheets {
		if ind.Birth != nil {
			withBirth++
		}
	}
	ratio := ratioOf(withBirth, len(sheets))
	score := int(math.Round(ratio * 25))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalBirthCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Sheets with a birth fact: %d/%d", withBirth, len(sheets)),
		Data: map[string]interface{}{
			"with_birth": withBirth,
			"sheets":     len(sheets),
			"ratio":      ratio,
			"score":      score,
			"formula":    "round(with_birth / sheets * 25)",
		},
	}
}

// calculateGenderCoverage scores inferred genders (0-15 points)
func (s *Scorer) calculateGenderCoverage(sheets []*model.Individual) (int, model.Signal) {
	gendered := 0
	for _, ind := range sheets {
		if ind.Gender != "" {
			gendered++
		}
	}
	ratio := ratioOf(gendered, len(sheets))
	score := int(math.Round(ratio * 15))

	return score, model.Signal{
		Type:        model.SignalGenderCoverage,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Sheets with an inferred gender: %d/%d", gendered, len(sheets)),
		Data: map[string]interface{}{
			"gendered": gendered,
			"sheets":   len(sheets),
			"ratio":    ratio,
			"score":    score,
			"formula":  "round(gendered / sheets * 15)",
		},
	}
}

// calculateSpouseResolution scores mentions resolved to real entries
// rather than synthesized stubs (0-20 points)
func (s *Scorer) calculateSpouseResolution(sheets []*model.Individual) (int, model.Signal) {
	mentions, internal := 0, 0
	for _, ind := range sheets {
		for _, spouse := range ind.Spouses {
			mentions++
			if spouse.PartnerID != "" && !strings.HasPrefix(spouse.PartnerID, "EXT_") {
				internal++
			}
		}
	}

	if mentions == 0 {
		return 0, model.Signal{
			Type:        model.SignalSpouseResolution,
			Severity:    model.SeverityInfo,
			Description: "No spouse mentions in the chronicle",
			Data:        map[string]interface{}{"mentions": 0},
		}
	}

	ratio := float64(internal) / float64(mentions)
	score := int(math.Round(ratio * 20))

	severity := model.SeverityInfo
	if ratio < 0.3 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalSpouseResolution,
		Severity:    severity,
		Description: fmt.Sprintf("Spouse mentions resolved internally: %d/%d", internal, mentions),
		Data: map[string]interface{}{
			"internal": internal,
			"mentions": mentions,
			"ratio":    ratio,
			"score":    score,
			"formula":  "round(internal / mentions * 20)",
		},
	}
}

// calculateAnnotationDensity rewards sheets whose lines mostly matched a
// structured rule (0-10 points). High density means the cascade is missing
// phrasings.
func (s *Scorer) calculateAnnotationDensity(sheets []*model.Individual) (int, model.Signal) {
	annotations := 0
	for _, ind := range sheets {
		annotations += len(ind.Annotations)
	}
	density := ratioOf(annotations, len(sheets))
	score := 10 - int(math.Min(density*2, 10))

	severity := model.SeverityInfo
	if density > 4 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalAnnotationDensity,
		Severity:    severity,
		Description: fmt.Sprintf("Average unstructured lines per sheet: %.2f", density),
		Data: map[string]interface{}{
			"annotations": annotations,
			"sheets":      len(sheets),
			"density":     density,
			"score":       score,
			"formula":     "10 - min(density * 2, 10)",
		},
	}
}

func (s *Scorer) determineConfidence(total, sheets int) string {
	switch {
	case sheets < 3 || total < 40:
		return "low"
	case total >= 75:
		return "high"
	default:
		return "medium"
	}
}

func ratioOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
