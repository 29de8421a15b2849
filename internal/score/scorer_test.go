package score

import (
	"testing"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

func fullSheet(id, name, gender string, partnerID string) *model.Individual {
	return &model.Individual{
		ID:     id,
		Name:   name,
		Gender: gender,
		Birth:  &model.LifeEvent{Date: "3 février 1820", Place: "Valenciennes"},
		Spouses: []*model.Spouse{
			{Name: "Conjoint", PartnerID: partnerID},
		},
	}
}

func TestScorer_Calculate_FullCoverage(t *testing.T) {
	scorer := NewScorer()

	doc := model.NewDocument("test", "test")
	doc.Add(fullSheet("I_1", "Pierre Herbaut", "M", "I_2"))
	doc.Add(fullSheet("I_2", "Marie Dubois", "F", "I_1"))
	doc.Add(fullSheet("I_3", "Jean Herbaut", "M", "I_4"))
	doc.Add(fullSheet("I_4", "Louise Caron", "F", "I_3"))

	result := scorer.Calculate(doc)

	// name 30 + birth 25 + gender 15 + spouse 20 + density 10
	if result.Index != 100 {
		t.Errorf("expected index 100 for full coverage, got %d", result.Index)
	}
	if result.Confidence != "high" {
		t.Errorf("expected high confidence, got %s", result.Confidence)
	}
	if len(result.Signals) != 5 {
		t.Errorf("expected 5 signals, got %d", len(result.Signals))
	}
}

func TestScorer_Calculate_EmptyDocument(t *testing.T) {
	scorer := NewScorer()

	result := scorer.Calculate(model.NewDocument("test", "test"))

	if result.Index < 0 || result.Index > 100 {
		t.Errorf("expected index between 0 and 100, got %d", result.Index)
	}
	if result.Confidence != "low" {
		t.Errorf("expected low confidence for empty document, got %s", result.Confidence)
	}
	if len(result.Signals) != 5 {
		t.Errorf("expected 5 signals even for empty input, got %d", len(result.Signals))
	}
}

func TestScorer_Calculate_StubsExcluded(t *testing.T) {
	scorer := NewScorer()

	// One perfect sheet plus one synthetic stub: the stub must not dilute
	// coverage (it has no birth, no gender, no sheet of its own).
	doc := model.NewDocument("test", "test")
	doc.Add(fullSheet("I_1", "Pierre Herbaut", "M", "I_2"))
	doc.Add(fullSheet("I_2", "Marie Dubois", "F", "I_1"))
	doc.Add(fullSheet("I_3", "Jean Herbaut", "M", "I_1"))
	doc.Add(&model.Individual{ID: "EXT_jeanne_caron", Name: "Jeanne Caron"})

	result := scorer.Calculate(doc)

	for _, signal := range result.Signals {
		if signal.Type == model.SignalNameCoverage {
			if sheets, ok := signal.Data["sheets"].(int); !ok || sheets != 3 {
				t.Errorf("expected 3 sheets with stub excluded, got %v", signal.Data["sheets"])
			}
		}
	}
}

func TestScorer_Calculate_FallbackNamesNotCounted(t *testing.T) {
	scorer := NewScorer()

	doc := model.NewDocument("test", "test")
	doc.Add(&model.Individual{ID: "I_1", Name: "Pierre Herbaut"})
	doc.Add(&model.Individual{ID: "AUTO_0001", Name: "Personne AUTO_0001"})

	result := scorer.Calculate(doc)

	for _, signal := range result.Signals {
		if signal.Type == model.SignalNameCoverage {
			if named, ok := signal.Data["named"].(int); !ok || named != 1 {
				t.Errorf("expected 1 named sheet, got %v", signal.Data["named"])
			}
		}
	}
}

func TestScorer_Calculate_SpouseResolutionSignal(t *testing.T) {
	scorer := NewScorer()

	doc := model.NewDocument("test", "test")
	doc.Add(&model.Individual{
		ID:   "I_1",
		Name: "Pierre Herbaut",
		Spouses: []*model.Spouse{
			{Name: "Marie Dubois", PartnerID: "I_2"},
			{Name: "Jeanne Caron", PartnerID: "EXT_jeanne_caron"},
		},
	})
	doc.Add(&model.Individual{ID: "I_2", Name: "Marie Dubois"})

	result := scorer.Calculate(doc)

	for _, signal := range result.Signals {
		if signal.Type == model.SignalSpouseResolution {
			if internal, ok := signal.Data["internal"].(int); !ok || internal != 1 {
				t.Errorf("expected 1 internal resolution, got %v", signal.Data["internal"])
			}
			if mentions, ok := signal.Data["mentions"].(int); !ok || mentions != 2 {
				t.Errorf("expected 2 mentions, got %v", signal.Data["mentions"])
			}
		}
	}
}

func TestScorer_Calculate_NoSpouseMentions(t *testing.T) {
	scorer := NewScorer()

	doc := model.NewDocument("test", "test")
	doc.Add(&model.Individual{ID: "I_1", Name: "Pierre Herbaut"})

	result := scorer.Calculate(doc)

	for _, signal := range result.Signals {
		if signal.Type == model.SignalSpouseResolution {
			if signal.Severity != model.SeverityInfo {
				t.Errorf("expected info severity for no mentions, got %s", signal.Severity)
			}
		}
	}
}

func TestScorer_Calculate_AnnotationDensityPenalty(t *testing.T) {
	scorer := NewScorer()

	lowDensity := model.NewDocument("test", "test")
	lowDensity.Add(&model.Individual{ID: "I_1", Name: "Pierre Herbaut"})

	highDensity := model.NewDocument("test", "test")
	highDensity.Add(&model.Individual{
		ID:   "I_1",
		Name: "Pierre Herbaut",
		Annotations: []string{
			"ligne inconnue 1", "ligne inconnue 2", "ligne inconnue 3",
			"ligne inconnue 4", "ligne inconnue 5", "ligne inconnue 6",
		},
	})

	low := scorer.Calculate(lowDensity)
	high := scorer.Calculate(highDensity)

	if high.Index >= low.Index {
		t.Errorf("expected heavy annotation density to lower the index: %d vs %d",
			high.Index, low.Index)
	}

	for _, signal := range high.Signals {
		if signal.Type == model.SignalAnnotationDensity {
			if signal.Severity != model.SeverityWarning {
				t.Errorf("expected warning severity for density > 4, got %s", signal.Severity)
			}
		}
	}
}

func TestScorer_Calculate_CriticalNameCoverage(t *testing.T) {
	scorer := NewScorer()

	doc := model.NewDocument("test", "test")
	doc.Add(&model.Individual{ID: "I_1", Name: "Pierre Herbaut"})
	doc.Add(&model.Individual{ID: "I_2", Name: "Personne I_2"})
	doc.Add(&model.Individual{ID: "I_3", Name: "Personne I_3"})

	result := scorer.Calculate(doc)

	for _, signal := range result.Signals {
		if signal.Type == model.SignalNameCoverage {
			if signal.Severity != model.SeverityCritical {
				t.Errorf("expected critical severity below 50%% named, got %s", signal.Severity)
			}
		}
	}
}

func TestScorer_Calculate_FormulasExposed(t *testing.T) {
	scorer := NewScorer()

	doc := model.NewDocument("test", "test")
	doc.Add(fullSheet("I_1", "Pierre Herbaut", "M", "I_2"))
	doc.Add(fullSheet("I_2", "Marie Dubois", "F", "I_1"))

	result := scorer.Calculate(doc)

	for _, signal := range result.Signals {
		if signal.Data == nil {
			t.Errorf("signal %s: expected transparent data, got nil", signal.Type)
			continue
		}
		if _, ok := signal.Data["formula"]; !ok {
			t.Errorf("signal %s: expected formula in data, got %v", signal.Type, signal.Data)
		}
	}
}

func TestScorer_DetermineConfidence(t *testing.T) {
	scorer := NewScorer()

	cases := []struct {
		total    int
		sheets   int
		expected string
	}{
		{90, 10, "high"},
		{75, 5, "high"},
		{60, 5, "medium"},
		{40, 3, "medium"},
		{39, 10, "low"},
		{90, 2, "low"}, // too few sheets regardless of total
	}

	for _, c := range cases {
		got := scorer.determineConfidence(c.total, c.sheets)
		if got != c.expected {
			t.Errorf("determineConfidence(%d, %d): expected %s, got %s",
				c.total, c.sheets, c.expected, got)
		}
	}
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer()

	build := func() *model.Document {
		doc := model.NewDocument("test", "test")
		doc.Add(fullSheet("I_1", "Pierre Herbaut", "M", "I_2"))
		doc.Add(&model.Individual{ID: "I_2", Name: "Marie Dubois", Annotations: []string{"note"}})
		return doc
	}

	first := scorer.Calculate(build())
	second := scorer.Calculate(build())

	if first.Index != second.Index || first.Confidence != second.Confidence {
		t.Errorf("expected identical scores across runs: %+v vs %+v", first, second)
	}
}
