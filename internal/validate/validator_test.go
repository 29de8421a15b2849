package validate

import (
	"strings"
	"testing"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

func checkByName(t *testing.T, checks []model.CheckResult, name string) model.CheckResult {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found in %+v", name, checks)
	return model.CheckResult{}
}

func healthyDocument() *model.Document {
	doc := model.NewDocument("test", "test")
	pierre := &model.Individual{
		ID:      "I_1",
		Name:    "Pierre Herbaut",
		Spouses: []*model.Spouse{{Name: "Marie Dubois", PartnerID: "I_2"}},
	}
	marie := &model.Individual{ID: "I_2", Name: "Marie Dubois"}
	doc.Add(pierre)
	doc.Add(marie)
	doc.Relationships = []model.Relationship{
		{Type: model.RelationSpouse, Source: "I_1", Target: "I_2"},
	}
	return doc
}

func TestValidator_HealthyGraph(t *testing.T) {
	v := NewValidator()

	checks := v.Validate(healthyDocument())

	if len(checks) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(checks))
	}
	for _, c := range checks {
		if !c.Passed {
			t.Errorf("expected check %s to pass, detail: %s", c.Name, c.Detail)
		}
	}
}

func TestValidator_FixedCheckOrder(t *testing.T) {
	v := NewValidator()

	checks := v.Validate(healthyDocument())

	expected := []string{
		"unique_identifiers",
		"spouse_partners_resolved",
		"no_spouse_self_loops",
		"edge_endpoints_exist",
		"partner_edge_consistency",
	}
	for i, name := range expected {
		if checks[i].Name != name {
			t.Errorf("check %d: expected %s, got %s", i, name, checks[i].Name)
		}
	}
}

func TestValidator_DuplicateIdentifiers(t *testing.T) {
	v := NewValidator()

	doc := model.NewDocument("test", "test")
	doc.Individuals = []*model.Individual{
		{ID: "I_1", Name: "Pierre"},
		{ID: "I_1", Name: "Autre Pierre"},
	}

	check := checkByName(t, v.Validate(doc), "unique_identifiers")
	if check.Passed {
		t.Error("expected duplicate identifiers to fail")
	}
	if !strings.Contains(check.Detail, "I_1") {
		t.Errorf("expected detail to name the duplicate, got %q", check.Detail)
	}
}

func TestValidator_EmptyIdentifier(t *testing.T) {
	v := NewValidator()

	doc := model.NewDocument("test", "test")
	doc.Individuals = []*model.Individual{{ID: "", Name: "Sans Numéro"}}

	check := checkByName(t, v.Validate(doc), "unique_identifiers")
	if check.Passed {
		t.Error("expected empty identifier to fail")
	}
}

func TestValidator_UnresolvedPartner(t *testing.T) {
	v := NewValidator()

	doc := model.NewDocument("test", "test")
	doc.Add(&model.Individual{
		ID:      "I_1",
		Name:    "Pierre Herbaut",
		Spouses: []*model.Spouse{{Name: "Marie Dubois"}}, // PartnerID never set
	})

	check := checkByName(t, v.Validate(doc), "spouse_partners_resolved")
	if check.Passed {
		t.Error("expected unresolved spouse mention to fail")
	}
	if !strings.Contains(check.Detail, "Marie Dubois") {
		t.Errorf("expected detail to name the mention, got %q", check.Detail)
	}
}

func TestValidator_PartnerNotInCollection(t *testing.T) {
	v := NewValidator()

	doc := model.NewDocument("test", "test")
	doc.Add(&model.Individual{
		ID:      "I_1",
		Name:    "Pierre Herbaut",
		Spouses: []*model.Spouse{{Name: "Marie Dubois", PartnerID: "I_99"}},
	})

	check := checkByName(t, v.Validate(doc), "spouse_partners_resolved")
	if check.Passed {
		t.Error("expected partner id outside the collection to fail")
	}
}

func TestValidator_SelfLoop(t *testing.T) {
	v := NewValidator()

	doc := healthyDocument()
	doc.Relationships = append(doc.Relationships, model.Relationship{
		Type: model.RelationSpouse, Source: "I_1", Target: "I_1",
	})

	check := checkByName(t, v.Validate(doc), "no_spouse_self_loops")
	if check.Passed {
		t.Error("expected self-loop to fail")
	}
	if !strings.Contains(check.Detail, "I_1") {
		t.Errorf("expected detail to name the looping node, got %q", check.Detail)
	}
}

func TestValidator_ParentChildSelfLoopIgnored(t *testing.T) {
	v := NewValidator()

	// The self-loop check covers spouse edges only
	doc := healthyDocument()
	doc.Relationships = append(doc.Relationships, model.Relationship{
		Type: model.RelationParentChild, Source: "I_1", Target: "I_1",
	})

	check := checkByName(t, v.Validate(doc), "no_spouse_self_loops")
	if !check.Passed {
		t.Errorf("expected parent-child loop to be out of scope, detail: %s", check.Detail)
	}
}

func TestValidator_DanglingEdgeEndpoint(t *testing.T) {
	v := NewValidator()

	doc := healthyDocument()
	doc.Relationships = append(doc.Relationships, model.Relationship{
		Type: model.RelationParentChild, Source: "I_1", Target: "I_404",
	})

	check := checkByName(t, v.Validate(doc), "edge_endpoints_exist")
	if check.Passed {
		t.Error("expected dangling edge target to fail")
	}
	if !strings.Contains(check.Detail, "I_404") {
		t.Errorf("expected detail to name the missing endpoint, got %q", check.Detail)
	}
}

func TestValidator_EdgeWithoutMention(t *testing.T) {
	v := NewValidator()

	doc := healthyDocument()
	// A second spouse edge with no matching mention breaks the two-way invariant
	doc.Relationships = append(doc.Relationships, model.Relationship{
		Type: model.RelationSpouse, Source: "I_2", Target: "I_1",
	})

	check := checkByName(t, v.Validate(doc), "partner_edge_consistency")
	if check.Passed {
		t.Error("expected edge without mention to fail")
	}
}

func TestValidator_MentionWithoutEdge(t *testing.T) {
	v := NewValidator()

	doc := healthyDocument()
	doc.Relationships = nil // edges lost, mentions remain

	check := checkByName(t, v.Validate(doc), "partner_edge_consistency")
	if check.Passed {
		t.Error("expected mention without edge to fail")
	}
}

func TestValidator_EmptyDocument(t *testing.T) {
	v := NewValidator()

	checks := v.Validate(model.NewDocument("test", "test"))

	if len(checks) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(checks))
	}
	for _, c := range checks {
		if !c.Passed {
			t.Errorf("expected check %s to pass on empty document, detail: %s", c.Name, c.Detail)
		}
	}
}

func TestValidator_DetailTruncated(t *testing.T) {
	v := NewValidator()

	doc := model.NewDocument("test", "test")
	for i := 0; i < 10; i++ {
		doc.Individuals = append(doc.Individuals, &model.Individual{ID: "", Name: "X"})
	}

	check := checkByName(t, v.Validate(doc), "unique_identifiers")
	if check.Passed {
		t.Fatal("expected failures")
	}
	if !strings.Contains(check.Detail, "and 5 more") {
		t.Errorf("expected truncated detail, got %q", check.Detail)
	}
}

func TestValidator_Deterministic(t *testing.T) {
	v := NewValidator()

	build := func() *model.Document {
		doc := model.NewDocument("test", "test")
		doc.Add(&model.Individual{
			ID:      "I_1",
			Name:    "Pierre",
			Spouses: []*model.Spouse{{Name: "A", PartnerID: "I_9"}, {Name: "B", PartnerID: "I_8"}},
		})
		doc.Add(&model.Individual{
			ID:      "I_2",
			Name:    "Jean",
			Spouses: []*model.Spouse{{Name: "C", PartnerID: "I_7"}},
		})
		return doc
	}

	first := v.Validate(build())
	second := v.Validate(build())

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("check %d differs across runs:\n%+v\nvs\n%+v", i, first[i], second[i])
		}
	}
}
