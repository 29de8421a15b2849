package validate

import (
	"fmt"
	"strings"

	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

// Validator checks the resolved graph against its structural invariants.
// Failures are reported, never raised: a chronicle that parses poorly is
// still a valid parse.
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs all graph checks in a fixed order and returns one result
// per check.
func (v *Validator) Validate(doc *model.Document) []model.CheckResult {
	return []model.CheckResult{
		v.checkUniqueIdentifiers(doc),
		v.checkPartnersResolved(doc),
		v.checkNoSelfLoops(doc),
		v.checkEdgeEndpoints(doc),
		v.checkPartnerEdgeConsistency(doc),
	}
}

// checkUniqueIdentifiers verifies every individual carries a non-empty,
// unseen identifier.
func (v *Validator) checkUniqueIdentifiers(doc *model.Document) model.CheckResult {
	seen := make(map[string]bool)
	var violations []string

	for _, ind := range doc.Individuals {
		if ind.ID == "" {
			violations = append(violations, fmt.Sprintf("empty identifier (name %q)", ind.Name))
			continue
		}
		if seen[ind.ID] {
			violations = append(violations, "duplicate identifier "+ind.ID)
		}
		seen[ind.ID] = true
	}

	return result("unique_identifiers", violations)
}

// checkPartnersResolved verifies every spouse mention ends with a partner
// identifier that exists in the collection.
func (v *Validator) checkPartnersResolved(doc *model.Document) model.CheckResult {
	var violations []string

	for _, ind := range doc.Individuals {
		for _, spouse := range ind.Spouses {
			if spouse.PartnerID == "" {
				violations = append(violations, fmt.Sprintf("%s: mention of %q has no partner id", ind.ID, spouse.Name))
				continue
			}
			if !doc.Has(spouse.PartnerID) {
				violations = append(violations, fmt.Sprintf("%s: partner %s not in collection", ind.ID, spouse.PartnerID))
			}
		}
	}

	return result("spouse_partners_resolved", violations)
}

func (v *Validator) checkNoSelfLoops(doc *model.Document) model.CheckResult {
	var violations []string

	for _, rel := range doc.Relationships {
		if rel.Type == model.RelationSpouse && rel.Source == rel.Target {
			violations = append(violations, "self-loop on "+rel.Source)
		}
	}

	return result("no_spouse_self_loops", violations)
}

func (v *Validator) checkEdgeEndpoints(doc *model.Document) model.CheckResult {
	var violations []string

	for _, rel := range doc.Relationships {
		if !doc.Has(rel.Source) {
			violations = append(violations, fmt.Sprintf("%s edge from unknown %s", rel.Type, rel.Source))
		}
		if !doc.Has(rel.Target) {
			violations = append(violations, fmt.Sprintf("%s edge to unknown %s", rel.Type, rel.Target))
		}
	}

	return result("edge_endpoints_exist", violations)
}

// checkPartnerEdgeConsistency verifies the two-way invariant: a partner id
// is set if and only if a spouse edge with the same source and target was
// emitted.
func (v *Validator) checkPartnerEdgeConsistency(doc *model.Document) model.CheckResult {
	mentions := make(map[string]int)
	for _, ind := range doc.Individuals {
		for _, spouse := range ind.Spouses {
			if spouse.PartnerID != "" {
				mentions[ind.ID+"\x00"+spouse.PartnerID]++
			}
		}
	}

	var violations []string
	edges := make(map[string]int)
	for _, rel := range doc.Relationships {
		if rel.Type != model.RelationSpouse {
			continue
		}
		key := rel.Source + "\x00" + rel.Target
		edges[key]++
		if edges[key] > mentions[key] {
			violations = append(violations, fmt.Sprintf("%s -> %s: edge without mention", rel.Source, rel.Target))
		}
	}
	for _, ind := range doc.Individuals {
		for _, spouse := range ind.Spouses {
			if spouse.PartnerID == "" {
				continue // reported by spouse_partners_resolved
			}
			key := ind.ID + "\x00" + spouse.PartnerID
			if edges[key] < mentions[key] {
				violations = append(violations, fmt.Sprintf("%s: partner %s has no matching edge", ind.ID, spouse.PartnerID))
			}
		}
	}

	return result("partner_edge_consistency", violations)
}

func result(name string, violations []string) model.CheckResult {
	if len(violations) == 0 {
		return model.CheckResult{Name: name, Passed: true}
	}
	detail := strings.Join(violations, "; ")
	if len(violations) > 5 {
		detail = strings.Join(violations[:5], "; ") + fmt.Sprintf(" (and %d more)", len(violations)-5)
	}
	return model.CheckResult{Name: name, Passed: false, Detail: detail}
}
