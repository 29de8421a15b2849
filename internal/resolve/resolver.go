package resolve

import (
	"github.com/JeanHerbaut/HerbautArbre/internal/extract"
	"github.com/JeanHerbaut/HerbautArbre/internal/model"
)

// Resolver turns the spoken references of each individual (spouse names,
// child tokens) into directed relationship edges. Spouses that match no
// existing entry become synthetic EXT_ stubs registered in the document.
type Resolver struct{}

// NewResolver creates a new resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve builds the relationship list for the document. It mutates the
// document only by filling spouse PartnerIDs and appending stub
// individuals; existing records are never rewritten. All spouse edges are
// emitted before any child edge, each pass in insertion order.
func (r *Resolver) Resolve(doc *model.Document) []model.Relationship {
	// Name index: slug -> identifiers, bucket order = insertion order.
	index := make(map[string][]string)
	for _, ind := range doc.Individuals {
		slug := Slugify(ind.Name)
		index[slug] = append(index[slug], ind.ID)
	}

	// Iterate over a stable snapshot; stubs go into an accumulator and are
	// merged afterward so the scan never observes its own insertions.
	snapshot := append([]*model.Individual(nil), doc.Individuals...)
	var stubs []*model.Individual
	stubSeen := make(map[string]bool)
	var relationships []model.Relationship

	for _, person := range snapshot {
		for _, spouse := range person.Spouses {
			slug := Slugify(spouse.Name)

			partnerID := ""
			for _, candidate := range index[slug] {
				if candidate != person.ID { // same-name households, no self-loops
					partnerID = candidate
					break
				}
			}

			if partnerID == "" {
				partnerID = "EXT_" + slug
				if !doc.Has(partnerID) && !stubSeen[partnerID] {
					stub := &model.Individual{
						ID:   partnerID,
						Name: spouse.Name,
					}
					if spouse.Note != "" {
						stub.Annotations = []string{spouse.Note}
					}
					stubs = append(stubs, stub)
					stubSeen[partnerID] = true
				}
			}

			spouse.PartnerID = partnerID
			relationships = append(relationships, model.Relationship{
				Type:    model.RelationSpouse,
				Source:  person.ID,
				Target:  partnerID,
				Context: spouse.Note,
			})
		}
	}

	for _, stub := range stubs {
		doc.Add(stub)
	}

	for _, person := range snapshot {
		for _, ref := range person.Children {
			childID := extract.ChildIdentifier(ref)
			if !doc.Has(childID) {
				continue // unresolvable references are dropped, never errors
			}
			relationships = append(relationships, model.Relationship{
				Type:    model.RelationParentChild,
				Source:  person.ID,
				Target:  childID,
				Context: "listed child",
			})
		}
	}

	doc.Relationships = relationships
	return relationships
}
