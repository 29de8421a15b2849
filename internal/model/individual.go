package model

// Individual is one person's record, extracted from a single sheet of the
// chronicle. Fields that the cascade could not determine stay empty.
type Individual struct {
	ID         string     `json:"id"`                   // Stable identifier (I_, S_, AUTO_ or EXT_ namespace)
	Name       string     `json:"name"`                 // Best-effort full name, "Personne <id>" fallback
	Gender     string     `json:"gender,omitempty"`     // "M" or "F", empty when undeterminable
	Generation string     `json:"generation,omitempty"` // Ambient generation label from the segmenter
	Sosa       string     `json:"sosa,omitempty"`       // Sosa number as printed
	Birth      *LifeEvent `json:"birth,omitempty"`
	Death      *LifeEvent `json:"death,omitempty"`
	Parents    *Parents   `json:"parents,omitempty"`
	Spouses    []*Spouse  `json:"spouses,omitempty"`     // Order of appearance in the text
	Children   []string   `json:"children,omitempty"`    // Raw dotted reference tokens, e.g. "2.1"
	Annotations []string  `json:"annotations,omitempty"` // Unmatched lines, verbatim, in order
}

// LifeEvent is a dated, located fact (birth or death). Either field may be
// present on its own.
type LifeEvent struct {
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`
}

// Parents carries parent names as printed in the filiation sentence. Names
// only; resolution to identifiers is out of scope.
type Parents struct {
	Father string `json:"father,omitempty"`
	Mother string `json:"mother,omitempty"`
}

// Spouse is one marriage mention. PartnerID is empty until the resolver
// has run.
type Spouse struct {
	Name          string `json:"name"`
	MarriageDate  string `json:"marriage_date,omitempty"`
	MarriagePlace string `json:"marriage_place,omitempty"`
	PartnerID     string `json:"partner_id,omitempty"`
	Note          string `json:"note,omitempty"` // Originating line, kept for audit
}

// RelationType classifies a relationship edge
type RelationType string

const (
	RelationSpouse      RelationType = "spouse"
	RelationParentChild RelationType = "parent-child"
)

// Relationship is a directed edge from the individual that mentioned the
// fact to the referenced party. No inverse edge is ever synthesized.
type Relationship struct {
	Type    RelationType `json:"type"`
	Source  string       `json:"source"`
	Target  string       `json:"target"`
	Context string       `json:"context,omitempty"` // Originating sentence or "listed child"
}
