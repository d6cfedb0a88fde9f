package models

import "mirbel/bel"

// Namespace keywords used when rendering targets as BEL nodes.
const (
	HGNCNamespace   = "HGNC"
	EntrezNamespace = "ENTREZ"
)

// Target is a gene targeted by one or more miRNAs. It is keyed by its
// Entrez gene identifier; the HGNC fields are filled in only when the
// gene registry knows the Entrez id, and then always both of them.
type Target struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	EntrezID string `json:"entrez_id" gorm:"uniqueIndex;not null"`
	Name     string `json:"name"` // display symbol as given by the source table

	HgncSymbol *string `json:"hgnc_symbol,omitempty" gorm:"index"`
	HgncID     *string `json:"hgnc_id,omitempty" gorm:"index"`

	SpeciesID uint    `json:"species_id" gorm:"index;not null"`
	Species   Species `json:"species,omitempty"`

	Interactions []Interaction `json:"interactions,omitempty"`
}

// TableName sets the explicit table name for GORM.
func (Target) TableName() string {
	return "targets"
}

// AsBEL renders the target as an RNA node, under HGNC when the
// cross-reference is present and under Entrez otherwise.
func (t *Target) AsBEL() bel.Node {
	if t.HgncSymbol != nil && t.HgncID != nil {
		return bel.Node{
			Function:   bel.FunctionRNA,
			Namespace:  HGNCNamespace,
			Name:       *t.HgncSymbol,
			Identifier: *t.HgncID,
		}
	}
	return bel.Node{
		Function:   bel.FunctionRNA,
		Namespace:  EntrezNamespace,
		Name:       t.Name,
		Identifier: t.EntrezID,
	}
}
