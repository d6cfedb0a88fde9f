package models

import "mirbel/bel"

// MirtarbaseNamespace is the namespace keyword under which miRNA nodes are
// emitted. miRTarBase names miRNAs itself, there is no stable external
// identifier to fall back to.
const MirtarbaseNamespace = "mirtarbase"

// MirbaseNamespace is registered as a pattern namespace in serialized
// graphs; miRBase-based miRNA lookup itself is not implemented yet.
const MirbaseNamespace = "mirbase"

// Mirna is a microRNA as named by miRTarBase.
type Mirna struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"` // e.g. "mmu-miR-124-3p"

	SpeciesID uint    `json:"species_id" gorm:"index;not null"`
	Species   Species `json:"species,omitempty"`

	Interactions []Interaction `json:"interactions,omitempty"`
}

// TableName sets the explicit table name for GORM.
func (Mirna) TableName() string {
	return "mirnas"
}

// AsBEL renders the miRNA as a BEL graph node.
func (m *Mirna) AsBEL() bel.Node {
	return bel.Node{
		Function:  bel.FunctionMirna,
		Namespace: MirtarbaseNamespace,
		Name:      m.Name,
	}
}
