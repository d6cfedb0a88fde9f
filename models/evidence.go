package models

import "mirbel/bel"

// Evidence is one experimental support record for an Interaction. Every
// source row produces exactly one Evidence; an Interaction always owns at
// least one.
type Evidence struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Experiment string `json:"experiment" gorm:"type:text"` // assay/method free text
	Support    string `json:"support"`                     // support-call category, e.g. "Functional MTI"
	Reference  string `json:"reference" gorm:"index"`      // literature identifier (PubMed)

	InteractionID uint        `json:"interaction_id" gorm:"index;not null"`
	Interaction   Interaction `json:"interaction,omitempty"`
}

// TableName sets the explicit table name for GORM.
func (Evidence) TableName() string {
	return "evidences"
}

// AddToGraph emits this evidence as one inhibition edge from the owning
// interaction's miRNA node to its target node. The Interaction with its
// Mirna and Target must be loaded.
func (e *Evidence) AddToGraph(graph *bel.Graph) {
	graph.AddQualifiedEdge(
		e.Interaction.Mirna.AsBEL(),
		e.Interaction.Target.AsBEL(),
		bel.RelationDirectlyDecreases,
		e.Support,
		e.Reference,
		map[string]string{
			"Experiment":  e.Experiment,
			"SupportType": e.Support,
		},
	)
}
