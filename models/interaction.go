package models

// Interaction is one validated (miRNA, target gene) pairing, independent
// of how many experiments support it. The pair is the real key: the
// source table occasionally reuses different miRTarBase ids for the same
// pair, so MirtarbaseID keeps whatever the first row for the pair said.
type Interaction struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	MirtarbaseID string `json:"mirtarbase_id" gorm:"index;not null"` // e.g. "MIRT000005"

	MirnaID uint  `json:"mirna_id" gorm:"index:idx_interactions_pair,unique;not null"`
	Mirna   Mirna `json:"mirna,omitempty"`

	TargetID uint   `json:"target_id" gorm:"index:idx_interactions_pair,unique;not null"`
	Target   Target `json:"target,omitempty"`

	Evidences []Evidence `json:"evidences,omitempty"`
}

// TableName sets the explicit table name for GORM.
func (Interaction) TableName() string {
	return "interactions"
}
