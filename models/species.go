package models

// Species is an organism a miRNA or target gene belongs to. Created once
// during population and immutable afterwards.
type Species struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"` // e.g. "Homo sapiens"
}

// TableName sets the explicit table name for GORM.
func (Species) TableName() string {
	return "species"
}
