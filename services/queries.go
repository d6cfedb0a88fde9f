package services

import (
	"errors"

	"gorm.io/gorm"

	"mirbel/models"
)

func (m *Manager) countModel(model interface{}) (int64, error) {
	var count int64
	err := m.DB.Model(model).Count(&count).Error
	return count, err
}

// CountSpecies counts the species in the database.
func (m *Manager) CountSpecies() (int64, error) {
	return m.countModel(&models.Species{})
}

// CountMirnas counts the miRNAs in the database.
func (m *Manager) CountMirnas() (int64, error) {
	return m.countModel(&models.Mirna{})
}

// CountTargets counts the targets in the database.
func (m *Manager) CountTargets() (int64, error) {
	return m.countModel(&models.Target{})
}

// CountInteractions counts the interactions in the database.
func (m *Manager) CountInteractions() (int64, error) {
	return m.countModel(&models.Interaction{})
}

// CountEvidences counts the evidences in the database.
func (m *Manager) CountEvidences() (int64, error) {
	return m.countModel(&models.Evidence{})
}

// ListEvidences returns every evidence with its interaction, miRNA and
// target loaded, ready for BEL emission.
func (m *Manager) ListEvidences() ([]models.Evidence, error) {
	var evidences []models.Evidence
	err := m.DB.
		Preload("Interaction.Mirna").
		Preload("Interaction.Target").
		Find(&evidences).Error
	return evidences, err
}

// Summarize returns entity counts over the content of the database.
func (m *Manager) Summarize() (map[string]int64, error) {
	summary := make(map[string]int64, 5)
	for name, count := range map[string]func() (int64, error){
		"species":      m.CountSpecies,
		"mirnas":       m.CountMirnas,
		"targets":      m.CountTargets,
		"interactions": m.CountInteractions,
		"evidences":    m.CountEvidences,
	} {
		n, err := count()
		if err != nil {
			return nil, err
		}
		summary[name] = n
	}
	return summary, nil
}

// first runs the query and maps gorm's not-found onto (nil, nil).
func first[T any](query *gorm.DB) (*T, error) {
	var out T
	if err := query.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// QueryMirnaByName gets a miRNA by its miRTarBase name.
func (m *Manager) QueryMirnaByName(name string) (*models.Mirna, error) {
	return first[models.Mirna](m.DB.Where("name = ?", name))
}

// QueryMirnaByMirtarbaseID gets the miRNA of the interaction with the
// given miRTarBase interaction identifier.
func (m *Manager) QueryMirnaByMirtarbaseID(mirtarbaseID string) (*models.Mirna, error) {
	interaction, err := first[models.Interaction](m.DB.Preload("Mirna").Where("mirtarbase_id = ?", mirtarbaseID))
	if err != nil || interaction == nil {
		return nil, err
	}
	return &interaction.Mirna, nil
}

// QueryMirnaByHgncID is not implemented: miRTarBase does not carry HGNC
// identifiers for miRNAs.
func (m *Manager) QueryMirnaByHgncID(hgncID string) (*models.Mirna, error) {
	return nil, ErrNotImplemented
}

// QueryMirnaByHgncSymbol is not implemented: miRTarBase does not carry
// HGNC symbols for miRNAs.
func (m *Manager) QueryMirnaByHgncSymbol(hgncSymbol string) (*models.Mirna, error) {
	return nil, ErrNotImplemented
}

// QueryTargetByEntrezID gets a target by its Entrez gene identifier.
func (m *Manager) QueryTargetByEntrezID(entrezID string) (*models.Target, error) {
	return first[models.Target](m.DB.Where("entrez_id = ?", entrezID))
}

// QueryTargetByHgncSymbol gets a target by its HGNC gene symbol.
func (m *Manager) QueryTargetByHgncSymbol(hgncSymbol string) (*models.Target, error) {
	return first[models.Target](m.DB.Where("hgnc_symbol = ?", hgncSymbol))
}

// QueryTargetByHgncID gets a target by its HGNC gene identifier.
func (m *Manager) QueryTargetByHgncID(hgncID string) (*models.Target, error) {
	return first[models.Target](m.DB.Where("hgnc_id = ?", hgncID))
}
