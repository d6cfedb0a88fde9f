package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mirbel/config"
	"mirbel/providers"
)

var (
	// ErrAlreadyPopulated is returned when a population run is requested
	// against a store that already holds data.
	ErrAlreadyPopulated = errors.New("database is already populated")

	// ErrNoUsableIdentifier is returned when a graph node under a
	// recognized namespace carries neither an identifier nor a name.
	ErrNoUsableIdentifier = errors.New("node carries neither identifier nor name")

	// ErrNotImplemented marks query paths the upstream data cannot serve.
	ErrNotImplemented = errors.New("not implemented")
)

// Manager owns the miRTarBase store and all operations on it: population,
// queries, graph enrichment and full BEL serialization.
type Manager struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *zap.Logger
	Registry providers.GeneRegistry

	// entrezMap caches the gene cross-reference between population runs;
	// Populate rebuilds it on demand.
	entrezMap map[string]GeneXref
}

// NewManager creates a new manager instance.
func NewManager(cfg *config.Config, db *gorm.DB, logger *zap.Logger, registry providers.GeneRegistry) *Manager {
	return &Manager{
		Config:   cfg,
		DB:       db,
		Logger:   logger,
		Registry: registry,
	}
}

// IsPopulated reports whether the store already holds data. Callers must
// check this before Populate; population is not idempotent.
func (m *Manager) IsPopulated() (bool, error) {
	count, err := m.CountMirnas()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
