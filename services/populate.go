package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mirbel/models"
	"mirbel/providers"
)

// PopulateReport summarizes one ingestion run.
type PopulateReport struct {
	Rows         int `json:"rows"`
	Species      int `json:"species"`
	Mirnas       int `json:"mirnas"`
	Targets      int `json:"targets"`
	Interactions int `json:"interactions"`
	Evidences    int `json:"evidences"`
}

// interactionKey collapses source rows for the same miRNA/gene pair into
// one Interaction, regardless of differing miRTarBase id spellings.
type interactionKey struct {
	mirnaName string
	entrezID  string
}

// parseEntrezID coerces the raw Entrez field to an integer and
// re-stringifies it. Excel exports render the column as a float
// ("7852.0"), so integral floats are accepted; anything else is fatal to
// the whole run.
func parseEntrezID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(v, 10), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("entrez id %q is not an integer", raw)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("entrez id %q is not an integer", raw)
	}
	return strconv.FormatInt(int64(f), 10), nil
}

// Populate ingests all rows of the source into the store as one
// transaction. Any failure before the commit point rolls the whole run
// back; there is no partial success. updateHGNC forces a rebuild of the
// Entrez cross-reference map even when a cached one exists.
func (m *Manager) Populate(ctx context.Context, source providers.RowSource, updateHGNC bool) (*PopulateReport, error) {
	log := m.Logger.With(zap.String("source", source.Name()))

	if m.entrezMap == nil || updateHGNC {
		emap, err := buildEntrezMap(m.Registry, log)
		if err != nil {
			return nil, err
		}
		m.entrezMap = emap
	}

	start := time.Now()
	rows, err := source.Rows()
	if err != nil {
		return nil, err
	}
	log.Info("Got source rows", zap.Int("rows", len(rows)), zap.Duration("elapsed", time.Since(start)))

	report := &PopulateReport{Rows: len(rows)}

	start = time.Now()
	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		speciesCache := newCache[string, *models.Species]()
		mirnaCache := newCache[string, *models.Mirna]()
		targetCache := newCache[string, *models.Target]()
		interactionCache := newCache[interactionKey, *models.Interaction]()

		resolveSpecies := func(name string) (*models.Species, error) {
			species, created, err := speciesCache.getOrCreate(name, func() (*models.Species, error) {
				species := &models.Species{Name: name}
				if err := tx.Create(species).Error; err != nil {
					return nil, fmt.Errorf("create species %q: %w", name, err)
				}
				return species, nil
			})
			if created {
				report.Species++
			}
			return species, err
		}

		for _, row := range rows {
			entrezID, err := parseEntrezID(row.EntrezID)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Index, err)
			}

			key := interactionKey{mirnaName: row.MirnaName, entrezID: entrezID}
			interaction, created, err := interactionCache.getOrCreate(key, func() (*models.Interaction, error) {
				mirna, created, err := mirnaCache.getOrCreate(row.MirnaName, func() (*models.Mirna, error) {
					species, err := resolveSpecies(row.MirnaSpecies)
					if err != nil {
						return nil, err
					}
					mirna := &models.Mirna{Name: row.MirnaName, SpeciesID: species.ID}
					if err := tx.Create(mirna).Error; err != nil {
						return nil, fmt.Errorf("create mirna %q: %w", row.MirnaName, err)
					}
					return mirna, nil
				})
				if err != nil {
					return nil, err
				}
				if created {
					report.Mirnas++
				}

				target, created, err := targetCache.getOrCreate(entrezID, func() (*models.Target, error) {
					species, err := resolveSpecies(row.TargetSpecies)
					if err != nil {
						return nil, err
					}
					target := &models.Target{
						EntrezID:  entrezID,
						Name:      row.GeneSymbol,
						SpeciesID: species.ID,
					}
					if xref, ok := m.entrezMap[entrezID]; ok {
						symbol, hgncID := xref.Symbol, xref.HgncID
						target.HgncSymbol = &symbol
						target.HgncID = &hgncID
					}
					if err := tx.Create(target).Error; err != nil {
						return nil, fmt.Errorf("create target %q: %w", entrezID, err)
					}
					return target, nil
				})
				if err != nil {
					return nil, err
				}
				if created {
					report.Targets++
				}

				interaction := &models.Interaction{
					MirtarbaseID: row.MirtarbaseID,
					MirnaID:      mirna.ID,
					TargetID:     target.ID,
				}
				if err := tx.Create(interaction).Error; err != nil {
					return nil, fmt.Errorf("create interaction %q: %w", row.MirtarbaseID, err)
				}
				return interaction, nil
			})
			if err != nil {
				return err
			}
			if created {
				report.Interactions++
			}

			// One Evidence per source row, always.
			evidence := &models.Evidence{
				Experiment:    row.Experiment,
				Support:       row.SupportType,
				Reference:     row.Reference,
				InteractionID: interaction.ID,
			}
			if err := tx.Create(evidence).Error; err != nil {
				return fmt.Errorf("row %d: create evidence: %w", row.Index, err)
			}
			report.Evidences++
		}

		log.Info("Staged entities",
			zap.Int("species", speciesCache.len()),
			zap.Int("mirnas", mirnaCache.len()),
			zap.Int("targets", targetCache.len()),
			zap.Int("interactions", interactionCache.len()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Committed population run",
		zap.Int("evidences", report.Evidences),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}
