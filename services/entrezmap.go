package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"mirbel/providers"
)

// GeneXref is the optional secondary naming attached to a Target when the
// Entrez and HGNC authorities can be reconciled. Both fields are always
// set together.
type GeneXref struct {
	Symbol string
	HgncID string
}

// buildEntrezMap builds the Entrez id -> HGNC cross-reference from the
// gene registry. Registry entries without an Entrez id are skipped. The
// map is read-only after construction; a missing key means "no
// cross-reference available" and is not an error.
func buildEntrezMap(registry providers.GeneRegistry, logger *zap.Logger) (map[string]GeneXref, error) {
	logger.Info("Building Entrez cross-reference map")
	start := time.Now()

	genes, err := registry.Genes()
	if err != nil {
		return nil, fmt.Errorf("load gene registry: %w", err)
	}

	emap := make(map[string]GeneXref)
	for _, gene := range genes {
		if gene.EntrezID == "" {
			continue
		}
		emap[gene.EntrezID] = GeneXref{
			Symbol: gene.Symbol,
			HgncID: gene.HgncID,
		}
	}

	logger.Info("Built Entrez cross-reference map",
		zap.Int("entries", len(emap)),
		zap.Duration("elapsed", time.Since(start)))
	return emap, nil
}
