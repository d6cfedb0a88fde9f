package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"mirbel/bel"
	"mirbel/models"
)

// Namespace resources registered in serialized graphs.
const (
	hgncNamespaceURL   = "http://resources.openbel.org/belframework/20150611/namespace/hgnc-human-genes.belns"
	entrezNamespaceURL = "http://resources.openbel.org/belframework/20150611/namespace/entrez-gene-ids.belns"
)

// ToBEL serializes the whole store into a fresh BEL graph: one edge per
// stored Evidence, in natural iteration order. Edge content is fully
// determined by each Evidence's own interaction, so ordering only affects
// insertion order, not the final graph.
func (m *Manager) ToBEL() (*bel.Graph, error) {
	graph := bel.NewGraph("miRTarBase", "1.0.0")
	graph.NamespaceURL[models.HGNCNamespace] = hgncNamespaceURL
	graph.NamespaceURL[models.EntrezNamespace] = entrezNamespaceURL
	graph.NamespacePattern[models.MirbaseNamespace] = "^.*$"

	start := time.Now()
	evidences, err := m.ListEvidences()
	if err != nil {
		return nil, fmt.Errorf("list evidences: %w", err)
	}

	for i := range evidences {
		evidences[i].AddToGraph(graph)
	}

	m.Logger.Info("Serialized store to BEL",
		zap.Int("evidences", len(evidences)),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("edges", graph.EdgeCount()),
		zap.Duration("elapsed", time.Since(start)))
	return graph, nil
}
