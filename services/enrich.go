package services

import (
	"fmt"

	"go.uber.org/zap"

	"mirbel/bel"
	"mirbel/models"
)

// EnrichReport describes the outcome of one enrichment pass so that
// callers and tests can assert on results instead of log output.
type EnrichReport struct {
	EdgesAdded              int      `json:"edges_added"`
	SkippedUnknownNamespace int      `json:"skipped_unknown_namespace"`
	SkippedUnimplemented    int      `json:"skipped_unimplemented"`
	SkippedUnmatched        int      `json:"skipped_unmatched"`
	Unresolved              []string `json:"unresolved,omitempty"`
}

// EnrichRNAs adds all known miRNA inhibitors of the RNA nodes in the
// graph. The graph is mutated in place; emission is purely additive and
// not deduplicated, running it twice adds every edge twice.
func (m *Manager) EnrichRNAs(graph *bel.Graph) (*EnrichReport, error) {
	log := m.Logger
	log.Debug("Enriching RNA nodes with miRNA inhibitors")

	report := &EnrichReport{}
	for _, node := range graph.Nodes() {
		if node.Function != bel.FunctionRNA || node.Namespace == "" {
			continue
		}

		var target *models.Target
		var err error
		switch ParseAuthority(node.Namespace) {
		case AuthorityHGNC:
			target, err = m.resolveTargetHGNC(node.Identifier, node.Name)
		case AuthorityEntrez:
			target, err = m.resolveTargetEntrez(node.Identifier, node.Name)
		default:
			log.Warn("Unable to map namespace", zap.String("namespace", node.Namespace))
			report.SkippedUnknownNamespace++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", node.String(), err)
		}
		if target == nil {
			log.Warn("Unable to find RNA",
				zap.String("namespace", node.Namespace),
				zap.String("node", node.String()))
			report.SkippedUnmatched++
			report.Unresolved = append(report.Unresolved, node.String())
			continue
		}

		var interactions []models.Interaction
		if err := m.DB.
			Preload("Mirna").
			Preload("Evidences").
			Where("target_id = ?", target.ID).
			Find(&interactions).Error; err != nil {
			return nil, fmt.Errorf("load interactions for target %s: %w", target.EntrezID, err)
		}

		for _, interaction := range interactions {
			for _, evidence := range interaction.Evidences {
				graph.AddQualifiedEdge(
					interaction.Mirna.AsBEL(),
					node,
					bel.RelationDirectlyDecreases,
					evidence.Support,
					evidence.Reference,
					map[string]string{
						"Experiment":  evidence.Experiment,
						"SupportType": evidence.Support,
					},
				)
				report.EdgesAdded++
			}
		}
	}

	log.Debug("Added miRNA-target edges", zap.Int("count", report.EdgesAdded))
	return report, nil
}

// EnrichMirnas adds all known target RNAs of the miRNA nodes in the
// graph. Only mirtarbase-namespaced miRNA nodes can be resolved; a
// mirtarbase node without a name is a hard fault because that namespace
// has no fallback identifier. miRBase/HGNC/Entrez miRNA nodes are skipped
// as unimplemented.
func (m *Manager) EnrichMirnas(graph *bel.Graph) (*EnrichReport, error) {
	log := m.Logger
	log.Debug("Enriching miRNA nodes with targets")

	report := &EnrichReport{}
	names := make([]string, 0)
	seen := make(map[string]struct{})

	for _, node := range graph.Nodes() {
		if node.Function != bel.FunctionMirna || node.Namespace == "" {
			continue
		}

		switch ParseAuthority(node.Namespace) {
		case AuthorityMirtarbase:
			if node.Name == "" {
				return nil, fmt.Errorf("mirtarbase node %s: %w", node.Key(), ErrNoUsableIdentifier)
			}
			if _, ok := seen[node.Name]; !ok {
				seen[node.Name] = struct{}{}
				names = append(names, node.Name)
			}
		case AuthorityMirbase, AuthorityHGNC, AuthorityEntrez:
			log.Debug("Not yet able to map namespace", zap.String("namespace", node.Namespace))
			report.SkippedUnimplemented++
		default:
			log.Debug("Unable to map namespace", zap.String("namespace", node.Namespace))
			report.SkippedUnknownNamespace++
		}
	}

	if len(names) == 0 {
		log.Debug("No resolvable miRNA nodes found")
		return report, nil
	}

	var evidences []models.Evidence
	if err := m.DB.
		Joins("JOIN interactions ON interactions.id = evidences.interaction_id").
		Joins("JOIN mirnas ON mirnas.id = interactions.mirna_id").
		Where("mirnas.name IN ?", names).
		Preload("Interaction.Mirna").
		Preload("Interaction.Target").
		Find(&evidences).Error; err != nil {
		return nil, fmt.Errorf("load evidences for mirnas: %w", err)
	}

	for i := range evidences {
		evidences[i].AddToGraph(graph)
		report.EdgesAdded++
	}

	log.Debug("Added miRNA-target edges", zap.Int("count", report.EdgesAdded))
	return report, nil
}
