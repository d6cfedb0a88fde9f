package services

import (
	"errors"
	"testing"

	"mirbel/bel"
	"mirbel/providers"
)

// populateSample loads two miRNAs and two targets: CXCR4 (entrez 7852,
// HGNC cross-referenced, two evidences) and STAT3 (entrez 6774, no
// cross-reference, one evidence).
func populateSample(t *testing.T, m *Manager) {
	t.Helper()

	second := exampleRow()
	second.Index = 1
	second.Experiment = "Western blot"
	second.Reference = "12345678"

	third := providers.Row{
		Index:         2,
		MirtarbaseID:  "MIRT000433",
		MirnaName:     "hsa-miR-20a-5p",
		MirnaSpecies:  "Homo sapiens",
		GeneSymbol:    "STAT3",
		EntrezID:      "6774",
		TargetSpecies: "Homo sapiens",
		Experiment:    "qRT-PCR",
		SupportType:   "Functional MTI (Weak)",
		Reference:     "23456789",
	}

	mustPopulate(t, m, exampleRow(), second, third)
}

func rnaNode(namespace, name, identifier string) bel.Node {
	return bel.Node{
		Function:   bel.FunctionRNA,
		Namespace:  namespace,
		Name:       name,
		Identifier: identifier,
	}
}

func TestEnrichRNAsByHgncID(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	node := rnaNode("HGNC", "", "HGNC:2561")
	graph.AddNode(node)

	report, err := m.EnrichRNAs(graph)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if report.EdgesAdded != 2 {
		t.Fatalf("expected 2 edges for CXCR4, got %d", report.EdgesAdded)
	}

	edges := graph.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 graph edges, got %d", len(edges))
	}
	for _, edge := range edges {
		if edge.Relation != bel.RelationDirectlyDecreases {
			t.Fatalf("unexpected relation %q", edge.Relation)
		}
		if edge.Target != node {
			t.Fatalf("edge must point at the original node, got %+v", edge.Target)
		}
		if edge.Source.Name != "mmu-miR-124-3p" || edge.Source.Function != bel.FunctionMirna {
			t.Fatalf("unexpected edge source %+v", edge.Source)
		}
	}

	citations := map[string]bool{}
	for _, edge := range edges {
		citations[edge.Citation] = true
	}
	if !citations["18619591"] || !citations["12345678"] {
		t.Fatalf("expected both evidence citations, got %v", citations)
	}
}

func TestEnrichRNAsByHgncSymbol(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("hgnc", "CXCR4", "")) // namespace matching is case-insensitive

	report, err := m.EnrichRNAs(graph)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if report.EdgesAdded != 2 {
		t.Fatalf("expected 2 edges, got %d", report.EdgesAdded)
	}
}

func TestEnrichRNAsByEntrezID(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("ENTREZ", "STAT3", "6774"))

	report, err := m.EnrichRNAs(graph)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if report.EdgesAdded != 1 {
		t.Fatalf("expected 1 edge for STAT3, got %d", report.EdgesAdded)
	}
	edge := graph.Edges()[0]
	if edge.Citation != "23456789" {
		t.Fatalf("unexpected citation %q", edge.Citation)
	}
	if edge.Annotations["Experiment"] != "qRT-PCR" || edge.Annotations["SupportType"] != "Functional MTI (Weak)" {
		t.Fatalf("unexpected annotations %v", edge.Annotations)
	}
}

func TestEnrichRNAsEntrezNameFallback(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	// No identifier at all; the numeric id travels in the name slot.
	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("EGID", "6774", ""))

	report, err := m.EnrichRNAs(graph)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if report.EdgesAdded != 1 {
		t.Fatalf("expected the name fallback to resolve, got %d edges", report.EdgesAdded)
	}
}

func TestEnrichRNAsUnknownNamespaceSkipped(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("ENSEMBL", "ENSG00000121966", ""))

	report, err := m.EnrichRNAs(graph)
	if err != nil {
		t.Fatalf("unknown namespace must not error: %v", err)
	}
	if report.SkippedUnknownNamespace != 1 || report.EdgesAdded != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestEnrichRNAsUnmatchedSkipped(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("HGNC", "TP53", ""))

	report, err := m.EnrichRNAs(graph)
	if err != nil {
		t.Fatalf("unmatched node must not error: %v", err)
	}
	if report.SkippedUnmatched != 1 || report.EdgesAdded != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Unresolved) != 1 {
		t.Fatalf("expected one unresolved node, got %v", report.Unresolved)
	}
}

func TestEnrichRNAsNoUsableIdentifierIsFatal(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("HGNC", "", ""))

	_, err := m.EnrichRNAs(graph)
	if !errors.Is(err, ErrNoUsableIdentifier) {
		t.Fatalf("expected ErrNoUsableIdentifier, got %v", err)
	}
}

func TestEnrichRNAsIsAdditive(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(rnaNode("HGNC", "", "HGNC:2561"))

	if _, err := m.EnrichRNAs(graph); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if _, err := m.EnrichRNAs(graph); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	// No deduplication at this layer; idempotence is the caller's job.
	if graph.EdgeCount() != 4 {
		t.Fatalf("expected 4 edges after two passes, got %d", graph.EdgeCount())
	}
}

func TestEnrichMirnas(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(bel.Node{
		Function:  bel.FunctionMirna,
		Namespace: "mirtarbase",
		Name:      "mmu-miR-124-3p",
	})

	report, err := m.EnrichMirnas(graph)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if report.EdgesAdded != 2 {
		t.Fatalf("expected 2 edges, got %d", report.EdgesAdded)
	}
	for _, edge := range graph.Edges() {
		// CXCR4 has a cross-reference, so the target node renders under HGNC.
		if edge.Target.Namespace != "HGNC" || edge.Target.Name != "CXCR4" {
			t.Fatalf("unexpected target node %+v", edge.Target)
		}
	}
}

func TestEnrichMirnasNamelessNodeIsFatal(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(bel.Node{
		Function:   bel.FunctionMirna,
		Namespace:  "mirtarbase",
		Identifier: "MIRT000005",
	})

	_, err := m.EnrichMirnas(graph)
	if !errors.Is(err, ErrNoUsableIdentifier) {
		t.Fatalf("expected ErrNoUsableIdentifier, got %v", err)
	}
}

func TestEnrichMirnasUnimplementedNamespaceSkipped(t *testing.T) {
	m := newTestManager(t)
	populateSample(t, m)

	graph := bel.NewGraph("test", "0.0.0")
	graph.AddNode(bel.Node{
		Function:  bel.FunctionMirna,
		Namespace: "mirbase",
		Name:      "MIMAT0000422",
	})
	graph.AddNode(bel.Node{
		Function:  bel.FunctionMirna,
		Namespace: "SNOMED",
		Name:      "whatever",
	})

	report, err := m.EnrichMirnas(graph)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if report.SkippedUnimplemented != 1 || report.SkippedUnknownNamespace != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.EdgesAdded != 0 {
		t.Fatalf("expected no edges, got %d", report.EdgesAdded)
	}
}
