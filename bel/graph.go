package bel

import (
	"encoding/json"
	"fmt"
)

// Function is the BEL function of a node (the kind of biological entity).
type Function string

const (
	FunctionRNA   Function = "RNA"
	FunctionMirna Function = "miRNA"
)

// RelationDirectlyDecreases is the BEL relation for a direct inhibition.
const RelationDirectlyDecreases = "directlyDecreases"

// Node identifies an entity in a BEL graph by function, namespace and a
// symbol and/or identifier under that namespace.
type Node struct {
	Function   Function `json:"function"`
	Namespace  string   `json:"namespace,omitempty"`
	Name       string   `json:"name,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
}

// Key returns the canonical string key under which the node is stored.
func (n Node) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", n.Function, n.Namespace, n.Name, n.Identifier)
}

// String renders the node in BEL-like notation, preferring the name over
// the identifier as display label.
func (n Node) String() string {
	label := n.Name
	if label == "" {
		label = n.Identifier
	}
	return fmt.Sprintf("%s(%s:%s)", n.Function, n.Namespace, label)
}

// Edge is a directed, qualified relation between two nodes with
// experimental provenance attached.
type Edge struct {
	Source      Node              `json:"source"`
	Target      Node              `json:"target"`
	Relation    string            `json:"relation"`
	Evidence    string            `json:"evidence,omitempty"`
	Citation    string            `json:"citation,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Graph is an in-memory BEL-style knowledge graph. Nodes are kept unique
// by Node.Key in insertion order; edges are a plain list, adding the same
// qualified edge twice stores it twice.
type Graph struct {
	Name    string
	Version string

	// Namespace registrations carried in the graph header.
	NamespaceURL     map[string]string
	NamespacePattern map[string]string

	nodes map[string]Node
	order []string
	edges []Edge
}

// NewGraph creates an empty graph with the given metadata.
func NewGraph(name, version string) *Graph {
	return &Graph{
		Name:             name,
		Version:          version,
		NamespaceURL:     make(map[string]string),
		NamespacePattern: make(map[string]string),
		nodes:            make(map[string]Node),
	}
}

// AddNode inserts the node if it is not present yet.
func (g *Graph) AddNode(n Node) {
	key := n.Key()
	if _, ok := g.nodes[key]; ok {
		return
	}
	g.nodes[key] = n
	g.order = append(g.order, key)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.nodes[key])
	}
	return out
}

// AddQualifiedEdge adds a directed edge between source and target,
// inserting both endpoints if needed. No edge deduplication happens here;
// callers that need idempotence must guard themselves.
func (g *Graph) AddQualifiedEdge(source, target Node, relation, evidence, citation string, annotations map[string]string) {
	g.AddNode(source)
	g.AddNode(target)
	g.edges = append(g.edges, Edge{
		Source:      source,
		Target:      target,
		Relation:    relation,
		Evidence:    evidence,
		Citation:    citation,
		Annotations: annotations,
	})
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// graphJSON is the wire form of a Graph.
type graphJSON struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	NamespaceURL     map[string]string `json:"namespace_url,omitempty"`
	NamespacePattern map[string]string `json:"namespace_pattern,omitempty"`
	Nodes            []Node            `json:"nodes"`
	Edges            []Edge            `json:"edges"`
}

// MarshalJSON serializes the graph as node and edge lists.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{
		Name:             g.Name,
		Version:          g.Version,
		NamespaceURL:     g.NamespaceURL,
		NamespacePattern: g.NamespacePattern,
		Nodes:            g.Nodes(),
		Edges:            g.edges,
	})
}

// UnmarshalJSON rebuilds the graph from its wire form.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var wire graphJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.Name = wire.Name
	g.Version = wire.Version
	g.NamespaceURL = wire.NamespaceURL
	if g.NamespaceURL == nil {
		g.NamespaceURL = make(map[string]string)
	}
	g.NamespacePattern = wire.NamespacePattern
	if g.NamespacePattern == nil {
		g.NamespacePattern = make(map[string]string)
	}
	g.nodes = make(map[string]Node)
	g.order = nil
	g.edges = nil
	for _, n := range wire.Nodes {
		g.AddNode(n)
	}
	for _, e := range wire.Edges {
		g.AddQualifiedEdge(e.Source, e.Target, e.Relation, e.Evidence, e.Citation, e.Annotations)
	}
	return nil
}
