package services

import (
	"strings"

	"mirbel/models"
)

// Authority is a recognized naming authority for graph nodes. Matching is
// a closed set; anything not in the alias table is AuthorityUnknown and
// gets skipped, not errored.
type Authority int

const (
	AuthorityUnknown Authority = iota
	AuthorityHGNC
	AuthorityEntrez
	AuthorityMirtarbase
	AuthorityMirbase
)

// authorityAliases holds every namespace spelling the resolver accepts,
// case-folded, in one auditable place.
var authorityAliases = map[string]Authority{
	"hgnc":       AuthorityHGNC,
	"egid":       AuthorityEntrez,
	"eg":         AuthorityEntrez,
	"entrez":     AuthorityEntrez,
	"ncbigene":   AuthorityEntrez,
	"ncbi gene":  AuthorityEntrez,
	"mirtarbase": AuthorityMirtarbase,
	"mirbase":    AuthorityMirbase,
}

// ParseAuthority maps a node's namespace string onto an Authority.
func ParseAuthority(namespace string) Authority {
	authority, ok := authorityAliases[strings.ToLower(namespace)]
	if !ok {
		return AuthorityUnknown
	}
	return authority
}

func (a Authority) String() string {
	switch a {
	case AuthorityHGNC:
		return "hgnc"
	case AuthorityEntrez:
		return "entrez"
	case AuthorityMirtarbase:
		return "mirtarbase"
	case AuthorityMirbase:
		return "mirbase"
	default:
		return "unknown"
	}
}

// resolveTargetHGNC looks up a target for an HGNC-namespaced node,
// preferring the identifier over the symbol. A node with neither is a
// caller contract violation.
func (m *Manager) resolveTargetHGNC(identifier, name string) (*models.Target, error) {
	if identifier != "" {
		return m.QueryTargetByHgncID(identifier)
	}
	if name != "" {
		return m.QueryTargetByHgncSymbol(name)
	}
	return nil, ErrNoUsableIdentifier
}

// resolveTargetEntrez looks up a target for an Entrez-namespaced node.
func (m *Manager) resolveTargetEntrez(identifier, name string) (*models.Target, error) {
	if identifier != "" {
		return m.QueryTargetByEntrezID(identifier)
	}
	if name != "" {
		return m.resolveTargetByEntrezName(name)
	}
	return nil, ErrNoUsableIdentifier
}

// resolveTargetByEntrezName treats a node's name field as an Entrez id
// string. Some producers emit Entrez-namespaced nodes with the numeric id
// in the name slot and no identifier at all; this keeps those graphs
// resolvable. The lookup is still exact-match, so a symbol in the name
// slot simply finds nothing.
func (m *Manager) resolveTargetByEntrezName(name string) (*models.Target, error) {
	return m.QueryTargetByEntrezID(name)
}
