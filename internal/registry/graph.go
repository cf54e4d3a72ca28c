package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nerrad567/piplant-core/internal/pathvalue"
)

// marker is one reference marker found in a tree.
type marker struct {
	// at is the path to the marker key itself, e.g. driver.package_ref.
	at pathvalue.Path
	// plural is true for package_refs.
	plural bool
}

// findMarkers returns each marker in tree once, in walk order.
//
// Leaf paths are truncated at their deepest marker key, so the elements of
// a package_refs list collapse into one marker.
func findMarkers(tree *pathvalue.Value) []marker {
	var out []marker
	for _, leaf := range pathvalue.FindPathsToKey(tree, RefKey, RefsKey) {
		i := leaf.LastKeyIndex(RefKey, RefsKey)
		at := leaf[: i+1 : i+1]
		// Compare segments, not rendered strings: a key may contain a dot.
		if slices.ContainsFunc(out, func(m marker) bool { return m.at.Equal(at) }) {
			continue
		}
		out = append(out, marker{at: at, plural: at[i].KeyName() == RefsKey})
	}
	return out
}

// names returns the entry names held by the marker.
func (m marker) names(tree *pathvalue.Value) ([]string, error) {
	v, err := pathvalue.Get(tree, m.at)
	if err != nil {
		return nil, err
	}
	if !m.plural {
		name, ok := v.AsString()
		if !ok || name == "" {
			return nil, fmt.Errorf("%s must be a package name, got %s", m.at, v)
		}
		return []string{name}, nil
	}
	if v.Kind() != pathvalue.KindSequence {
		return nil, fmt.Errorf("%s must be a list of package names, got %s", m.at, v)
	}
	out := make([]string, 0, v.Len())
	for i, item := range v.Items() {
		name, ok := item.AsString()
		if !ok || name == "" {
			return nil, fmt.Errorf("%s[%d] must be a package name, got %s", m.at, i, item)
		}
		out = append(out, name)
	}
	return out, nil
}

// References returns the entry names referenced anywhere in kwargs, in
// first-seen order without duplicates. A marker holding anything other than
// a name (or a list of names) is a *ConfigError.
func References(kwargs *pathvalue.Value) ([]string, error) {
	return references("", kwargs)
}

func references(consumer string, kwargs *pathvalue.Value) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, m := range findMarkers(kwargs) {
		names, err := m.names(kwargs)
		if err != nil {
			return nil, &ConfigError{Entry: quoteOr(consumer, "kwargs"), Reason: err.Error()}
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func quoteOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return fmt.Sprintf("%q", name)
}

// BuildOrder returns one global instantiation order for entries.
//
// Each entry, in declaration order, is expanded depth-first: its references
// in the order they appear, then the entry itself. The merged order keeps the
// first occurrence of every name, so every entry follows all entries it
// references and ties fall back to declaration order.
//
// Returns:
//   - *NotFoundError if a reference names an unknown entry
//   - *CircularDependencyError if any expansion revisits an entry still being expanded
//   - *ConfigError for a malformed marker
func BuildOrder(entries []Entry) ([]string, error) {
	g, err := buildGraph(entries)
	if err != nil {
		return nil, err
	}
	return g.Order, nil
}

// Node is an entry in an exported Graph.
type Node struct {
	Name   string `json:"name"`
	Module string `json:"module"`
}

// Edge means "From depends on To".
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the dependency graph of a set of entries.
type Graph struct {
	Nodes []Node   `json:"nodes"`
	Edges []Edge   `json:"edges"`
	Order []string `json:"order"`
}

// BuildGraph returns the nodes, direct edges and instantiation order of entries.
// It fails under the same conditions as BuildOrder.
func BuildGraph(entries []Entry) (Graph, error) {
	return buildGraph(entries)
}

func buildGraph(entries []Entry) (Graph, error) {
	index := make(map[string]int, len(entries))
	deps := make([][]string, len(entries))
	g := Graph{
		Nodes: make([]Node, 0, len(entries)),
		Order: make([]string, 0, len(entries)),
	}

	for i, e := range entries {
		index[e.Name] = i
		g.Nodes = append(g.Nodes, Node{Name: e.Name, Module: e.Module.String()})
	}
	for i, e := range entries {
		refs, err := references(e.Name, e.Kwargs)
		if err != nil {
			return Graph{}, err
		}
		for _, ref := range refs {
			if _, ok := index[ref]; !ok {
				return Graph{}, &NotFoundError{Consumer: e.Name, Name: ref}
			}
			g.Edges = append(g.Edges, Edge{From: e.Name, To: ref})
		}
		deps[i] = refs
	}

	const (
		stateNew uint8 = iota
		stateVisiting
		stateDone
	)
	state := make([]uint8, len(entries))
	var stack []string

	var visit func(i int) error
	visit = func(i int) error {
		name := entries[i].Name
		state[i] = stateVisiting
		stack = append(stack, name)

		for _, dep := range deps[i] {
			j := index[dep]
			switch state[j] {
			case stateDone:
				continue
			case stateVisiting:
				pos := slices.Index(stack, dep)
				loop := append(slices.Clone(stack[pos:]), dep)
				return &CircularDependencyError{Root: dep, Culprit: name, Path: loop}
			}
			if err := visit(j); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		state[i] = stateDone
		g.Order = append(g.Order, name)
		return nil
	}

	for i := range entries {
		if state[i] == stateDone {
			continue
		}
		if err := visit(i); err != nil {
			return Graph{}, err
		}
	}
	return g, nil
}

// Dependencies returns the direct dependencies of name, in reference order.
func (g Graph) Dependencies(name string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == name {
			out = append(out, e.To)
		}
	}
	return out
}

// DOT exports Graphviz DOT text.
func (g Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph packages {\n")
	b.WriteString("  rankdir=LR;\n")

	aliases := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.Name] = alias
		label := escapeQuotes(n.Name)
		if n.Module != "" {
			label += "\\n(" + escapeQuotes(n.Module) + ")"
		}
		fmt.Fprintf(&b, "  %s [label=\"%s\"];\n", alias, label)
	}
	for _, e := range g.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s;\n", from, to)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid exports Mermaid flowchart text.
func (g Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	aliases := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.Name] = alias
		label := escapeQuotes(n.Name)
		if n.Module != "" {
			label += "<br/>(" + escapeQuotes(n.Module) + ")"
		}
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", alias, label)
	}
	for _, e := range g.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "    %s --> %s\n", from, to)
	}
	return b.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
