package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonDoc is the persisted JSON shape: nodes grouped by type, the flat edge
// list, and the stats block.
type jsonDoc struct {
	Nodes jsonNodes `json:"nodes"`
	Edges []Edge    `json:"edges"`
	Stats Stats     `json:"stats"`
}

type jsonNodes struct {
	File   []Node `json:"file"`
	Entity []Node `json:"entity"`
	Topic  []Node `json:"topic"`
}

// MarshalJSONDoc serializes the graph into its canonical JSON document.
func (g *Graph) MarshalJSONDoc() ([]byte, error) {
	doc := jsonDoc{
		Nodes: jsonNodes{
			File:   orEmpty(g.NodesOfType(NodeFile)),
			Entity: orEmpty(g.NodesOfType(NodeEntity)),
			Topic:  orEmpty(g.NodesOfType(NodeTopic)),
		},
		Edges: g.Edges,
		Stats: g.Stats(),
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func orEmpty(nodes []Node) []Node {
	if nodes == nil {
		return []Node{}
	}
	return nodes
}

// MarshalDOT renders a Graphviz-compatible edge list.
func (g *Graph) MarshalDOT() string {
	var b strings.Builder
	b.WriteString("digraph knowledge {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "  %q [label=%q, kind=%q];\n", n.ID, n.Name, string(n.Type))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q, weight=%d];\n", e.From, e.To, string(e.Type), e.Weight)
	}
	b.WriteString("}\n")
	return b.String()
}

// MarshalMarkdown renders a human-readable summary of the graph.
func (g *Graph) MarshalMarkdown() string {
	st := g.Stats()
	var b strings.Builder
	b.WriteString("# Knowledge Graph\n\n")
	fmt.Fprintf(&b, "- Files: %d\n- Entities: %d\n- Topics: %d\n- Edges: %d\n\n",
		st.FileCount, st.EntityCount, st.TopicCount, len(g.Edges))

	b.WriteString("## Files\n\n")
	for _, n := range g.NodesOfType(NodeFile) {
		fmt.Fprintf(&b, "- **%s** (`%s`)\n", n.Name, n.Path)
	}
	b.WriteString("\n## Entities\n\n")
	for _, n := range g.NodesOfType(NodeEntity) {
		fmt.Fprintf(&b, "- %s\n", n.Name)
	}
	b.WriteString("\n## Topics\n\n")
	for _, n := range g.NodesOfType(NodeTopic) {
		fmt.Fprintf(&b, "- %s\n", n.Name)
	}

	b.WriteString("\n## Edges\n\n")
	b.WriteString("| Type | From | To | Weight | File |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n", e.Type, e.From, e.To, e.Weight, e.File)
	}
	return b.String()
}
