// Package graph builds a knowledge graph linking source files to the
// entities and topics mentioned in them, with weighted containment edges
// and per-file co-occurrence relationships.
package graph

import "sort"

// NodeType classifies graph nodes.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeEntity NodeType = "entity"
	NodeTopic  NodeType = "topic"
)

// EdgeType classifies graph edges.
type EdgeType string

const (
	EdgeFileContainsEntity    EdgeType = "file_contains_entity"
	EdgeFileContainsTopic     EdgeType = "file_contains_topic"
	EdgeEntityRelatedToEntity EdgeType = "entity_related_to_entity"
	EdgeEntityRelatedToTopic  EdgeType = "entity_related_to_topic"
)

// Node is a graph vertex. ID is the stable dedup key, formed as
// "<type>:<name>"; the node set never holds two nodes with the same ID.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`
	Name string   `json:"name"`
	Path string   `json:"path,omitempty"`
}

// Edge is a typed, weighted relationship between two node IDs. Containment
// edges carry the in-file occurrence count as weight; relationship edges are
// emitted once per file per pair and are not merged across files.
type Edge struct {
	Type   EdgeType `json:"type"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Weight int      `json:"weight"`
	File   string   `json:"file,omitempty"`
}

// Stats holds the final node-set cardinalities per type.
type Stats struct {
	FileCount   int `json:"fileCount"`
	EntityCount int `json:"entityCount"`
	TopicCount  int `json:"topicCount"`
}

// Graph is a deduplicated node set plus an edge list. Node insertion order
// is preserved for deterministic serialization.
type Graph struct {
	nodes map[string]*Node
	order []string
	Edges []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// NodeID forms the stable identifier for a node of the given type and name.
func NodeID(t NodeType, name string) string {
	return string(t) + ":" + name
}

// AddNode inserts a node if its ID is not present yet and returns the ID.
func (g *Graph) AddNode(t NodeType, name, path string) string {
	id := NodeID(t, name)
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &Node{ID: id, Type: t, Name: name, Path: path}
		g.order = append(g.order, id)
	}
	return id
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge appends an edge.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// NodesOfType returns nodes of one type in insertion order.
func (g *Graph) NodesOfType(t NodeType) []Node {
	var out []Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Type == t {
			out = append(out, *n)
		}
	}
	return out
}

// Stats computes the per-type node counts.
func (g *Graph) Stats() Stats {
	var st Stats
	for _, n := range g.nodes {
		switch n.Type {
		case NodeFile:
			st.FileCount++
		case NodeEntity:
			st.EntityCount++
		case NodeTopic:
			st.TopicCount++
		}
	}
	return st
}

// SortedNodeIDs returns all node IDs in lexicographic order.
func (g *Graph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
