package graph

import (
	"sort"
	"strings"

	"docgraph/internal/analyzer"
	"docgraph/internal/domain"
)

// Builder assembles a knowledge graph from per-file extracted text.
type Builder struct {
	topTopics int
}

// NewBuilder creates a graph builder. topTopics bounds the topics taken per
// file; non-positive means the analyzer default.
func NewBuilder(topTopics int) *Builder {
	return &Builder{topTopics: topTopics}
}

// Build processes documents in lexicographic path order, so node creation
// order and serialized output are reproducible for identical input. Documents with empty text contribute nothing and do not fail the
// build.
func (b *Builder) Build(docs []domain.Document) *Graph {
	sorted := make([]domain.Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	g := NewGraph()
	for _, doc := range sorted {
		b.addFile(g, doc)
	}
	return g
}

func (b *Builder) addFile(g *Graph, doc domain.Document) {
	if strings.TrimSpace(doc.Text) == "" {
		return
	}
	fileID := g.AddNode(NodeFile, doc.File, doc.Path)
	entities := analyzer.ExtractEntities(doc.Text)
	topics := analyzer.ExtractTopics(doc.Text, b.topTopics)

	// Distinct entities in first-occurrence order, with in-file counts.
	entityCounts := make(map[string]int, len(entities))
	var distinct []string
	for _, e := range entities {
		if entityCounts[e] == 0 {
			distinct = append(distinct, e)
		}
		entityCounts[e]++
	}

	for _, e := range distinct {
		entityID := g.AddNode(NodeEntity, e, "")
		g.AddEdge(Edge{
			Type:   EdgeFileContainsEntity,
			From:   fileID,
			To:     entityID,
			Weight: entityCounts[e],
			File:   doc.File,
		})
	}

	topicCounts := analyzer.TopicCounts(doc.Text)
	for _, topic := range topics {
		topicID := g.AddNode(NodeTopic, topic, "")
		g.AddEdge(Edge{
			Type:   EdgeFileContainsTopic,
			From:   fileID,
			To:     topicID,
			Weight: topicCounts[topic],
			File:   doc.File,
		})
	}

	// One relationship edge per unordered pair per file; a pair seen in
	// several files yields one edge per file.
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			g.AddEdge(Edge{
				Type:   EdgeEntityRelatedToEntity,
				From:   NodeID(NodeEntity, distinct[i]),
				To:     NodeID(NodeEntity, distinct[j]),
				Weight: 1,
				File:   doc.File,
			})
		}
	}
	for _, e := range distinct {
		for _, topic := range topics {
			g.AddEdge(Edge{
				Type:   EdgeEntityRelatedToTopic,
				From:   NodeID(NodeEntity, e),
				To:     NodeID(NodeTopic, topic),
				Weight: 1,
				File:   doc.File,
			})
		}
	}
}
