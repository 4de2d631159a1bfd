// Package analyzer extracts candidate named entities and topics from raw
// document text using regex and frequency heuristics. Both extractors are
// pure functions; degenerate input yields empty results, never an error.
package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultTopicCount is used when a caller passes a non-positive topN.
const DefaultTopicCount = 10

var (
	// A run of capitalized words separated by single spaces, e.g. "Acme Corp".
	entityRunRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9]+(?: [A-Z][A-Za-z0-9]+)*`)
	topicWordRe = regexp.MustCompile(`[a-z]+`)
)

// ExtractEntities returns entity candidates in order of first occurrence.
// Duplicates are retained; callers needing unique entities deduplicate.
// Stop-listed words never appear in a candidate and split longer runs, so
// "The Acme Corp" yields "Acme Corp". Candidates of one or two characters
// are dropped.
func ExtractEntities(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var entities []string
	for _, run := range entityRunRe.FindAllString(text, -1) {
		tokens := strings.Split(run, " ")
		var current []string
		flush := func() {
			if len(current) == 0 {
				return
			}
			candidate := strings.Join(current, " ")
			if len(candidate) > 2 {
				entities = append(entities, candidate)
			}
			current = current[:0]
		}
		for _, tok := range tokens {
			if _, stop := entityStopwords[tok]; stop {
				flush()
				continue
			}
			current = append(current, tok)
		}
		flush()
	}
	return entities
}

// ExtractTopics lower-cases the text, keeps alphabetic tokens of at least
// five characters that are not stop-listed, and returns the topN most
// frequent, ties broken by first occurrence. topN <= 0 means
// DefaultTopicCount.
func ExtractTopics(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopicCount
	}
	counts, order := topicCounts(text)
	if len(order) == 0 {
		return nil
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if topN < len(order) {
		order = order[:topN]
	}
	return order
}

// TopicCounts returns the in-text occurrence count of every eligible topic
// token. The graph builder uses these counts as edge weights.
func TopicCounts(text string) map[string]int {
	counts, _ := topicCounts(text)
	return counts
}

func topicCounts(text string) (map[string]int, []string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	counts := make(map[string]int)
	var order []string
	for _, tok := range topicWordRe.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < 5 {
			continue
		}
		if _, stop := topicStopwords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	return counts, order
}
