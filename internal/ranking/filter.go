// Package ranking implements the impact scoring and ranking engine: topic
// filtering, venue detection, weighted scoring, and the merged top-N ranking
// over all source adapters.
package ranking

import (
	"strings"

	"github.com/helixir/paper-digest/internal/domain"
)

// FilterByTopic keeps records whose title or abstract contains at least one
// of the topic's whitespace-separated keywords, case-insensitively. An empty
// topic is the identity: the input slice is returned unchanged, order
// preserved. Keywords combine with OR semantics; there is no tokenization or
// stemming.
func FilterByTopic(records []domain.PaperRecord, topic string) []domain.PaperRecord {
	keywords := topicKeywords(topic)
	if len(keywords) == 0 {
		return records
	}

	filtered := make([]domain.PaperRecord, 0, len(records))
	for _, rec := range records {
		text := strings.ToLower(rec.Title + " " + rec.Abstract)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered
}

// topicKeywords splits a topic string into lowercase keywords.
func topicKeywords(topic string) []string {
	fields := strings.Fields(strings.ToLower(topic))
	return fields
}
