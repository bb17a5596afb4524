package ranking

import (
	"strings"
	"time"

	"github.com/helixir/paper-digest/internal/domain"
)

// Score weights for the individual impact components.
const (
	upvoteWeight      = 2
	citationWeight    = 5
	influentialWeight = 10
	freshBonus        = 20 // published within 30 days
	recentBonus       = 10 // published within 31-90 days
	topicBonus        = 30 // topic keyword appears in the title
)

// publishedAtLayouts lists the timestamp layouts sources have been observed
// to emit. An unparsable timestamp contributes no recency bonus but never
// excludes a paper.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Score computes the heuristic impact score for a record at the given time:
// community signal, citation counts, recency, topic relevance in the title,
// and venue prestige. The topic check here is deliberately stricter than
// FilterByTopic: only the title counts, and the bonus applies once no matter
// how many keywords match.
func Score(rec *domain.PaperRecord, topic string, now time.Time) float64 {
	score := float64(rec.Upvotes*upvoteWeight +
		rec.Citations*citationWeight +
		rec.InfluentialCitations*influentialWeight)

	score += recencyBonus(rec.PublishedAt, now)

	if keywords := topicKeywords(topic); len(keywords) > 0 {
		title := strings.ToLower(rec.Title)
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				score += topicBonus
				break
			}
		}
	}

	score += domain.Venues().Bonus(rec.Venue)

	return score
}

// recencyBonus returns the age-based score component. Age is measured in
// days against now expressed in the paper's own timezone.
func recencyBonus(publishedAt string, now time.Time) float64 {
	published, ok := parsePublishedAt(publishedAt)
	if !ok {
		return 0
	}

	ageDays := now.In(published.Location()).Sub(published).Hours() / 24
	switch {
	case ageDays <= 30:
		return freshBonus
	case ageDays <= 90:
		return recentBonus
	default:
		return 0
	}
}

// parsePublishedAt tries the known timestamp layouts in order.
func parsePublishedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
