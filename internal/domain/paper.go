// Package domain defines the core types shared across the digest pipeline.
package domain

import "strings"

// PaperRecord is the unit of work flowing through the pipeline. A record is
// created by a source adapter, enriched in place with citation counts and a
// detected venue, scored by the ranking engine, and then handed downstream
// for summarization, archiving and delivery. Records are never persisted.
type PaperRecord struct {
	// Title is the paper title. Adapters substitute "Untitled" when the
	// source response omits it.
	Title string

	// Authors is the comma-joined display form of the author list.
	Authors string

	// Abstract is the paper abstract, or "No abstract available".
	Abstract string

	// ArxivID is the source-assigned identifier. May be empty for records
	// whose source did not carry one.
	ArxivID string

	// PDFURL is the location of the full-text PDF.
	PDFURL string

	// PublishedAt is the raw ISO 8601 publication timestamp as delivered by
	// the source. It may be malformed; consumers must tolerate parse
	// failures.
	PublishedAt string

	// Upvotes is the community upvote count. Only the trending feed
	// populates it.
	Upvotes int

	// Citations is the citation count, populated by enrichment. Zero until
	// then and zero when enrichment fails.
	Citations int

	// InfluentialCitations is the influential citation count from the same
	// enrichment lookup.
	InfluentialCitations int

	// Source is the human-readable provenance tag. Venue detection appends
	// the venue display name to it.
	Source string

	// Venue is the detected top-tier venue key, or empty when none matched.
	// Once set it is never overwritten.
	Venue VenueKey

	// ImpactScore is computed by the ranking engine. Meaningless before the
	// scoring step runs.
	ImpactScore float64

	// Summary is the generated prose summary. Empty until the summarizer
	// runs.
	Summary string
}

// NormalizeArxivID strips the version suffix and the "arXiv:" namespace
// prefix from an identifier: "arXiv:2301.12345v2" becomes "2301.12345".
func NormalizeArxivID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "arXiv:")
	id = strings.TrimPrefix(id, "arxiv:")
	if i := strings.LastIndex(id, "v"); i > 0 {
		suffix := id[i+1:]
		if suffix != "" && isDigits(suffix) {
			id = id[:i]
		}
	}
	return id
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
