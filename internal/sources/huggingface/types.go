// Package huggingface provides a client for the Hugging Face daily papers
// feed, a curated, community-upvoted list of trending AI papers.
//
// API endpoint: https://huggingface.co/api/daily_papers
package huggingface

// FeedEntry represents one wrapper object in the daily papers response.
type FeedEntry struct {
	// Paper contains the paper metadata.
	Paper PaperInfo `json:"paper"`

	// PublishedAt is the ISO 8601 timestamp the entry was published.
	PublishedAt string `json:"publishedAt"`

	// Upvotes is the community upvote count for the entry.
	Upvotes int `json:"upvotes"`
}

// PaperInfo holds the paper metadata nested inside a feed entry.
type PaperInfo struct {
	// ID is the arXiv identifier of the paper.
	ID string `json:"id"`

	// Title is the paper title.
	Title string `json:"title"`

	// Summary is the paper abstract.
	Summary string `json:"summary"`

	// Authors is the list of paper authors.
	Authors []Author `json:"authors"`
}

// Author represents a single author in the feed response.
type Author struct {
	Name string `json:"name"`
}
