// Package llm provides generative-AI summarization of paper abstracts.
//
// A Summarizer turns a paper's title and abstract into a short structured
// prose summary for the digest email. Providers are thin HTTP clients over
// the vendor REST APIs (Gemini, OpenAI) selected through NewSummarizer.
//
// Example usage:
//
//	s, err := llm.NewSummarizer(llm.FactoryConfig{
//		Provider: "gemini",
//		Gemini:   llm.GeminiConfig{APIKey: key},
//	})
//	summary, err := s.Summarize(ctx, paper.Title, paper.Abstract)
package llm

import (
	"context"
	"fmt"
)

// Summarizer generates a prose summary for a paper.
type Summarizer interface {
	// Summarize returns a summary of the paper identified by its title and
	// abstract. The context should carry the caller's deadline.
	Summarize(ctx context.Context, title, abstract string) (string, error)

	// Provider returns the name of the underlying LLM provider.
	Provider() string
}

// summaryPromptTemplate is the fixed prompt shared by all providers.
const summaryPromptTemplate = `Summarize this AI research paper and extract key findings:

Title: %s

Abstract: %s

Please provide:
1. Main Contribution (2-3 sentences)
2. Key Findings (3-5 bullet points)
3. Potential Impact (1-2 sentences)

Keep the summary under 200 words and make it accessible to someone with general AI knowledge.`

// BuildSummaryPrompt renders the summarization prompt for a paper.
func BuildSummaryPrompt(title, abstract string) string {
	return fmt.Sprintf(summaryPromptTemplate, title, abstract)
}
