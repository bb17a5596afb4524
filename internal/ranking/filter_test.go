package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixir/paper-digest/internal/domain"
)

func TestFilterByTopic(t *testing.T) {
	records := []domain.PaperRecord{
		{Title: "Agentic AI Systems", Abstract: "We study autonomous agents."},
		{Title: "Diffusion Models", Abstract: "Image generation with diffusion."},
		{Title: "A Survey", Abstract: "Covers agentic workflows end to end."},
	}

	t.Run("empty topic returns input unchanged", func(t *testing.T) {
		got := FilterByTopic(records, "")

		assert.Equal(t, records, got)
	})

	t.Run("whitespace topic returns input unchanged", func(t *testing.T) {
		got := FilterByTopic(records, "   ")

		assert.Equal(t, records, got)
	})

	t.Run("keeps records matching any keyword", func(t *testing.T) {
		got := FilterByTopic(records, "agentic ai")

		// "agentic" matches the first and third records; the diffusion
		// paper matches neither keyword.
		assert.Len(t, got, 2)
		assert.Equal(t, "Agentic AI Systems", got[0].Title)
		assert.Equal(t, "A Survey", got[1].Title)
	})

	t.Run("match is case insensitive", func(t *testing.T) {
		got := FilterByTopic(records, "DIFFUSION")

		assert.Len(t, got, 1)
		assert.Equal(t, "Diffusion Models", got[0].Title)
	})

	t.Run("no match yields empty result", func(t *testing.T) {
		got := FilterByTopic(records, "quantum chemistry")

		assert.Empty(t, got)
	})

	t.Run("abstract alone can match", func(t *testing.T) {
		got := FilterByTopic(records, "workflows")

		assert.Len(t, got, 1)
		assert.Equal(t, "A Survey", got[0].Title)
	})
}

func TestTopicKeywords(t *testing.T) {
	assert.Empty(t, topicKeywords(""))
	assert.Empty(t, topicKeywords("   "))
	assert.Equal(t, []string{"agentic", "ai"}, topicKeywords("Agentic AI"))
	assert.Equal(t, []string{"one"}, topicKeywords(" one "))
}
