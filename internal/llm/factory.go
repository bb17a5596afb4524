package llm

import (
	"fmt"
	"time"
)

// FactoryConfig holds the parameters needed to create a Summarizer.
// This is defined in the llm package to avoid importing the config package,
// keeping the llm package free of infrastructure dependencies.
type FactoryConfig struct {
	// Provider is the LLM provider name ("gemini" or "openai").
	Provider string
	// Timeout is the timeout for LLM API calls.
	Timeout time.Duration
	// MaxRetries is the maximum number of retries for failed calls.
	MaxRetries int
	// Gemini contains Gemini-specific settings.
	Gemini GeminiConfig
	// OpenAI contains OpenAI-specific settings.
	OpenAI OpenAIConfig
}

// NewSummarizer creates a Summarizer based on the configuration.
// Supports "gemini" and "openai" providers. Returns an error for unsupported
// or empty provider values.
func NewSummarizer(cfg FactoryConfig) (Summarizer, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg.Gemini, cfg.Timeout, cfg.MaxRetries), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI, cfg.Timeout, cfg.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
