package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-digest/internal/domain"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Digest.NumPapers = 5
	cfg.Digest.ScheduleTime = "21:00"
	cfg.Digest.PapersDir = "papers"
	cfg.Logging.Level = "info"
	cfg.LLM.Provider = "gemini"
	cfg.LLM.Gemini.APIKey = "key"
	cfg.Email.Recipient = "digest@example.com"
	cfg.Email.Sender = "bot@example.com"
	cfg.Email.Password = "secret"
	cfg.Email.SMTPPort = 587
	return cfg
}

func TestLoad(t *testing.T) {
	t.Run("loads defaults without config file", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Digest.NumPapers)
		assert.Equal(t, "21:00", cfg.Digest.ScheduleTime)
		assert.Equal(t, "papers", cfg.Digest.PapersDir)
		assert.Empty(t, cfg.Digest.TopicFilter)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Gemini.Model)
		assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTPHost)
		assert.Equal(t, 587, cfg.Email.SMTPPort)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.False(t, cfg.Status.Enabled)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("DIGEST_DIGEST_NUM_PAPERS", "3")
		t.Setenv("DIGEST_DIGEST_TOPIC_FILTER", "agentic ai")
		t.Setenv("DIGEST_LLM_PROVIDER", "openai")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Digest.NumPapers)
		assert.Equal(t, "agentic ai", cfg.Digest.TopicFilter)
		assert.Equal(t, "openai", cfg.LLM.Provider)
	})

	t.Run("secrets come from the environment only", func(t *testing.T) {
		t.Setenv("DIGEST_LLM_GEMINI_API_KEY", "gem-key")
		t.Setenv("DIGEST_EMAIL_PASSWORD", "app-password")
		t.Setenv("DIGEST_SOURCES_SEMANTIC_SCHOLAR_API_KEY", "s2-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "gem-key", cfg.LLM.Gemini.APIKey)
		assert.Equal(t, "app-password", cfg.Email.Password)
		assert.Equal(t, "s2-key", cfg.Sources.SemanticScholar.APIKey)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("rejects non-positive paper count", func(t *testing.T) {
		cfg := validConfig()
		cfg.Digest.NumPapers = 0

		err := cfg.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "num_papers")
	})

	t.Run("rejects malformed schedule time", func(t *testing.T) {
		cfg := validConfig()
		cfg.Digest.ScheduleTime = "9pm"

		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("rejects malformed email address", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.Recipient = "not-an-email"

		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out-of-range SMTP port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.SMTPPort = 70000

		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_ValidateForRun(t *testing.T) {
	t.Run("valid run config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().ValidateForRun())
	})

	t.Run("requires provider API key", func(t *testing.T) {
		cfg := validConfig()
		cfg.LLM.Gemini.APIKey = ""

		err := cfg.ValidateForRun()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DIGEST_LLM_GEMINI_API_KEY")
	})

	t.Run("requires matching key for openai provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.LLM.Provider = "openai"

		err := cfg.ValidateForRun()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DIGEST_LLM_OPENAI_API_KEY")
	})

	t.Run("rejects unsupported provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.LLM.Provider = "bard"

		assert.Error(t, cfg.ValidateForRun())
	})

	t.Run("requires complete email settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Email.Password = ""

		err := cfg.ValidateForRun()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DIGEST_EMAIL_PASSWORD")
	})
}

func TestParseScheduleTime(t *testing.T) {
	t.Run("parses valid times", func(t *testing.T) {
		hour, minute, err := ParseScheduleTime("21:00")
		require.NoError(t, err)
		assert.Equal(t, 21, hour)
		assert.Equal(t, 0, minute)

		hour, minute, err = ParseScheduleTime("07:30")
		require.NoError(t, err)
		assert.Equal(t, 7, hour)
		assert.Equal(t, 30, minute)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		for _, in := range []string{"", "21", "24:00", "12:60", "ab:cd", "12:00:00"} {
			_, _, err := ParseScheduleTime(in)
			assert.Error(t, err, in)
		}
	})
}
