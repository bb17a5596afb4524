// Package config provides configuration management for the paper digest
// pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/helixir/paper-digest/internal/domain"
)

// Config holds all configuration for the digest pipeline.
type Config struct {
	// Digest contains the pipeline settings (topic, paper count, schedule).
	Digest DigestConfig `mapstructure:"digest"`
	// Sources contains paper source API settings.
	Sources SourcesConfig `mapstructure:"sources"`
	// LLM contains summarizer provider settings.
	LLM LLMConfig `mapstructure:"llm"`
	// Email contains SMTP delivery settings.
	Email EmailConfig `mapstructure:"email"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Status contains the health/metrics listener settings.
	Status StatusConfig `mapstructure:"status"`
}

// DigestConfig holds the pipeline settings.
type DigestConfig struct {
	// TopicFilter is the optional topic restricting the digest
	// (e.g. "agentic ai"). Empty means trending papers across categories.
	TopicFilter string `mapstructure:"topic_filter"`
	// NumPapers is the number of papers per digest.
	NumPapers int `mapstructure:"num_papers"`
	// ScheduleTime is the daily trigger time in HH:MM (24h clock).
	ScheduleTime string `mapstructure:"schedule_time"`
	// PapersDir is the base directory for the PDF archive.
	PapersDir string `mapstructure:"papers_dir"`
}

// SourcesConfig holds configuration for all paper source APIs.
type SourcesConfig struct {
	// HuggingFace contains trending feed settings.
	HuggingFace SourceConfig `mapstructure:"huggingface"`
	// ArXiv contains arXiv search settings.
	ArXiv SourceConfig `mapstructure:"arxiv"`
	// SemanticScholar contains citation enrichment settings.
	SemanticScholar SourceConfig `mapstructure:"semantic_scholar"`
}

// SourceConfig holds configuration for a single external API.
type SourceConfig struct {
	// BaseURL is the API base URL. Empty means the client default.
	BaseURL string `mapstructure:"base_url"`
	// APIKey is the API key, loaded from the environment only
	// (e.g. DIGEST_SOURCES_SEMANTIC_SCHOLAR_API_KEY).
	APIKey string `mapstructure:"-"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LLMConfig holds summarizer provider settings.
type LLMConfig struct {
	// Provider is the LLM provider ("gemini" or "openai").
	Provider string `mapstructure:"provider"`
	// Timeout is the timeout for LLM API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetries is the maximum number of retries for failed calls.
	MaxRetries int `mapstructure:"max_retries"`
	// Gemini contains Gemini-specific settings.
	Gemini ProviderConfig `mapstructure:"gemini"`
	// OpenAI contains OpenAI-specific settings.
	OpenAI ProviderConfig `mapstructure:"openai"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	// APIKey is loaded exclusively from the environment
	// (e.g. DIGEST_LLM_GEMINI_API_KEY).
	APIKey string `mapstructure:"-"`
	// Model is the model identifier.
	Model string `mapstructure:"model"`
	// BaseURL is the API base URL (empty means default).
	BaseURL string `mapstructure:"base_url"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	// Recipient is the digest recipient address.
	Recipient string `mapstructure:"recipient" validate:"omitempty,email"`
	// Sender is the From address and default SMTP username.
	Sender string `mapstructure:"sender" validate:"omitempty,email"`
	// Password is the SMTP password, loaded from the environment only
	// (DIGEST_EMAIL_PASSWORD).
	Password string `mapstructure:"-"`
	// SMTPHost is the SMTP server hostname.
	SMTPHost string `mapstructure:"smtp_host"`
	// SMTPPort is the SMTP submission port.
	SMTPPort int `mapstructure:"smtp_port" validate:"gte=0,lte=65535"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// StatusConfig holds the health/metrics listener settings.
type StatusConfig struct {
	// Enabled starts the status listener when true.
	Enabled bool `mapstructure:"enabled"`
	// Addr is the listen address (e.g. ":9091").
	Addr string `mapstructure:"addr"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("DIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paper-digest")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables.
	// These fields use mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields from environment variables.
func loadSecrets(cfg *Config) {
	cfg.LLM.Gemini.APIKey = os.Getenv("DIGEST_LLM_GEMINI_API_KEY")
	cfg.LLM.OpenAI.APIKey = os.Getenv("DIGEST_LLM_OPENAI_API_KEY")
	cfg.Sources.SemanticScholar.APIKey = os.Getenv("DIGEST_SOURCES_SEMANTIC_SCHOLAR_API_KEY")
	cfg.Email.Password = os.Getenv("DIGEST_EMAIL_PASSWORD")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Digest defaults
	v.SetDefault("digest.topic_filter", "")
	v.SetDefault("digest.num_papers", 5)
	v.SetDefault("digest.schedule_time", "21:00")
	v.SetDefault("digest.papers_dir", "papers")

	// Source defaults; base URLs fall back to the client defaults.
	v.SetDefault("sources.huggingface.base_url", "")
	v.SetDefault("sources.huggingface.timeout", "10s")
	v.SetDefault("sources.arxiv.base_url", "")
	v.SetDefault("sources.arxiv.timeout", "15s")
	v.SetDefault("sources.semantic_scholar.base_url", "")
	v.SetDefault("sources.semantic_scholar.timeout", "5s")

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "")

	// Email defaults
	v.SetDefault("email.recipient", "")
	v.SetDefault("email.sender", "")
	v.SetDefault("email.smtp_host", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Status defaults
	v.SetDefault("status.enabled", false)
	v.SetDefault("status.addr", ":9091")
}

// validate checks struct tags (address formats, port ranges).
var validate = validator.New()

// Validate checks configuration consistency. Delivery and summarizer
// credentials are checked separately by ValidateForRun, so a dry
// configuration load can succeed without secrets.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	if c.Digest.NumPapers <= 0 {
		return fmt.Errorf("%w: digest num_papers must be positive, got %d", domain.ErrInvalidConfig, c.Digest.NumPapers)
	}

	if _, _, err := ParseScheduleTime(c.Digest.ScheduleTime); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("%w: invalid log level: %s", domain.ErrInvalidConfig, c.Logging.Level)
	}

	return nil
}

// ValidateForRun checks the credentials an actual pipeline run needs:
// the configured LLM provider's API key and the full email settings.
func (c *Config) ValidateForRun() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "gemini":
		if c.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("%w: LLM provider %q requires DIGEST_LLM_GEMINI_API_KEY to be set", domain.ErrInvalidConfig, c.LLM.Provider)
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: LLM provider %q requires DIGEST_LLM_OPENAI_API_KEY to be set", domain.ErrInvalidConfig, c.LLM.Provider)
		}
	default:
		return fmt.Errorf("%w: unsupported LLM provider: %q", domain.ErrInvalidConfig, c.LLM.Provider)
	}

	if c.Email.Recipient == "" || c.Email.Sender == "" || c.Email.Password == "" {
		return fmt.Errorf("%w: email configuration incomplete: recipient, sender and DIGEST_EMAIL_PASSWORD are required", domain.ErrInvalidConfig)
	}

	return nil
}

// ParseScheduleTime parses an "HH:MM" schedule into hour and minute.
func ParseScheduleTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule time %q: want HH:MM", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid schedule hour in %q", s)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule minute in %q", s)
	}

	return hour, minute, nil
}
