// Package main provides the entry point for the paper digest service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/helixir/paper-digest/internal/config"
	"github.com/helixir/paper-digest/internal/digest"
	"github.com/helixir/paper-digest/internal/enrich"
	"github.com/helixir/paper-digest/internal/llm"
	"github.com/helixir/paper-digest/internal/observability"
	"github.com/helixir/paper-digest/internal/pdf"
	"github.com/helixir/paper-digest/internal/pipeline"
	"github.com/helixir/paper-digest/internal/ranking"
	"github.com/helixir/paper-digest/internal/sources/arxiv"
	"github.com/helixir/paper-digest/internal/sources/huggingface"
	"github.com/helixir/paper-digest/internal/status"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	schedule := flag.Bool("schedule", false, "run daily at the configured time instead of once")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForRun(); err != nil {
		return fmt.Errorf("check run configuration: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "digest").Logger()
	logger.Info().Msg("paper-digest starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("paper_digest", nil)

	// Paper sources.
	trending := huggingface.New(huggingface.Config{
		BaseURL: cfg.Sources.HuggingFace.BaseURL,
		Timeout: cfg.Sources.HuggingFace.Timeout,
	})
	search := arxiv.New(arxiv.Config{
		BaseURL: cfg.Sources.ArXiv.BaseURL,
		Timeout: cfg.Sources.ArXiv.Timeout,
	})
	enricher := enrich.New(enrich.Config{
		BaseURL: cfg.Sources.SemanticScholar.BaseURL,
		APIKey:  cfg.Sources.SemanticScholar.APIKey,
		Timeout: cfg.Sources.SemanticScholar.Timeout,
	}, metrics, logger)

	engine := ranking.NewEngine(trending, search, enricher, metrics, logger)

	// Summarizer.
	summarizer, err := llm.NewSummarizer(llm.FactoryConfig{
		Provider:   cfg.LLM.Provider,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
		Gemini: llm.GeminiConfig{
			APIKey:  cfg.LLM.Gemini.APIKey,
			Model:   cfg.LLM.Gemini.Model,
			BaseURL: cfg.LLM.Gemini.BaseURL,
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			Model:   cfg.LLM.OpenAI.Model,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
		},
	})
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}
	logger.Info().Str("provider", summarizer.Provider()).Msg("summarizer ready")

	// PDF archive and email delivery.
	archive := pdf.NewArchive(cfg.Digest.PapersDir, pdf.NewDownloader(pdf.Config{}), logger)
	mailer := digest.NewMailer(digest.MailerConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Password:  cfg.Email.Password,
		Sender:    cfg.Email.Sender,
		Recipient: cfg.Email.Recipient,
	}, logger)

	p := pipeline.New(pipeline.Config{
		Topic:     cfg.Digest.TopicFilter,
		NumPapers: cfg.Digest.NumPapers,
	}, engine, summarizer, archive, mailer, metrics, logger)

	// Optional status listener for health checks and Prometheus scrapes.
	if cfg.Status.Enabled {
		statusServer := status.NewServer(cfg.Status.Addr, logger)
		go func() {
			if err := statusServer.Start(); err != nil {
				logger.Error().Err(err).Msg("status server failed")
			}
		}()
		defer func() {
			if err := statusServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("status server shutdown failed")
			}
		}()
	}

	if *schedule {
		hour, minute, err := config.ParseScheduleTime(cfg.Digest.ScheduleTime)
		if err != nil {
			return err
		}
		logger.Info().Str("time", cfg.Digest.ScheduleTime).Msg("running in scheduled mode")

		sched := pipeline.NewScheduler(p, hour, minute, logger)
		if err := sched.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("digest run: %w", err)
	}
	logger.Info().
		Int("papers", len(result.Papers)).
		Str("archive_dir", result.ArchiveDir).
		Bool("email_sent", result.EmailSent).
		Msg("digest finished")
	return nil
}
