// Package pipeline orchestrates a complete digest run: rank papers,
// generate summaries, archive PDFs, and deliver the email digest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/helixir/paper-digest/internal/digest"
	"github.com/helixir/paper-digest/internal/domain"
	"github.com/helixir/paper-digest/internal/observability"
	"github.com/helixir/paper-digest/internal/pdf"
)

// Ranker selects and orders the papers for a digest run.
type Ranker interface {
	// Rank returns at most limit papers ordered by impact score.
	Rank(ctx context.Context, topic string, limit int) ([]domain.PaperRecord, error)
}

// Summarizer generates a structured summary for a single paper.
type Summarizer interface {
	Summarize(ctx context.Context, title, abstract string) (string, error)
	Provider() string
}

// Archiver persists paper PDFs to local storage.
type Archiver interface {
	SaveAll(ctx context.Context, records []domain.PaperRecord) (*pdf.ArchiveResult, error)
}

// Sender delivers the rendered digest.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Config holds pipeline settings.
type Config struct {
	// Topic is the optional topic filter for the digest.
	Topic string
	// NumPapers is the number of papers per digest.
	NumPapers int
}

// Result summarizes a completed digest run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// Papers are the ranked, summarized records that went into the digest.
	Papers []domain.PaperRecord
	// ArchiveDir is the directory the PDFs were saved to.
	ArchiveDir string
	// SummariesFailed counts papers whose summary generation failed.
	SummariesFailed int
	// EmailSent is true when the digest email was delivered.
	EmailSent bool
}

// Pipeline runs the daily digest end to end. Stages run sequentially;
// every stage after ranking is best-effort and a failure there degrades
// the digest rather than aborting the run.
type Pipeline struct {
	config     Config
	ranker     Ranker
	summarizer Summarizer
	archiver   Archiver
	sender     Sender
	metrics    *observability.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// New creates a pipeline. The archiver and sender may be nil, in which
// case the corresponding stage is skipped. A nil metrics is replaced
// with a set backed by a private registry.
func New(
	cfg Config,
	ranker Ranker,
	summarizer Summarizer,
	archiver Archiver,
	sender Sender,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Pipeline {
	if cfg.NumPapers <= 0 {
		cfg.NumPapers = 5
	}
	if metrics == nil {
		metrics = observability.NewMetrics("paper_digest", prometheus.NewRegistry())
	}

	return &Pipeline{
		config:     cfg,
		ranker:     ranker,
		summarizer: summarizer,
		archiver:   archiver,
		sender:     sender,
		metrics:    metrics,
		logger:     logger.With().Str("component", "pipeline").Logger(),
		now:        time.Now,
	}
}

// Run executes one digest run. It returns an error only when no papers
// could be fetched from any source; all later failures are logged and
// reflected in the Result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	logger := observability.WithRunContext(p.logger, runID, p.config.Topic)
	started := p.now()

	p.metrics.RunsStarted.Inc()
	logger.Info().Int("num_papers", p.config.NumPapers).Msg("starting digest run")

	papers, err := p.ranker.Rank(ctx, p.config.Topic, p.config.NumPapers)
	if err != nil {
		p.metrics.RunsFailed.Inc()
		return nil, fmt.Errorf("failed to rank papers: %w", err)
	}

	result := &Result{RunID: runID, Papers: papers}

	p.metrics.PapersRanked.Add(float64(len(papers)))
	logger.Info().Int("count", len(papers)).Msg("papers ranked")

	p.summarizeAll(ctx, logger, result)
	p.archiveAll(ctx, logger, result)
	p.deliver(ctx, logger, result)

	p.metrics.RunsCompleted.Inc()
	p.metrics.RunDuration.Observe(p.now().Sub(started).Seconds())

	logger.Info().
		Int("papers", len(result.Papers)).
		Int("summaries_failed", result.SummariesFailed).
		Bool("email_sent", result.EmailSent).
		Dur("duration", p.now().Sub(started)).
		Msg("digest run completed")

	return result, nil
}

// summarizeAll generates a summary for every ranked paper. A failed
// summary is recorded inline so the digest still shows the paper.
func (p *Pipeline) summarizeAll(ctx context.Context, logger zerolog.Logger, result *Result) {
	if p.summarizer == nil {
		return
	}

	logger.Info().Str("provider", p.summarizer.Provider()).Msg("generating summaries")

	for i := range result.Papers {
		rec := &result.Papers[i]

		summary, err := p.summarizer.Summarize(ctx, rec.Title, rec.Abstract)
		if err != nil {
			p.metrics.SummariesFailed.Inc()
			result.SummariesFailed++
			rec.Summary = fmt.Sprintf("Error generating summary: %v", err)
			logger.Warn().
				Err(fmt.Errorf("%w: %w", domain.ErrSummaryFailed, err)).
				Str("title", rec.Title).
				Msg("summary generation failed")
			continue
		}

		p.metrics.SummariesGenerated.Inc()
		rec.Summary = summary
	}
}

// archiveAll downloads and stores the PDFs for the digest.
func (p *Pipeline) archiveAll(ctx context.Context, logger zerolog.Logger, result *Result) {
	if p.archiver == nil {
		return
	}

	archive, err := p.archiver.SaveAll(ctx, result.Papers)
	if err != nil {
		logger.Warn().Err(err).Msg("PDF archiving failed")
		return
	}

	result.ArchiveDir = archive.Dir
	p.metrics.PDFsSaved.Add(float64(archive.Saved))
	logger.Info().
		Str("dir", archive.Dir).
		Int("saved", archive.Saved).
		Int("failed", archive.Failed).
		Msg("PDFs archived")
}

// deliver renders and sends the digest email.
func (p *Pipeline) deliver(ctx context.Context, logger zerolog.Logger, result *Result) {
	if p.sender == nil {
		return
	}

	now := p.now()
	body, err := digest.Render(result.Papers, p.config.Topic, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to render digest")
		return
	}

	if err := p.sender.Send(ctx, digest.Subject(p.config.Topic, now), body); err != nil {
		logger.Error().Err(err).Msg("failed to send digest email")
		return
	}

	p.metrics.EmailsSent.Inc()
	result.EmailSent = true
}

// IsFatal reports whether a run error means no digest could be produced
// at all, as opposed to a degraded run.
func IsFatal(err error) bool {
	return errors.Is(err, domain.ErrNoPapers)
}
