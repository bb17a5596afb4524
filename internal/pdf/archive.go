package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/paper-digest/internal/domain"
)

// maxTitleRunes caps the title portion of an archive filename.
const maxTitleRunes = 100

// invalidFilenameChars are replaced with underscores in archive filenames.
const invalidFilenameChars = `<>:"/\|?*`

// ArchiveResult summarizes one archive run.
type ArchiveResult struct {
	// Dir is the dated directory the run wrote into.
	Dir string
	// Saved counts successfully written PDFs.
	Saved int
	// Failed counts downloads or writes that did not succeed.
	Failed int
}

// Archive writes each run's PDFs and index file under a date-stamped
// directory beneath a base folder.
type Archive struct {
	baseDir    string
	downloader *Downloader
	logger     zerolog.Logger

	// now is the clock used for directory naming. Overridable in tests.
	now func() time.Time
}

// NewArchive creates an Archive rooted at baseDir.
func NewArchive(baseDir string, downloader *Downloader, logger zerolog.Logger) *Archive {
	return &Archive{
		baseDir:    baseDir,
		downloader: downloader,
		logger:     logger.With().Str("component", "archive").Logger(),
		now:        time.Now,
	}
}

// SaveAll downloads every record's PDF into today's directory and writes the
// index file. Per-file failures are logged and counted, never fatal; the
// index always covers the full record set.
func (a *Archive) SaveAll(ctx context.Context, records []domain.PaperRecord) (*ArchiveResult, error) {
	dir := filepath.Join(a.baseDir, a.now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	result := &ArchiveResult{Dir: dir}
	for i, rec := range records {
		if err := a.saveOne(ctx, dir, i+1, rec); err != nil {
			a.logger.Warn().Err(err).Str("title", rec.Title).Msg("pdf not archived")
			result.Failed++
			continue
		}
		result.Saved++
	}

	if err := a.writeIndex(dir, records); err != nil {
		return result, fmt.Errorf("writing index: %w", err)
	}

	a.logger.Info().
		Str("dir", dir).
		Int("saved", result.Saved).
		Int("failed", result.Failed).
		Msg("archive written")

	return result, nil
}

// saveOne downloads and writes a single PDF.
func (a *Archive) saveOne(ctx context.Context, dir string, index int, rec domain.PaperRecord) error {
	content, err := a.downloader.Download(ctx, rec.PDFURL)
	if err != nil {
		return err
	}

	name := archiveFilename(index, rec)
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// writeIndex renders INDEX.txt listing every record with its summary.
func (a *Archive) writeIndex(dir string, records []domain.PaperRecord) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "AI Papers - %s\n", a.now().Format("2006-01-02"))
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, rec := range records {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rec.Title)
		fmt.Fprintf(&sb, "   Authors: %s\n", rec.Authors)
		fmt.Fprintf(&sb, "   arXiv ID: %s\n", rec.ArxivID)
		fmt.Fprintf(&sb, "   PDF: %s\n", rec.PDFURL)
		fmt.Fprintf(&sb, "   Published: %s\n", rec.PublishedAt)
		fmt.Fprintf(&sb, "   Source: %s\n", rec.Source)
		if rec.Summary != "" {
			sb.WriteString("\n   Summary:\n")
			for _, line := range strings.Split(rec.Summary, "\n") {
				fmt.Fprintf(&sb, "   %s\n", line)
			}
		}
		sb.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
	}

	return os.WriteFile(filepath.Join(dir, "INDEX.txt"), []byte(sb.String()), 0o644)
}

// archiveFilename builds "NN_<arxivID>_<sanitized-title>.pdf".
func archiveFilename(index int, rec domain.PaperRecord) string {
	id := rec.ArxivID
	if id == "" {
		id = fmt.Sprintf("paper_%d", index)
	}
	return fmt.Sprintf("%02d_%s_%s.pdf", index, id, sanitizeFilename(rec.Title))
}

// sanitizeFilename replaces characters invalid in filenames and caps length.
func sanitizeFilename(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if strings.ContainsRune(invalidFilenameChars, r) {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(r)
		}
	}
	runes := []rune(sb.String())
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return string(runes)
}
