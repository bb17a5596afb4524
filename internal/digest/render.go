// Package digest renders the daily HTML digest and delivers it over SMTP.
package digest

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/helixir/paper-digest/internal/domain"
)

// digestTemplate is the HTML layout of the daily email.
var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
  .container { background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
  h1 { color: #1a73e8; border-bottom: 3px solid #1a73e8; padding-bottom: 15px; margin-top: 0; }
  .header-info { color: #666; font-size: 0.95em; margin-bottom: 30px; }
  .paper { background: #f8f9fa; border-left: 5px solid #34a853; padding: 25px; margin: 25px 0; border-radius: 8px; }
  .paper-number { color: #1a73e8; font-size: 1.1em; font-weight: bold; margin-bottom: 10px; }
  .paper-title { color: #202124; font-size: 1.4em; font-weight: bold; margin-bottom: 15px; line-height: 1.3; }
  .paper-meta { color: #5f6368; font-size: 0.9em; margin-bottom: 15px; padding: 10px; background: white; border-radius: 5px; }
  .meta-item { margin: 5px 0; }
  .paper-summary { background: white; padding: 20px; border-radius: 5px; margin-top: 15px; white-space: pre-wrap; }
  .summary-label { color: #1a73e8; font-weight: bold; font-size: 1.05em; margin-bottom: 10px; }
  .score { color: #34a853; font-weight: bold; }
  .link-button { display: inline-block; background: #1a73e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; margin-top: 15px; font-weight: 500; }
  .footer { text-align: center; margin-top: 40px; padding-top: 20px; border-top: 2px solid #e8eaed; color: #5f6368; font-size: 0.9em; }
</style>
</head>
<body>
<div class="container">
  <h1>🤖 AI Papers Daily Digest</h1>
  <div class="header-info">
    <div>{{.Date}}</div>
    {{if .Topic}}<div>Topic: <strong>{{.Topic}}</strong></div>{{end}}
    <div>{{.Count}} papers in today's digest</div>
  </div>
  {{range .Papers}}
  <div class="paper">
    <div class="paper-number">Paper #{{.Number}}</div>
    <div class="paper-title">{{.Title}}</div>
    <div class="paper-meta">
      <div class="meta-item"><strong>Authors:</strong> {{.Authors}}</div>
      <div class="meta-item"><strong>Published:</strong> {{.Published}}</div>
      <div class="meta-item"><strong>Source:</strong> {{.Source}}</div>
      {{if .Score}}<div class="meta-item"><strong>Impact score:</strong> <span class="score">{{.Score}}</span></div>{{end}}
    </div>
    {{if .Summary}}
    <div class="paper-summary">
      <div class="summary-label">AI Summary</div>{{.Summary}}
    </div>
    {{end}}
    <a class="link-button" href="{{.PDFURL}}">📄 Read Paper</a>
  </div>
  {{end}}
  <div class="footer">
    <p>Generated automatically by Paper Digest.</p>
  </div>
</div>
</body>
</html>
`))

// templateData is the root context for the digest template.
type templateData struct {
	Date   string
	Topic  string
	Count  int
	Papers []templatePaper
}

// templatePaper is the per-paper context for the digest template.
type templatePaper struct {
	Number    int
	Title     string
	Authors   string
	Published string
	Source    string
	Score     string
	Summary   string
	PDFURL    string
}

// Render produces the digest HTML body for a ranked, summarized record set.
func Render(papers []domain.PaperRecord, topic string, now time.Time) (string, error) {
	data := templateData{
		Date:  now.Format("Monday, January 2, 2006"),
		Topic: topic,
		Count: len(papers),
	}

	for i, rec := range papers {
		score := ""
		if rec.ImpactScore > 0 {
			score = fmt.Sprintf("%.0f", rec.ImpactScore)
		}
		data.Papers = append(data.Papers, templatePaper{
			Number:    i + 1,
			Title:     rec.Title,
			Authors:   rec.Authors,
			Published: formatPublished(rec.PublishedAt),
			Source:    rec.Source,
			Score:     score,
			Summary:   rec.Summary,
			PDFURL:    rec.PDFURL,
		})
	}

	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return sb.String(), nil
}

// Subject builds the digest email subject line.
func Subject(topic string, now time.Time) string {
	subject := "🤖 AI Papers Daily - " + now.Format("Mon Jan 2, 2006")
	if topic != "" {
		subject += " - " + topic
	}
	return subject
}

// formatPublished shortens a raw timestamp to its date portion when it
// parses; malformed values pass through untouched.
func formatPublished(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("January 2, 2006")
	}
	return raw
}
