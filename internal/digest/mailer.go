package digest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// MailerConfig holds SMTP delivery settings.
type MailerConfig struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP submission port. Default: 587.
	Port int
	// Username authenticates the SMTP session. Defaults to Sender.
	Username string
	// Password is the SMTP password or app password.
	Password string
	// Sender is the From address.
	Sender string
	// Recipient is the To address.
	Recipient string
}

// Mailer delivers the rendered digest over an authenticated STARTTLS
// connection.
type Mailer struct {
	config MailerConfig
	logger zerolog.Logger
}

// NewMailer creates a Mailer with the given configuration.
func NewMailer(cfg MailerConfig, logger zerolog.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Username == "" {
		cfg.Username = cfg.Sender
	}

	return &Mailer{
		config: cfg,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// Send delivers an HTML body with the given subject to the configured
// recipient.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.config.Sender); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(m.config.Recipient); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.config.Host,
		mail.WithPort(m.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.Username),
		mail.WithPassword(m.config.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}

	m.logger.Info().
		Str("recipient", m.config.Recipient).
		Str("subject", subject).
		Msg("digest email sent")

	return nil
}
