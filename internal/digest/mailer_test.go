package digest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		m := NewMailer(MailerConfig{Sender: "bot@example.com"}, zerolog.Nop())

		assert.Equal(t, 587, m.config.Port)
		assert.Equal(t, "bot@example.com", m.config.Username, "username defaults to sender")
	})

	t.Run("keeps explicit settings", func(t *testing.T) {
		m := NewMailer(MailerConfig{
			Host:     "smtp.example.com",
			Port:     465,
			Username: "relay-user",
			Sender:   "bot@example.com",
		}, zerolog.Nop())

		assert.Equal(t, 465, m.config.Port)
		assert.Equal(t, "relay-user", m.config.Username)
	})
}

func TestMailer_Send_InvalidAddresses(t *testing.T) {
	t.Run("invalid sender fails before dialing", func(t *testing.T) {
		m := NewMailer(MailerConfig{
			Host:      "smtp.example.com",
			Sender:    "not an address",
			Recipient: "digest@example.com",
		}, zerolog.Nop())

		err := m.Send(context.Background(), "subject", "<p>body</p>")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "setting sender")
	})

	t.Run("invalid recipient fails before dialing", func(t *testing.T) {
		m := NewMailer(MailerConfig{
			Host:      "smtp.example.com",
			Sender:    "bot@example.com",
			Recipient: "not an address",
		}, zerolog.Nop())

		err := m.Send(context.Background(), "subject", "<p>body</p>")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "setting recipient")
	})
}
