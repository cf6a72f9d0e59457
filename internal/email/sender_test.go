package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MailDesk/internal/models"
)

func TestMessage_HeadersAndBody(t *testing.T) {
	s := &Sender{From: "noreply@maildesk.local"}
	job := models.EmailJob{
		To:       "ann@example.com",
		CC:       "boss@example.com",
		BCC:      "archive@example.com",
		Subject:  "Sale!",
		HTMLBody: "<h2>Big Sale</h2>",
	}

	m := s.Message(job)

	assert.Equal(t, []string{"ann@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"boss@example.com"}, m.GetHeader("Cc"))
	assert.Equal(t, []string{"archive@example.com"}, m.GetHeader("Bcc"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Sale!")
	assert.Contains(t, raw, "Cc: boss@example.com")
	assert.NotContains(t, raw, "archive@example.com")
	assert.Contains(t, raw, "text/html")
}

func TestMessage_NoCopies(t *testing.T) {
	m := (&Sender{From: "a@b.io"}).Message(models.EmailJob{To: "c@d.io"})

	assert.Empty(t, m.GetHeader("Cc"))
	assert.Empty(t, m.GetHeader("Bcc"))
}

func TestSendWithRetry_StopsOnCancelledContext(t *testing.T) {
	// nothing listens on port 1; every attempt fails fast
	s := &Sender{Host: "127.0.0.1", Port: 1, From: "a@b.io"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SendWithRetry(ctx, models.EmailJob{To: "c@d.io"}, 5)
	assert.Error(t, err)
}
