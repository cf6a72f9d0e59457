package email

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/gomail.v2"

	"MailDesk/internal/models"
)

type Sender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Message builds the MIME message for job. CC is a visible header; BCC only
// reaches the envelope, gomail strips it from the written headers.
func (s *Sender) Message(job models.EmailJob) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", job.To)
	if job.CC != "" {
		m.SetHeader("Cc", job.CC)
	}
	if job.BCC != "" {
		m.SetHeader("Bcc", job.BCC)
	}
	m.SetHeader("Subject", job.Subject)
	m.SetBody("text/html", job.HTMLBody)
	return m
}

// Send delivers a single email over SMTP.
func (s *Sender) Send(job models.EmailJob) error {
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(s.Message(job)); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	return nil
}

// SendWithRetry retries email sending with exponential backoff
func (s *Sender) SendWithRetry(
	ctx context.Context,
	job models.EmailJob,
	retries int,
) error {

	operation := func() error {
		return s.Send(job)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = time.Duration(retries+1) * time.Second

	if retries < 0 {
		retries = 0
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx))
}
