package workflow

import (
	"context"

	"MailDesk/internal/models"
)

// Sender is the backend capability dispatch needs.
type Sender interface {
	SendCampaign(ctx context.Context, id string, testMode bool) (*models.SendResult, error)
}

// Outcome is the interpreted result of a dispatch.
type Outcome struct {
	Sent     int
	Failed   int
	Message  string
	TestMode bool
}

// Partial reports whether some recipients failed. It is not an error.
func (o Outcome) Partial() bool {
	return o.Failed > 0
}

// Dispatch triggers a send of a saved campaign. Only transport and HTTP
// failures are errors; failed deliveries are reported in the Outcome.
func Dispatch(ctx context.Context, sender Sender, id string, testMode bool) (Outcome, error) {
	if id == "" {
		return Outcome{}, ErrNotSaved
	}

	res, err := sender.SendCampaign(ctx, id, testMode)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Sent:     res.Sent,
		Failed:   res.Failed,
		Message:  res.Message,
		TestMode: testMode,
	}, nil
}
