package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"MailDesk/internal/metrics"
	"MailDesk/internal/models"
)

// Mailer delivers one message, retrying transient failures.
type Mailer interface {
	SendWithRetry(ctx context.Context, job models.EmailJob, retries int) error
}

// Recorder stores the outcome of each delivery attempt.
type Recorder interface {
	RecordDelivery(ctx context.Context, campaignID, contactID string, status models.DeliveryStatus) error
}

type Result struct {
	Sent   int
	Failed int
}

type Pool struct {
	Workers int
	Mailer  Mailer
	Limiter *rate.Limiter
	// Recorder may be nil, in which case nothing is persisted.
	Recorder Recorder
	Log      *zap.Logger
	Retries  int
}

// Dispatch delivers jobs across the pool's workers and blocks until every
// job has been attempted or ctx is done. Jobs never attempted count as
// failed.
func (p *Pool) Dispatch(ctx context.Context, jobs []models.EmailJob) Result {
	queue := make(chan models.EmailJob, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var (
		wg     sync.WaitGroup
		sent   atomic.Int64
		failed atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			log.Debug("worker started", zap.Int("worker_id", id))

			for {
				select {

				case <-ctx.Done():
					log.Info("worker shutting down", zap.Int("worker_id", id))
					return

				case job, ok := <-queue:
					if !ok {
						return
					}

					// ----------------------------
					// Rate Limit
					// ----------------------------
					if p.Limiter != nil {
						if err := p.Limiter.Wait(ctx); err != nil {
							log.Warn("rate limiter stopped by context",
								zap.Int("worker_id", id),
								zap.Error(err),
							)
							return
						}
					}

					// ----------------------------
					// Send Email
					// ----------------------------
					status := models.DeliverySent
					if err := p.Mailer.SendWithRetry(ctx, job, p.Retries); err != nil {
						log.Error("email send failed",
							zap.Int("worker_id", id),
							zap.String("campaign_id", job.CampaignID),
							zap.String("to", job.To),
							zap.Error(err),
						)
						status = models.DeliveryFailed
						failed.Add(1)
						metrics.EmailFailures.Inc()
					} else {
						log.Debug("email sent successfully",
							zap.Int("worker_id", id),
							zap.String("to", job.To),
						)
						sent.Add(1)
						metrics.EmailsSent.Inc()
					}

					// ----------------------------
					// Record Delivery
					// ----------------------------
					if p.Recorder != nil {
						if err := p.Recorder.RecordDelivery(ctx, job.CampaignID, job.ContactID, status); err != nil {
							log.Error("failed to record delivery",
								zap.String("campaign_id", job.CampaignID),
								zap.String("contact_id", job.ContactID),
								zap.Error(err),
							)
						}
					}
				}
			}
		}(i)
	}

	wg.Wait()

	res := Result{Sent: int(sent.Load()), Failed: int(failed.Load())}
	if unattempted := len(jobs) - res.Sent - res.Failed; unattempted > 0 {
		res.Failed += unattempted
	}
	return res
}
