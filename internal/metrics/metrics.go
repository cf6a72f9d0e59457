package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total failed emails",
		},
	)

	CampaignDispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_dispatches_total",
			Help: "Campaign send requests by mode",
		},
		[]string{"mode"},
	)

	DispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campaign_dispatch_duration_seconds",
			Help:    "Time taken to deliver one campaign",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	ContactsImported = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contacts_imported_total",
			Help: "Contacts created through CSV import",
		},
	)

	ContentGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "AI content generation requests by provider and result",
		},
		[]string{"provider", "result"},
	)
)

func Init() {
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(EmailFailures)
	prometheus.MustRegister(CampaignDispatches)
	prometheus.MustRegister(DispatchDuration)
	prometheus.MustRegister(ContactsImported)
	prometheus.MustRegister(ContentGenerations)
}
