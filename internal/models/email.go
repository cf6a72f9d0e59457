package models

import "time"

type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryOpened    DeliveryStatus = "opened"
	DeliveryClicked   DeliveryStatus = "clicked"
	DeliveryBounced   DeliveryStatus = "bounced"
	DeliveryFailed    DeliveryStatus = "failed"
)

// EmailJob is one rendered message addressed to a single contact.
type EmailJob struct {
	CampaignID string `json:"campaign_id"`
	ContactID  string `json:"contact_id"`
	To         string `json:"to"`
	CC         string `json:"cc,omitempty"`
	BCC        string `json:"bcc,omitempty"`
	Subject    string `json:"subject"`
	HTMLBody   string `json:"html_body"`
}

// EmailLog tracks a single delivery attempt of a campaign to a contact.
type EmailLog struct {
	ID         string         `json:"id"`
	CampaignID string         `json:"campaign_id"`
	ContactID  string         `json:"contact_id"`
	Email      string         `json:"email"`
	Status     DeliveryStatus `json:"status"`
	SentAt     time.Time      `json:"sent_at"`
	OpenedAt   *time.Time     `json:"opened_at,omitempty"`
	ClickedAt  *time.Time     `json:"clicked_at,omitempty"`
}
