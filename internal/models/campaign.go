package models

import (
	"math"
	"time"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
)

type Campaign struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Subject        string         `json:"subject"`
	Content        string         `json:"content"`
	CCEmail        *string        `json:"cc_email"`
	BCCEmail       *string        `json:"bcc_email"`
	Status         CampaignStatus `json:"status"`
	SentCount      int            `json:"sent_count"`
	OpenCount      int            `json:"open_count"`
	ClickCount     int            `json:"click_count"`
	OpenRate       float64        `json:"open_rate"`
	ClickRate      float64        `json:"click_rate"`
	RecipientCount int            `json:"recipient_count"`
	ScheduledAt    *time.Time     `json:"scheduled_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

// CampaignInput is the create/update payload. CC and BCC are always sent so
// an update can clear them.
type CampaignInput struct {
	Name         string     `json:"name"`
	Subject      string     `json:"subject"`
	Content      string     `json:"content"`
	CCEmail      string     `json:"cc_email"`
	BCCEmail     string     `json:"bcc_email"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	RecipientIDs []string   `json:"recipient_ids,omitempty"`
}

// CampaignPatch carries a partial update; nil fields are left unchanged.
type CampaignPatch struct {
	Name        *string    `json:"name"`
	Subject     *string    `json:"subject"`
	Content     *string    `json:"content"`
	CCEmail     *string    `json:"cc_email"`
	BCCEmail    *string    `json:"bcc_email"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type SendRequest struct {
	TestMode bool `json:"test_mode"`
}

type SendResult struct {
	CampaignID string `json:"campaign_id,omitempty"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	Message    string `json:"message"`
}

// Rate returns part as a percentage of total rounded to one decimal.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
