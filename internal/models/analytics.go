package models

import "time"

type DashboardStats struct {
	Stats           Totals            `json:"stats"`
	ChartData       []ChartPoint      `json:"chart_data"`
	RecentCampaigns []CampaignSummary `json:"recent_campaigns"`
}

type Totals struct {
	TotalSent     int     `json:"total_sent"`
	TotalContacts int     `json:"total_contacts"`
	OpenRate      float64 `json:"open_rate"`
	ClickRate     float64 `json:"click_rate"`
	BounceRate    float64 `json:"bounce_rate"`
}

type ChartPoint struct {
	Date   string `json:"date"`
	Sent   int    `json:"sent"`
	Opened int    `json:"opened"`
}

type CampaignSummary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status"`
	OpenRate  float64        `json:"open_rate"`
	CreatedAt time.Time      `json:"created_at"`
}

// CampaignAnalytics is the per-campaign breakdown served by
// GET /campaigns/{id}/analytics/.
type CampaignAnalytics struct {
	CampaignID string     `json:"campaign_id"`
	Name       string     `json:"name"`
	SentCount  int        `json:"sent_count"`
	OpenCount  int        `json:"open_count"`
	ClickCount int        `json:"click_count"`
	OpenRate   float64    `json:"open_rate"`
	ClickRate  float64    `json:"click_rate"`
	Logs       []EmailLog `json:"logs"`
}
