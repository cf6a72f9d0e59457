package db

import (
	"context"
	"time"

	"MailDesk/internal/models"
)

const (
	chartDays     = 7
	recentCount   = 5
	analyticsLogs = 50
)

// ChartDays returns the midnight of each of the n days ending on now's day,
// oldest first.
func ChartDays(now time.Time, n int) []time.Time {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

// DashboardStats aggregates delivery totals, the daily chart and the most
// recent campaigns.
func (s *Store) DashboardStats(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	var (
		contacts                      int
		sent, opened, clicked, bounce int
	)

	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&contacts); err != nil {
		return nil, err
	}

	err := s.Pool.QueryRow(ctx,
		`SELECT
		   COUNT(*) FILTER (WHERE status <> 'failed'),
		   COUNT(*) FILTER (WHERE opened_at IS NOT NULL),
		   COUNT(*) FILTER (WHERE clicked_at IS NOT NULL),
		   COUNT(*) FILTER (WHERE status = 'bounced')
		 FROM email_logs`,
	).Scan(&sent, &opened, &clicked, &bounce)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		Stats: models.Totals{
			TotalSent:     sent,
			TotalContacts: contacts,
			OpenRate:      models.Rate(opened, sent),
			ClickRate:     models.Rate(clicked, sent),
			BounceRate:    models.Rate(bounce, sent),
		},
		ChartData:       []models.ChartPoint{},
		RecentCampaigns: []models.CampaignSummary{},
	}

	for _, day := range ChartDays(now, chartDays) {
		p := models.ChartPoint{Date: day.Format("Jan 02")}
		next := day.AddDate(0, 0, 1)

		err := s.Pool.QueryRow(ctx,
			`SELECT
			   COUNT(*) FILTER (WHERE sent_at >= $1 AND sent_at < $2),
			   COUNT(*) FILTER (WHERE opened_at >= $1 AND opened_at < $2)
			 FROM email_logs`,
			day,
			next,
		).Scan(&p.Sent, &p.Opened)
		if err != nil {
			return nil, err
		}
		stats.ChartData = append(stats.ChartData, p)
	}

	recent, err := s.RecentCampaigns(ctx, recentCount)
	if err != nil {
		return nil, err
	}
	for _, c := range recent {
		stats.RecentCampaigns = append(stats.RecentCampaigns, models.CampaignSummary{
			ID:        c.ID,
			Name:      c.Name,
			Status:    c.Status,
			OpenRate:  c.OpenRate,
			CreatedAt: c.CreatedAt,
		})
	}

	return stats, nil
}

// CampaignAnalytics returns a campaign's counters and its latest delivery
// logs.
func (s *Store) CampaignAnalytics(ctx context.Context, id string) (*models.CampaignAnalytics, error) {
	c, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.Pool.Query(ctx,
		`SELECT l.id::text, l.campaign_id::text, l.contact_id::text, ct.email,
		        l.status, l.sent_at, l.opened_at, l.clicked_at
		 FROM email_logs l
		 JOIN contacts ct ON ct.id = l.contact_id
		 WHERE l.campaign_id=$1
		 ORDER BY l.sent_at DESC
		 LIMIT $2`,
		id,
		analyticsLogs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &models.CampaignAnalytics{
		CampaignID: c.ID,
		Name:       c.Name,
		SentCount:  c.SentCount,
		OpenCount:  c.OpenCount,
		ClickCount: c.ClickCount,
		OpenRate:   c.OpenRate,
		ClickRate:  c.ClickRate,
		Logs:       []models.EmailLog{},
	}

	for rows.Next() {
		var (
			l      models.EmailLog
			status string
		)
		if err := rows.Scan(
			&l.ID,
			&l.CampaignID,
			&l.ContactID,
			&l.Email,
			&status,
			&l.SentAt,
			&l.OpenedAt,
			&l.ClickedAt,
		); err != nil {
			return nil, err
		}
		l.Status = models.DeliveryStatus(status)
		out.Logs = append(out.Logs, l)
	}

	return out, rows.Err()
}
