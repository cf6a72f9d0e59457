package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"MailDesk/internal/models"
)

const campaignColumns = `c.id::text, c.name, c.subject, c.content, c.cc_email, c.bcc_email,
	c.status, c.scheduled_at, c.sent_count, c.open_count, c.click_count, c.created_at,
	(SELECT COUNT(*) FROM campaign_recipients r WHERE r.campaign_id = c.id)`

func scanCampaign(row pgx.Row) (models.Campaign, error) {
	var (
		c      models.Campaign
		status string
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Subject,
		&c.Content,
		&c.CCEmail,
		&c.BCCEmail,
		&status,
		&c.ScheduledAt,
		&c.SentCount,
		&c.OpenCount,
		&c.ClickCount,
		&c.CreatedAt,
		&c.RecipientCount,
	)
	c.Status = models.CampaignStatus(status)
	c.OpenRate = models.Rate(c.OpenCount, c.SentCount)
	c.ClickRate = models.Rate(c.ClickCount, c.SentCount)
	return c, err
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *Store) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return s.listCampaigns(ctx, 0)
}

// RecentCampaigns returns the newest n campaigns.
func (s *Store) RecentCampaigns(ctx context.Context, n int) ([]models.Campaign, error) {
	return s.listCampaigns(ctx, n)
}

func (s *Store) listCampaigns(ctx context.Context, limit int) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c ORDER BY c.created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	c, err := scanCampaign(s.Pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns c WHERE c.id=$1`,
		id,
	))
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CreateCampaign stores a new draft along with any explicit recipients.
func (s *Store) CreateCampaign(
	ctx context.Context,
	in models.CampaignInput,
) (*models.Campaign, error) {

	id := uuid.NewString()

	err := pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO campaigns
			 (id, name, subject, content, cc_email, bcc_email, status, scheduled_at, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())`,
			id,
			in.Name,
			in.Subject,
			in.Content,
			nullable(in.CCEmail),
			nullable(in.BCCEmail),
			string(models.CampaignDraft),
			in.ScheduledAt,
		)
		if err != nil {
			return err
		}
		return setRecipients(ctx, tx, id, in.RecipientIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCampaign(ctx, id)
}

func setRecipients(ctx context.Context, tx pgx.Tx, campaignID string, contactIDs []string) error {
	for _, contactID := range contactIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO campaign_recipients (campaign_id, contact_id)
			 VALUES ($1,$2)
			 ON CONFLICT DO NOTHING`,
			campaignID,
			contactID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateCampaign applies the non-nil fields of p. An empty CC or BCC clears
// the column.
func (s *Store) UpdateCampaign(
	ctx context.Context,
	id string,
	p models.CampaignPatch,
) (*models.Campaign, error) {

	sets := []string{"updated_at=NOW()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Subject != nil {
		add("subject", *p.Subject)
	}
	if p.Content != nil {
		add("content", *p.Content)
	}
	if p.CCEmail != nil {
		add("cc_email", nullable(*p.CCEmail))
	}
	if p.BCCEmail != nil {
		add("bcc_email", nullable(*p.BCCEmail))
	}
	if p.ScheduledAt != nil {
		add("scheduled_at", *p.ScheduledAt)
	}

	tag, err := s.Pool.Exec(ctx,
		`UPDATE campaigns SET `+strings.Join(sets, ", ")+` WHERE id=$1`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.GetCampaign(ctx, id)
}

func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Recipients returns the subscribed contacts a campaign goes to: the
// subscribed members of its explicit recipient list, or every subscribed
// contact when that set is empty.
func (s *Store) Recipients(ctx context.Context, campaignID string) ([]models.Contact, error) {
	rows, err := s.Pool.Query(ctx,
		`WITH explicit AS (
		   SELECT r.contact_id FROM campaign_recipients r
		   JOIN contacts c ON c.id = r.contact_id
		   WHERE r.campaign_id=$1 AND c.is_subscribed
		 )
		 SELECT `+contactColumns+` FROM contacts
		 WHERE is_subscribed
		   AND (
		     NOT EXISTS (SELECT 1 FROM explicit)
		     OR id IN (SELECT contact_id FROM explicit)
		   )
		 ORDER BY created_at`,
		campaignID,
	)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (s *Store) UpdateCampaignStatus(
	ctx context.Context,
	id string,
	status models.CampaignStatus,
) error {

	_, err := s.Pool.Exec(ctx,
		`UPDATE campaigns
		 SET status=$1,
		     updated_at=NOW()
		 WHERE id=$2`,
		string(status),
		id,
	)

	return err
}

// CompleteCampaign marks a live dispatch finished.
func (s *Store) CompleteCampaign(ctx context.Context, id string, sent int) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE campaigns
		 SET status=$1,
		     sent_count=$2,
		     updated_at=NOW()
		 WHERE id=$3`,
		string(models.CampaignSent),
		sent,
		id,
	)

	return err
}

// RecordDelivery logs one delivery attempt.
func (s *Store) RecordDelivery(
	ctx context.Context,
	campaignID, contactID string,
	status models.DeliveryStatus,
) error {

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO email_logs
		 (id, campaign_id, contact_id, status, sent_at)
		 VALUES ($1,$2,$3,$4,NOW())`,
		uuid.NewString(),
		campaignID,
		contactID,
		string(status),
	)

	return err
}
