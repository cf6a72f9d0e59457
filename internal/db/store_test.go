package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MailDesk/internal/csvparser"
	"MailDesk/internal/models"
)

// newTestStore connects to TEST_DATABASE_URL. Every table is emptied first.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := New(url)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	_, err = s.Pool.Exec(ctx, `TRUNCATE email_logs, campaign_recipients, campaigns, contacts`)
	require.NoError(t, err)
	return s
}

func TestStore_Contacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ann, err := s.CreateContact(ctx, models.ContactInput{Email: "Ann@Example.com", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", ann.Email)
	assert.True(t, ann.IsSubscribed)

	_, err = s.CreateContact(ctx, models.ContactInput{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	imported, skipped, err := s.ImportContacts(ctx, []csvparser.ContactRow{
		{Email: "bob@example.com", Name: "Bob"},
		{Email: "ann@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	found, total, err := s.ListContacts(ctx, "bob", 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob", found[0].Name)

	require.NoError(t, s.DeleteContact(ctx, ann.ID))
	assert.ErrorIs(t, s.DeleteContact(ctx, ann.ID), ErrNotFound)
}

func TestStore_CampaignLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	contact, err := s.CreateContact(ctx, models.ContactInput{Email: "r@example.com"})
	require.NoError(t, err)

	c, err := s.CreateCampaign(ctx, models.CampaignInput{
		Name:    "Launch",
		Subject: "Hi",
		Content: "<p>x</p>",
		CCEmail: "cc@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignDraft, c.Status)
	require.NotNil(t, c.CCEmail)
	assert.Nil(t, c.BCCEmail)

	cleared := ""
	name := "Promo"
	c, err = s.UpdateCampaign(ctx, c.ID, models.CampaignPatch{Name: &name, CCEmail: &cleared})
	require.NoError(t, err)
	assert.Equal(t, "Promo", c.Name)
	assert.Equal(t, "Hi", c.Subject)
	assert.Nil(t, c.CCEmail)

	recipients, err := s.Recipients(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)

	require.NoError(t, s.UpdateCampaignStatus(ctx, c.ID, models.CampaignSending))
	require.NoError(t, s.RecordDelivery(ctx, c.ID, contact.ID, models.DeliverySent))
	require.NoError(t, s.CompleteCampaign(ctx, c.ID, 1))

	c, err = s.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, c.Status)
	assert.Equal(t, 1, c.SentCount)

	a, err := s.CampaignAnalytics(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, a.Logs, 1)
	assert.Equal(t, "r@example.com", a.Logs[0].Email)

	stats, err := s.DashboardStats(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stats.TotalSent)
	assert.Len(t, stats.ChartData, 7)
	assert.Len(t, stats.RecentCampaigns, 1)

	require.NoError(t, s.DeleteCampaign(ctx, c.ID))
	_, err = s.GetCampaign(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RecipientsFallBackWhenNoExplicitSubscriber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gone, err := s.CreateContact(ctx, models.ContactInput{Email: "gone@example.com"})
	require.NoError(t, err)
	kept, err := s.CreateContact(ctx, models.ContactInput{Email: "kept@example.com"})
	require.NoError(t, err)
	_, err = s.Pool.Exec(ctx, `UPDATE contacts SET is_subscribed=false WHERE id=$1`, gone.ID)
	require.NoError(t, err)

	only, err := s.CreateCampaign(ctx, models.CampaignInput{
		Name: "Only unsubscribed", Subject: "Hi", Content: "x",
		RecipientIDs: []string{gone.ID},
	})
	require.NoError(t, err)
	got, err := s.Recipients(ctx, only.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kept.ID, got[0].ID)

	third, err := s.CreateContact(ctx, models.ContactInput{Email: "third@example.com"})
	require.NoError(t, err)
	explicit, err := s.CreateCampaign(ctx, models.CampaignInput{
		Name: "Explicit", Subject: "Hi", Content: "x",
		RecipientIDs: []string{gone.ID, third.ID},
	})
	require.NoError(t, err)
	got, err = s.Recipients(ctx, explicit.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, third.ID, got[0].ID)
}
