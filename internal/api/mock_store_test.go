package api

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"MailDesk/internal/csvparser"
	"MailDesk/internal/models"
	"MailDesk/internal/worker"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListContacts(ctx context.Context, search string, limit, offset int) ([]models.Contact, int, error) {
	args := m.Called(ctx, search, limit, offset)
	contacts, _ := args.Get(0).([]models.Contact)
	return contacts, args.Int(1), args.Error(2)
}

func (m *MockStore) CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*models.Contact)
	return c, args.Error(1)
}

func (m *MockStore) DeleteContact(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ImportContacts(ctx context.Context, rows []csvparser.ContactRow) (int, int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStore) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	args := m.Called(ctx)
	campaigns, _ := args.Get(0).([]models.Campaign)
	return campaigns, args.Error(1)
}

func (m *MockStore) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Campaign)
	return c, args.Error(1)
}

func (m *MockStore) CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*models.Campaign)
	return c, args.Error(1)
}

func (m *MockStore) UpdateCampaign(ctx context.Context, id string, p models.CampaignPatch) (*models.Campaign, error) {
	args := m.Called(ctx, id, p)
	c, _ := args.Get(0).(*models.Campaign)
	return c, args.Error(1)
}

func (m *MockStore) DeleteCampaign(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) Recipients(ctx context.Context, campaignID string) ([]models.Contact, error) {
	args := m.Called(ctx, campaignID)
	contacts, _ := args.Get(0).([]models.Contact)
	return contacts, args.Error(1)
}

func (m *MockStore) UpdateCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockStore) CompleteCampaign(ctx context.Context, id string, sent int) error {
	return m.Called(ctx, id, sent).Error(0)
}

func (m *MockStore) DashboardStats(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	args := m.Called(ctx, now)
	s, _ := args.Get(0).(*models.DashboardStats)
	return s, args.Error(1)
}

func (m *MockStore) CampaignAnalytics(ctx context.Context, id string) (*models.CampaignAnalytics, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.CampaignAnalytics)
	return a, args.Error(1)
}

// fakeDispatcher delivers everything except addresses listed in fail.
type fakeDispatcher struct {
	mu   sync.Mutex
	fail map[string]bool
	jobs []models.EmailJob
}

func (d *fakeDispatcher) Dispatch(_ context.Context, jobs []models.EmailJob) worker.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	var res worker.Result
	for _, job := range jobs {
		d.jobs = append(d.jobs, job)
		if d.fail[job.To] {
			res.Failed++
		} else {
			res.Sent++
		}
	}
	return res
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, provider, model, prompt string) (*models.GeneratedContent, error) {
	args := m.Called(ctx, provider, model, prompt)
	g, _ := args.Get(0).(*models.GeneratedContent)
	return g, args.Error(1)
}
