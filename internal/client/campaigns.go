package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

// ListCampaigns returns every campaign. Order is whatever the backend sends.
func (c *Client) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	const op = "list campaigns"
	body, err := c.send(ctx, request{op: op, method: http.MethodGet, path: "/campaigns/"})
	if err != nil {
		return nil, err
	}
	campaigns, err := decodeCampaignList(body)
	if err != nil {
		return nil, &apperrors.DecodeError{Op: op, Err: err}
	}
	return campaigns, nil
}

// decodeCampaignList accepts either a bare array or a paginated
// {"results": [...]} object and returns the campaigns in both cases.
func decodeCampaignList(body []byte) ([]models.Campaign, error) {
	trimmed := bytes.TrimSpace(body)

	var campaigns []models.Campaign
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &campaigns); err != nil {
			return nil, err
		}
	} else {
		var page struct {
			Results []models.Campaign `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, err
		}
		campaigns = page.Results
	}

	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	return campaigns, nil
}

func (c *Client) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	var campaign models.Campaign
	err := c.do(ctx, request{
		op:     "get campaign",
		method: http.MethodGet,
		path:   "/campaigns/" + escape(id) + "/",
	}, &campaign)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error) {
	req, err := jsonRequest("create campaign", http.MethodPost, "/campaigns/", in)
	if err != nil {
		return nil, err
	}
	var campaign models.Campaign
	if err := c.do(ctx, req, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, in models.CampaignInput) (*models.Campaign, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	req, err := jsonRequest("update campaign", http.MethodPut, "/campaigns/"+escape(id)+"/", in)
	if err != nil {
		return nil, err
	}
	var campaign models.Campaign
	if err := c.do(ctx, req, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "delete campaign",
		method: http.MethodDelete,
		path:   "/campaigns/" + escape(id) + "/",
	}, nil)
}

// SendCampaign asks the backend to dispatch the campaign. testMode is passed
// through verbatim; what a test send does to counters is up to the backend.
func (c *Client) SendCampaign(ctx context.Context, id string, testMode bool) (*models.SendResult, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	req, err := jsonRequest("send campaign", http.MethodPost, "/campaigns/"+escape(id)+"/send/", models.SendRequest{TestMode: testMode})
	if err != nil {
		return nil, err
	}
	var result models.SendResult
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetCampaignAnalytics(ctx context.Context, id string) (*models.CampaignAnalytics, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	var analytics models.CampaignAnalytics
	err := c.do(ctx, request{
		op:     "campaign analytics",
		method: http.MethodGet,
		path:   "/campaigns/" + escape(id) + "/analytics/",
	}, &analytics)
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *Client) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, request{
		op:     "dashboard stats",
		method: http.MethodGet,
		path:   "/analytics/dashboard/",
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GenerateEmailContent asks the backend's AI provider for email copy. An
// empty provider selects models.DefaultProvider.
func (c *Client) GenerateEmailContent(ctx context.Context, prompt, provider string) (*models.GeneratedContent, error) {
	if provider == "" {
		provider = models.DefaultProvider
	}
	req, err := jsonRequest("generate content", http.MethodPost, "/ai/generate/", models.GenerateRequest{
		Prompt:   prompt,
		Provider: provider,
	})
	if err != nil {
		return nil, err
	}
	var content models.GeneratedContent
	if err := c.do(ctx, req, &content); err != nil {
		return nil, err
	}
	return &content, nil
}
