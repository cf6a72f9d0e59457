package api

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"MailDesk/internal/csvparser"
	"MailDesk/internal/metrics"
	"MailDesk/internal/models"
)

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Store.ListCampaigns(r.Context())
	if err != nil {
		h.storeError(w, "list campaigns", err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.Store.GetCampaign(r.Context(), id)
	if err != nil {
		h.storeError(w, "get campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func validateCampaign(name, subject *string, cc, bcc *string) string {
	switch {
	case name != nil && strings.TrimSpace(*name) == "":
		return "name: This field may not be blank."
	case subject != nil && strings.TrimSpace(*subject) == "":
		return "subject: This field may not be blank."
	case cc != nil && !optionalEmail(*cc):
		return "cc_email: Enter a valid email address."
	case bcc != nil && !optionalEmail(*bcc):
		return "bcc_email: Enter a valid email address."
	}
	return ""
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in models.CampaignInput
	if !decode(w, r, &in) {
		return
	}

	if msg := validateCampaign(&in.Name, &in.Subject, &in.CCEmail, &in.BCCEmail); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.Store.CreateCampaign(r.Context(), in)
	if err != nil {
		h.storeError(w, "create campaign", err)
		return
	}

	h.log().Info("campaign created", zap.String("campaign_id", c.ID), zap.String("name", c.Name))
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var p models.CampaignPatch
	if !decode(w, r, &p) {
		return
	}

	if msg := validateCampaign(p.Name, p.Subject, p.CCEmail, p.BCCEmail); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.Store.UpdateCampaign(r.Context(), id, p)
	if err != nil {
		h.storeError(w, "update campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Store.DeleteCampaign(r.Context(), id); err != nil {
		h.storeError(w, "delete campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendCampaign delivers a campaign. A test send goes to the first recipient
// only and leaves the campaign untouched; a live send moves it through
// sending to sent and records every delivery.
func (h *Handler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.SendRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	ctx := r.Context()

	c, err := h.Store.GetCampaign(ctx, id)
	if err != nil {
		h.storeError(w, "get campaign", err)
		return
	}
	if c.Status == models.CampaignSent {
		writeError(w, http.StatusBadRequest, "Campaign already sent")
		return
	}

	recipients, err := h.Store.Recipients(ctx, id)
	if err != nil {
		h.storeError(w, "campaign recipients", err)
		return
	}
	if len(recipients) == 0 {
		writeError(w, http.StatusBadRequest, "No recipients found")
		return
	}

	jobs := Jobs(c, recipients)
	start := time.Now()

	if req.TestMode {
		metrics.CampaignDispatches.WithLabelValues("test").Inc()
		res := h.Test.Dispatch(ctx, jobs[:1])

		h.log().Info("test email dispatched",
			zap.String("campaign_id", id),
			zap.String("to", jobs[0].To),
			zap.Int("sent", res.Sent))

		writeJSON(w, http.StatusOK, models.SendResult{
			CampaignID: id,
			Sent:       res.Sent,
			Failed:     res.Failed,
			Message:    fmt.Sprintf("Test email sent to %d recipients", res.Sent),
		})
		return
	}

	metrics.CampaignDispatches.WithLabelValues("live").Inc()

	// A live send runs to completion even if the caller disconnects.
	ctx = context.WithoutCancel(ctx)

	if err := h.Store.UpdateCampaignStatus(ctx, id, models.CampaignSending); err != nil {
		h.storeError(w, "mark campaign sending", err)
		return
	}

	res := h.Live.Dispatch(ctx, jobs)
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	if err := h.Store.CompleteCampaign(ctx, id, res.Sent); err != nil {
		h.storeError(w, "complete campaign", err)
		return
	}

	h.log().Info("campaign dispatched",
		zap.String("campaign_id", id),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
		zap.Duration("duration", time.Since(start)))

	writeJSON(w, http.StatusOK, models.SendResult{
		CampaignID: id,
		Sent:       res.Sent,
		Failed:     res.Failed,
		Message:    fmt.Sprintf("Campaign sent to %d recipients", res.Sent),
	})
}

// NamePlaceholder in campaign content is replaced with each recipient's name.
const NamePlaceholder = "[Name]"

// Jobs renders one message per recipient, personalising NamePlaceholder.
// Contacts without a name are greeted as "there".
func Jobs(c *models.Campaign, recipients []models.Contact) []models.EmailJob {
	jobs := make([]models.EmailJob, 0, len(recipients))
	for _, contact := range recipients {
		name := strings.TrimSpace(contact.Name)
		if name == "" {
			name = "there"
		}
		job := models.EmailJob{
			CampaignID: c.ID,
			ContactID:  contact.ID,
			To:         contact.Email,
			Subject:    c.Subject,
			HTMLBody:   strings.ReplaceAll(c.Content, NamePlaceholder, html.EscapeString(name)),
		}
		if c.CCEmail != nil {
			job.CC = *c.CCEmail
		}
		if c.BCCEmail != nil {
			job.BCC = *c.BCCEmail
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func optionalEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || csvparser.ValidEmail(s)
}
