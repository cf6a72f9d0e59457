package api

import (
	"errors"
	"net/http"
	"strings"

	"MailDesk/internal/ai"
	"MailDesk/internal/models"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.DashboardStats(r.Context(), h.now())
	if err != nil {
		h.storeError(w, "dashboard stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) CampaignAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	out, err := h.Store.CampaignAnalytics(r.Context(), id)
	if err != nil {
		h.storeError(w, "campaign analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if req.Provider == "" {
		req.Provider = models.DefaultProvider
	}

	out, err := h.AI.Generate(r.Context(), req.Provider, req.Model, req.Prompt)
	switch {
	case errors.Is(err, ai.ErrNotConfigured), errors.Is(err, ai.ErrAuth):
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "Content generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, out)
}
