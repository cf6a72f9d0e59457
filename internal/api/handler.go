package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"MailDesk/internal/csvparser"
	"MailDesk/internal/db"
	"MailDesk/internal/models"
	"MailDesk/internal/worker"
)

// Store is the persistence the handlers need. *db.Store satisfies it.
type Store interface {
	ListContacts(ctx context.Context, search string, limit, offset int) ([]models.Contact, int, error)
	CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error)
	DeleteContact(ctx context.Context, id string) error
	ImportContacts(ctx context.Context, rows []csvparser.ContactRow) (imported, skipped int, err error)

	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, p models.CampaignPatch) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error
	Recipients(ctx context.Context, campaignID string) ([]models.Contact, error)
	UpdateCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) error
	CompleteCampaign(ctx context.Context, id string, sent int) error

	DashboardStats(ctx context.Context, now time.Time) (*models.DashboardStats, error)
	CampaignAnalytics(ctx context.Context, id string) (*models.CampaignAnalytics, error)
}

// Dispatcher delivers a batch of rendered messages. *worker.Pool satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobs []models.EmailJob) worker.Result
}

type Generator interface {
	Generate(ctx context.Context, provider, model, prompt string) (*models.GeneratedContent, error)
}

const PageSize = 25

type Handler struct {
	Store Store
	// Live records every delivery; Test records nothing.
	Live Dispatcher
	Test Dispatcher
	AI   Generator
	Log  *zap.Logger
	Now  func() time.Time
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/contacts/", h.ListContacts)
		r.Post("/contacts/", h.CreateContact)
		r.Post("/contacts/import_csv/", h.ImportContacts)
		r.Delete("/contacts/{id}/", h.DeleteContact)

		r.Get("/campaigns/", h.ListCampaigns)
		r.Post("/campaigns/", h.CreateCampaign)
		r.Get("/campaigns/{id}/", h.GetCampaign)
		r.Put("/campaigns/{id}/", h.UpdateCampaign)
		r.Patch("/campaigns/{id}/", h.UpdateCampaign)
		r.Delete("/campaigns/{id}/", h.DeleteCampaign)
		r.Post("/campaigns/{id}/send/", h.SendCampaign)
		r.Get("/campaigns/{id}/analytics/", h.CampaignAnalytics)

		r.Get("/analytics/dashboard/", h.Dashboard)
		r.Post("/ai/generate/", h.Generate)
	})

	return r
}

func (h *Handler) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.log().Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

// storeError writes the response for a failed store call.
func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		h.log().Error("store failure", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID returns the {id} parameter, writing a 404 if it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return "", false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
