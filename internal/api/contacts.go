package api

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"MailDesk/internal/csvparser"
	"MailDesk/internal/db"
	"MailDesk/internal/metrics"
	"MailDesk/internal/models"
)

const maxImportSize = 10 << 20

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			writeError(w, http.StatusNotFound, "Invalid page.")
			return
		}
		page = p
	}
	search := r.URL.Query().Get("search")

	contacts, total, err := h.Store.ListContacts(r.Context(), search, PageSize, (page-1)*PageSize)
	if err != nil {
		h.storeError(w, "list contacts", err)
		return
	}

	out := models.ContactList{Count: total, Results: contacts}
	if page*PageSize < total {
		next := pageURL(r, page+1)
		out.Next = &next
	}
	if page > 1 {
		prev := pageURL(r, page-1)
		out.Previous = &prev
	}

	writeJSON(w, http.StatusOK, out)
}

// pageURL rebuilds the request URL pointing at another page.
func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	if !decode(w, r, &in) {
		return
	}

	in.Email = strings.TrimSpace(in.Email)
	if !csvparser.ValidEmail(in.Email) {
		writeError(w, http.StatusBadRequest, "Enter a valid email address.")
		return
	}

	c, err := h.Store.CreateContact(r.Context(), in)
	if errors.Is(err, db.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "contact with this email already exists.")
		return
	}
	if err != nil {
		h.storeError(w, "create contact", err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Store.DeleteContact(r.Context(), id); err != nil {
		h.storeError(w, "delete contact", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ImportContacts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "File must be a CSV")
		return
	}

	parsed, err := csvparser.ParseContacts(file, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported, duplicates, err := h.Store.ImportContacts(r.Context(), parsed.Rows)
	if err != nil {
		h.storeError(w, "import contacts", err)
		return
	}
	metrics.ContactsImported.Add(float64(imported))

	h.log().Info("contacts imported",
		zap.String("file", header.Filename),
		zap.Int("imported", imported),
		zap.Int("skipped", parsed.Skipped+duplicates))

	writeJSON(w, http.StatusOK, models.ImportResult{
		Message:  "Import complete",
		Imported: imported,
		Skipped:  parsed.Skipped + duplicates,
	})
}
