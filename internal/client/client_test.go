package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", zap.NewNop()), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListContacts_QueryAndPaging(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "ann & co", r.URL.Query().Get("search"))
		next := "http://x/api/contacts/?page=3"
		writeJSON(w, http.StatusOK, models.ContactList{
			Count:   51,
			Results: []models.Contact{{ID: "c1", Email: "ann@example.com"}},
			Next:    &next,
		})
	})

	page, err := c.ListContacts(context.Background(), 2, "ann & co")
	require.NoError(t, err)
	assert.Equal(t, 51, page.Count)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestListContacts_EmptySearchIsUnfiltered(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["search"]
		assert.False(t, present)
		writeJSON(w, http.StatusOK, models.ContactList{})
	})

	page, err := c.ListContacts(context.Background(), 1, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
}

func TestListContacts_InvalidPage(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.ListContacts(context.Background(), 0, "")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, *calls)
}

func TestCreateContact_LocalValidation(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.CreateContact(context.Background(), models.ContactInput{Email: "not-an-email"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, *calls)
}

func TestCreateContact_AcceptsNonASCIILocalPart(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in models.ContactInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, models.Contact{ID: "c1", Email: in.Email})
	})

	got, err := c.CreateContact(context.Background(), models.ContactInput{Email: "josé@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "josé@example.com", got.Email)
	assert.Equal(t, 1, *calls)
}

func TestCreateContact_DuplicateIsValidation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Detail: "contact with this email already exists."})
	})

	_, err := c.CreateContact(context.Background(), models.ContactInput{Email: "dup@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	var h *apperrors.HTTPError
	require.ErrorAs(t, err, &h)
	assert.Equal(t, http.StatusBadRequest, h.Status)
	assert.Equal(t, "contact with this email already exists.", apperrors.Message(err))
}

func TestDeleteContact_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/contacts/abc/", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.DeleteContact(context.Background(), "abc")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, apperrors.GenericMessage, apperrors.Message(err))
}

func TestImportContacts_Multipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "contacts.csv", header.Filename)
		assert.Equal(t, "email\na@example.com\n", string(data))
		writeJSON(w, http.StatusOK, models.ImportResult{Imported: 1, Skipped: 0})
	})

	res, err := c.ImportContacts(context.Background(), "contacts.csv", []byte("email\na@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestListCampaigns_NormalizesShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":"1"},{"id":"2"}]`, 2},
		{"paginated", `{"count":1,"results":[{"id":"1"}]}`, 1},
		{"paginated without results", `{"count":0}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := c.ListCampaigns(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestListCampaigns_DecodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results": "nope"`)
	})

	_, err := c.ListCampaigns(context.Background())
	var d *apperrors.DecodeError
	assert.ErrorAs(t, err, &d)
}

func TestSendCampaign_PassesTestMode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/campaigns/42/send/", r.URL.Path)
		var req models.SendRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.TestMode)
		writeJSON(w, http.StatusOK, models.SendResult{Sent: 1, Failed: 0, Message: "Campaign sent to 1 recipients"})
	})

	res, err := c.SendCampaign(context.Background(), "42", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestHTTPError_DetailFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"detail", `{"detail":"Campaign already sent"}`, "Campaign already sent"},
		{"error key", `{"error":"Prompt is required"}`, "Prompt is required"},
		{"empty body", ``, ""},
		{"html body", `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.GenerateEmailContent(context.Background(), "hi", "")
			var h *apperrors.HTTPError
			require.ErrorAs(t, err, &h)
			assert.Equal(t, http.StatusInternalServerError, h.Status)
			assert.Equal(t, tt.detail, h.Detail)
		})
	}
}

func TestGenerateEmailContent_DefaultProvider(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.GenerateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "announce sale", req.Prompt)
		assert.Equal(t, models.DefaultProvider, req.Provider)
		writeJSON(w, http.StatusOK, models.GeneratedContent{Subject: "Sale!", Title: "Big Sale", Body: "Save now", CTAText: "Shop"})
	})

	got, err := c.GenerateEmailContent(context.Background(), "announce sale", "")
	require.NoError(t, err)
	assert.Equal(t, "Shop", got.CTAText)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	_, err := c.GetCampaign(context.Background(), "1")

	var n *apperrors.NetworkError
	assert.ErrorAs(t, err, &n)
}
