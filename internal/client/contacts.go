package client

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/csvparser"
	"MailDesk/internal/models"
)

// ListContacts fetches one page of contacts. An empty search is unfiltered.
func (c *Client) ListContacts(ctx context.Context, page int, search string) (*models.ContactPage, error) {
	if page < 1 {
		return nil, apperrors.NewValidation("page", "page must be at least 1")
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if search != "" {
		query.Set("search", search)
	}

	var list models.ContactList
	err := c.do(ctx, request{
		op:     "list contacts",
		method: http.MethodGet,
		path:   "/contacts/",
		query:  query,
	}, &list)
	if err != nil {
		return nil, err
	}

	items := list.Results
	if items == nil {
		items = []models.Contact{}
	}
	return &models.ContactPage{
		Count:       list.Count,
		Items:       items,
		HasNext:     list.Next != nil && *list.Next != "",
		HasPrevious: list.Previous != nil && *list.Previous != "",
	}, nil
}

// CreateContact adds a contact. A malformed email is rejected locally; a
// backend 400 (malformed or duplicate) comes back as a ValidationError
// wrapping the HTTPError.
func (c *Client) CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	in.Email = strings.TrimSpace(in.Email)
	if !csvparser.ValidEmail(in.Email) {
		return nil, apperrors.NewValidation("email", "enter a valid email address")
	}

	req, err := jsonRequest("create contact", http.MethodPost, "/contacts/", in)
	if err != nil {
		return nil, err
	}

	var contact models.Contact
	if err := c.do(ctx, req, &contact); err != nil {
		var h *apperrors.HTTPError
		if errors.As(err, &h) && h.Status == http.StatusBadRequest {
			return nil, &apperrors.ValidationError{Field: "email", Message: apperrors.Message(h), Err: h}
		}
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a contact. A missing id is reported as an HTTPError
// with status 404; callers use apperrors.IsNotFound to treat it as done.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	return c.do(ctx, request{
		op:     "delete contact",
		method: http.MethodDelete,
		path:   "/contacts/" + escape(id) + "/",
	}, nil)
}

// ImportContacts uploads a CSV file as the multipart field "file".
func (c *Client) ImportContacts(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var result models.ImportResult
	err = c.do(ctx, request{
		op:          "import contacts",
		method:      http.MethodPost,
		path:        "/contacts/import_csv/",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
