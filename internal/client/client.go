// Package client is the console's typed boundary to the MailDesk backend.
// Every operation is a single request with no caching or retries; failures
// are classified as apperrors.NetworkError, HTTPError or DecodeError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"MailDesk/internal/apperrors"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Log:        log,
	}
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(op, method, path string, payload any) (request, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("%s: encode request: %w", op, err)
	}
	return request{
		op:          op,
		method:      method,
		path:        path,
		body:        bytes.NewReader(buf),
		contentType: "application/json",
	}, nil
}

// send performs req and returns the raw success body.
func (c *Client) send(ctx context.Context, req request) ([]byte, error) {
	target := c.BaseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		c.Log.Debug("request failed",
			zap.String("op", req.op),
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err))
		return nil, &apperrors.NetworkError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.NetworkError{Op: req.op, Err: err}
	}

	c.Log.Debug("request completed",
		zap.String("op", req.op),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.HTTPError{Status: resp.StatusCode, Detail: errorDetail(body)}
	}
	return body, nil
}

// do performs req and decodes a JSON success body into out when out is not nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	body, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &apperrors.DecodeError{Op: req.op, Err: err}
	}
	return nil
}

// errorDetail extracts the server message from an error body. The backend
// uses "detail"; older endpoints answered with "error".
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}

func escape(id string) string {
	return url.PathEscape(id)
}

var errEmptyID = errors.New("id must not be empty")

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &apperrors.ValidationError{Field: field, Message: errEmptyID.Error()}
	}
	return nil
}
