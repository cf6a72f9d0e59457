package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   DefaultModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := New("openai-key", "router-key", "", nil)
	g.Options = []option.RequestOption{
		option.WithBaseURL(srv.URL + "/"),
		option.WithMaxRetries(0),
	}
	return g
}

func TestGenerate_DecodesJSON(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer router-key", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultModel, body["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(
			"```json\n{\"subject\":\"Spring Sale\",\"title\":\"Fresh Deals\",\"body\":\"Save <b>20%</b>\",\"cta_text\":\"Shop Now\"}\n```",
		))
	})

	got, err := g.Generate(context.Background(), "", "", "spring sale")
	require.NoError(t, err)
	assert.Equal(t, "Spring Sale", got.Subject)
	assert.Equal(t, "Fresh Deals", got.Title)
	assert.Equal(t, "Shop Now", got.CTAText)
}

func TestGenerate_OpenAIKey(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer openai-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"subject":"s","title":"t","body":"b","cta_text":"c"}`))
	})

	got, err := g.Generate(context.Background(), ProviderOpenAI, "gpt-4o-mini", "x")
	require.NoError(t, err)
	assert.Equal(t, "s", got.Subject)
}

func TestGenerate_MissingKey(t *testing.T) {
	g := New("", "", "", nil)

	_, err := g.Generate(context.Background(), ProviderOpenRouter, "", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "OpenRouter")
}

func TestGenerate_Unauthorized(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"User not found","type":"auth"}}`))
	})

	_, err := g.Generate(context.Background(), "", "", "x")
	assert.ErrorIs(t, err, ErrAuth)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		subject string
		body    string
	}{
		{"plain json", `{"subject":"Hi","title":"T","body":"B","cta_text":"C"}`, "Hi", "B"},
		{"fenced", "```\n{\"subject\":\"Hi\",\"body\":\"B\"}\n```", "Hi", "B"},
		{"prose falls back", "Buy our stuff today!", "Your Special Offer", "Buy our stuff today!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.subject, got.Subject)
			assert.Equal(t, tt.body, got.Body)
		})
	}

	fallback := Parse("nope")
	assert.Equal(t, "Exclusive Deal", fallback.Title)
	assert.Equal(t, "Learn More", fallback.CTAText)
}
