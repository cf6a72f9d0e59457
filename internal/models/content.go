package models

const DefaultProvider = "OpenRouter"

type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// GeneratedContent is transient AI output; it is merged into a draft and
// never persisted on its own.
type GeneratedContent struct {
	Subject string `json:"subject"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	CTAText string `json:"cta_text"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
