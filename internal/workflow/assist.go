package workflow

import (
	"context"
	"strings"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

// Generator is the backend capability AI assist needs.
type Generator interface {
	GenerateEmailContent(ctx context.Context, prompt, provider string) (*models.GeneratedContent, error)
}

// Assist requests generated copy for prompt. A blank prompt is rejected
// without calling the generator.
func Assist(ctx context.Context, gen Generator, prompt, provider string) (*models.GeneratedContent, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidation("prompt", "Please enter a prompt first")
	}
	return gen.GenerateEmailContent(ctx, prompt, provider)
}
