// Package campaign holds the operator's local, unsaved copy of a campaign
// and the rules that gate moving it forward.
package campaign

import (
	"fmt"
	"html"
	"strings"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

// Draft mirrors the editable subset of models.Campaign. Prompt is only used
// for AI assist and is never sent with a save.
type Draft struct {
	Name     string
	Subject  string
	Content  string
	CCEmail  string
	BCCEmail string
	Prompt   string
}

// FromCampaign hydrates a draft from a persisted campaign. Missing CC/BCC
// become empty strings.
func FromCampaign(c *models.Campaign) Draft {
	d := Draft{
		Name:    c.Name,
		Subject: c.Subject,
		Content: c.Content,
	}
	if c.CCEmail != nil {
		d.CCEmail = *c.CCEmail
	}
	if c.BCCEmail != nil {
		d.BCCEmail = *c.BCCEmail
	}
	return d
}

// Input is the payload for both create and update.
func (d Draft) Input() models.CampaignInput {
	return models.CampaignInput{
		Name:     d.Name,
		Subject:  d.Subject,
		Content:  d.Content,
		CCEmail:  d.CCEmail,
		BCCEmail: d.BCCEmail,
	}
}

func (d Draft) CanLeaveDetails() bool {
	return strings.TrimSpace(d.Name) != ""
}

func (d Draft) CanLeaveContent() bool {
	return strings.TrimSpace(d.Subject) != "" && strings.TrimSpace(d.Content) != ""
}

// RequireDetails returns a ValidationError when the details step is incomplete.
func (d Draft) RequireDetails() error {
	if !d.CanLeaveDetails() {
		return apperrors.NewValidation("name", "campaign name is required")
	}
	return nil
}

// RequireContent returns a ValidationError when the content step is incomplete.
func (d Draft) RequireContent() error {
	if strings.TrimSpace(d.Subject) == "" {
		return apperrors.NewValidation("subject", "subject is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return apperrors.NewValidation("content", "content is required")
	}
	return nil
}

// SameFields reports whether the persisted fields of d and o match. Prompt
// is ignored.
func (d Draft) SameFields(o Draft) bool {
	return d.Name == o.Name &&
		d.Subject == o.Subject &&
		d.Content == o.Content &&
		d.CCEmail == o.CCEmail &&
		d.BCCEmail == o.BCCEmail
}

// ApplyGenerated overwrites subject and content with generated copy. Earlier
// manual edits to either field are lost.
func (d *Draft) ApplyGenerated(g models.GeneratedContent) {
	d.Subject = g.Subject
	d.Content = ComposeHTML(g.Title, g.Body, g.CTAText)
}

const ctaStyle = "background:#3b82f6;color:white;padding:12px 24px;border:none;border-radius:8px;cursor:pointer;"

// ComposeHTML renders generated copy as an email fragment: a heading, a body
// paragraph and a call-to-action button. The body may already contain inline
// markup and is inserted unescaped.
func ComposeHTML(title, body, cta string) string {
	return fmt.Sprintf(`<h2>%s</h2><p>%s</p><button style="%s">%s</button>`,
		html.EscapeString(title), body, ctaStyle, html.EscapeString(cta))
}
