package campaign

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

func strPtr(s string) *string { return &s }

func TestFromCampaign(t *testing.T) {
	tests := []struct {
		name     string
		campaign models.Campaign
		want     Draft
	}{
		{
			name:     "missing cc and bcc",
			campaign: models.Campaign{ID: "42", Name: "Promo", Subject: "Deals", Content: "<p>hi</p>"},
			want:     Draft{Name: "Promo", Subject: "Deals", Content: "<p>hi</p>"},
		},
		{
			name: "with cc and bcc",
			campaign: models.Campaign{
				Name: "Promo", Subject: "Deals", Content: "<p>hi</p>",
				CCEmail: strPtr("boss@example.com"), BCCEmail: strPtr("archive@example.com"),
			},
			want: Draft{Name: "Promo", Subject: "Deals", Content: "<p>hi</p>", CCEmail: "boss@example.com", BCCEmail: "archive@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromCampaign(&tt.campaign)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromCampaign() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGates(t *testing.T) {
	assert.False(t, Draft{}.CanLeaveDetails())
	assert.False(t, Draft{Name: "   "}.CanLeaveDetails())
	assert.True(t, Draft{Name: "Launch"}.CanLeaveDetails())

	assert.False(t, Draft{Subject: "Hi"}.CanLeaveContent())
	assert.False(t, Draft{Content: "<p>x</p>"}.CanLeaveContent())
	assert.True(t, Draft{Subject: "Hi", Content: "<p>x</p>"}.CanLeaveContent())

	err := Draft{Subject: "Hi"}.RequireContent()
	var v *apperrors.ValidationError
	assert.ErrorAs(t, err, &v)
	assert.Equal(t, "content", v.Field)
	assert.NoError(t, Draft{Name: "Launch"}.RequireDetails())
}

func TestInputOmitsPrompt(t *testing.T) {
	d := Draft{Name: "n", Subject: "s", Content: "c", CCEmail: "cc@x.io", Prompt: "write something"}

	want := models.CampaignInput{Name: "n", Subject: "s", Content: "c", CCEmail: "cc@x.io"}
	if diff := cmp.Diff(want, d.Input()); diff != "" {
		t.Errorf("Input() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyGenerated_Overwrites(t *testing.T) {
	d := Draft{Name: "Launch", Subject: "manual subject", Content: "<p>manual</p>", Prompt: "announce sale"}

	d.ApplyGenerated(models.GeneratedContent{Subject: "Sale!", Title: "Big Sale", Body: "Save now", CTAText: "Shop"})

	assert.Equal(t, "Sale!", d.Subject)
	assert.Equal(t, "Launch", d.Name)
	assert.NotContains(t, d.Content, "manual")
	for _, part := range []string{"<h2>Big Sale</h2>", "<p>Save now</p>", ">Shop</button>"} {
		assert.True(t, strings.Contains(d.Content, part), "content %q should contain %q", d.Content, part)
	}
}

func TestComposeHTML_EscapesTitleAndCTA(t *testing.T) {
	out := ComposeHTML("Fish & Chips", "Line one<br><b>bold</b>", "<Go>")

	assert.Contains(t, out, "<h2>Fish &amp; Chips</h2>")
	assert.Contains(t, out, "<p>Line one<br><b>bold</b></p>")
	assert.Contains(t, out, "&lt;Go&gt;</button>")
}

func TestSameFields_IgnoresPrompt(t *testing.T) {
	a := Draft{Name: "n", Subject: "s", Content: "c", Prompt: "one"}
	b := Draft{Name: "n", Subject: "s", Content: "c", Prompt: "two"}
	assert.True(t, a.SameFields(b))

	b.BCCEmail = "x@y.io"
	assert.False(t, a.SameFields(b))
}
