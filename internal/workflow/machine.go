// Package workflow drives a campaign from details through content and
// preview to send. Transition is a pure function; Session executes the
// commands it emits against the backend.
package workflow

import (
	"errors"
	"fmt"

	"MailDesk/internal/campaign"
	"MailDesk/internal/models"
)

// Step is one stage of the campaign workflow.
type Step string

const (
	StepDetails Step = "details"
	StepContent Step = "content"
	StepPreview Step = "preview"
	StepSend    Step = "send"
)

// Steps lists the workflow steps in order.
var Steps = []Step{StepDetails, StepContent, StepPreview, StepSend}

// Index returns the zero-based position of s in Steps, or -1.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrNotSaved means a dispatch was requested before the draft was ever
	// persisted. The workflow never does this on its own.
	ErrNotSaved = errors.New("campaign has not been saved")
)

// State is everything a workflow session owns.
type State struct {
	Step       Step
	CampaignID string
	Draft      campaign.Draft
	Result     *Outcome
}

// Editing reports whether the workflow was opened on an existing campaign
// or has saved one.
func (s State) Editing() bool {
	return s.CampaignID != ""
}

// Event is an operator action or a backend result fed to Transition.
type Event interface{ event() }

type (
	// Next moves details -> content.
	Next struct{}
	// Back moves preview -> content and content -> details.
	Back struct{}
	// Save asks to persist the draft from the content step.
	Save struct{}
	// Saved reports a successful create or update.
	Saved struct{ Campaign *models.Campaign }
	// Send asks to dispatch the saved campaign from the preview step.
	Send struct{ TestMode bool }
	// Sent reports a successful dispatch, including partial failures.
	Sent struct{ Outcome Outcome }
)

func (Next) event()  {}
func (Back) event()  {}
func (Save) event()  {}
func (Saved) event() {}
func (Send) event()  {}
func (Sent) event()  {}

// Command is a backend call a transition asks the caller to perform.
type Command interface{ command() }

type (
	CreateCampaign struct{ Input models.CampaignInput }
	UpdateCampaign struct {
		ID    string
		Input models.CampaignInput
	}
	SendCampaign struct {
		ID       string
		TestMode bool
	}
)

func (CreateCampaign) command() {}
func (UpdateCampaign) command() {}
func (SendCampaign) command()   {}

func invalid(s State, e Event) error {
	return fmt.Errorf("%w: %T at %s", ErrInvalidTransition, e, s.Step)
}

// Transition applies e to s. It returns the next state and, for events that
// need the backend, the command to run. On error s is returned unchanged.
func Transition(s State, e Event) (State, Command, error) {
	if s.Step == StepSend {
		return s, nil, invalid(s, e)
	}

	switch e := e.(type) {
	case Next:
		if s.Step != StepDetails {
			return s, nil, invalid(s, e)
		}
		if err := s.Draft.RequireDetails(); err != nil {
			return s, nil, err
		}
		s.Step = StepContent
		return s, nil, nil

	case Back:
		switch s.Step {
		case StepPreview:
			s.Step = StepContent
		case StepContent:
			s.Step = StepDetails
		default:
			return s, nil, invalid(s, e)
		}
		return s, nil, nil

	case Save:
		if s.Step != StepContent {
			return s, nil, invalid(s, e)
		}
		if err := s.Draft.RequireContent(); err != nil {
			return s, nil, err
		}
		if s.CampaignID == "" {
			return s, CreateCampaign{Input: s.Draft.Input()}, nil
		}
		return s, UpdateCampaign{ID: s.CampaignID, Input: s.Draft.Input()}, nil

	case Saved:
		// The first id obtained is kept for the rest of the session.
		if s.CampaignID == "" && e.Campaign != nil {
			s.CampaignID = e.Campaign.ID
		}
		if s.Step == StepContent {
			s.Step = StepPreview
		}
		return s, nil, nil

	case Send:
		if s.Step != StepPreview {
			return s, nil, invalid(s, e)
		}
		if s.CampaignID == "" {
			return s, nil, ErrNotSaved
		}
		return s, SendCampaign{ID: s.CampaignID, TestMode: e.TestMode}, nil

	case Sent:
		// Accepted from any step before send: the dispatch already happened.
		outcome := e.Outcome
		s.Result = &outcome
		s.Step = StepSend
		return s, nil, nil
	}

	return s, nil, invalid(s, e)
}
