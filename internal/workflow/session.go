package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/campaign"
	"MailDesk/internal/models"
)

// Backend is the slice of the remote service a workflow session uses.
type Backend interface {
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, in models.CampaignInput) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, in models.CampaignInput) (*models.Campaign, error)
	Sender
	Generator
}

// Action names an operator-triggered request. At most one request per
// action is outstanding at a time.
type Action string

const (
	ActionSave     Action = "save"
	ActionSend     Action = "send"
	ActionGenerate Action = "generate"
)

var (
	ErrBusy          = errors.New("action already in progress")
	ErrSessionClosed = errors.New("workflow session closed")
)

type Options struct {
	// Provider is the AI provider passed to content generation.
	Provider string
	Log      *zap.Logger
}

// Session owns one campaign draft and its workflow state. Requests run
// without holding the lock; their results are applied afterwards unless the
// session was closed in the meantime, in which case they are dropped.
type Session struct {
	backend  Backend
	provider string
	log      *zap.Logger

	mu     sync.Mutex
	state  State
	busy   map[Action]bool
	closed bool
}

// NewSession starts an empty workflow at the details step.
func NewSession(backend Backend, opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	provider := opts.Provider
	if provider == "" {
		provider = models.DefaultProvider
	}
	return &Session{
		backend:  backend,
		provider: provider,
		log:      log,
		state:    State{Step: StepDetails},
		busy:     make(map[Action]bool),
	}
}

// OpenSession starts a workflow on an existing campaign, hydrating the draft
// from the backend. If the fetch fails no session is returned.
func OpenSession(ctx context.Context, backend Backend, id string, opts Options) (*Session, error) {
	s := NewSession(backend, opts)

	c, err := backend.GetCampaign(ctx, id)
	if err != nil {
		s.log.Warn("failed to load campaign", zap.String("campaign_id", id), zap.Error(err))
		return nil, err
	}

	s.state.CampaignID = id
	s.state.Draft = campaign.FromCampaign(c)
	s.log.Debug("campaign loaded", zap.String("campaign_id", id), zap.String("name", c.Name))
	return s, nil
}

// State returns a copy of the current workflow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	return st
}

// Busy reports whether a request for a is outstanding.
func (s *Session) Busy(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[a]
}

// Close ends the session. Outstanding requests are not aborted; their
// results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Edit applies fn to the draft.
func (s *Session) Edit(fn func(d *campaign.Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Step == StepSend {
		return ErrInvalidTransition
	}
	fn(&s.state.Draft)
	return nil
}

func (s *Session) Next() error {
	return s.local(Next{})
}

func (s *Session) Back() error {
	return s.local(Back{})
}

func (s *Session) local(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	next, _, err := Transition(s.state, e)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// start marks a as in flight and returns the command for e.
func (s *Session) start(a Action, e Event) (State, Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state, nil, ErrSessionClosed
	}
	if s.busy[a] {
		return s.state, nil, ErrBusy
	}
	st, cmd, err := Transition(s.state, e)
	if err != nil {
		return st, nil, err
	}
	s.busy[a] = true
	return st, cmd, nil
}

// finish clears the in-flight mark and applies the result of a unless the
// session was closed. Must be called with s.mu held.
func (s *Session) finish(a Action) error {
	s.busy[a] = false
	if s.closed {
		s.log.Debug("discarding late response", zap.String("action", string(a)))
		return ErrSessionClosed
	}
	return nil
}

// Save persists the draft from the content step: a create the first time,
// an update with the retained id afterwards. It advances to preview only on
// success.
func (s *Session) Save(ctx context.Context) error {
	_, cmd, err := s.start(ActionSave, Save{})
	if err != nil {
		return err
	}

	var saved *models.Campaign
	switch c := cmd.(type) {
	case CreateCampaign:
		saved, err = s.backend.CreateCampaign(ctx, c.Input)
		if err == nil && saved.ID == "" {
			err = &apperrors.DecodeError{Op: "create campaign", Err: errors.New("response has no id")}
		}
	case UpdateCampaign:
		saved, err = s.backend.UpdateCampaign(ctx, c.ID, c.Input)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ferr := s.finish(ActionSave); ferr != nil {
		return ferr
	}
	if err != nil {
		s.log.Warn("failed to save campaign", zap.Error(err))
		return err
	}

	next, _, err := Transition(s.state, Saved{Campaign: saved})
	if err != nil {
		return err
	}
	s.state = next
	s.log.Info("campaign saved", zap.String("campaign_id", next.CampaignID))
	return nil
}

// Send dispatches the saved campaign from the preview step. A partial
// failure still completes the workflow; only request failures keep the
// operator on preview.
func (s *Session) Send(ctx context.Context, testMode bool) (Outcome, error) {
	_, cmd, err := s.start(ActionSend, Send{TestMode: testMode})
	if err != nil {
		return Outcome{}, err
	}
	c := cmd.(SendCampaign)

	outcome, err := Dispatch(ctx, s.backend, c.ID, c.TestMode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ferr := s.finish(ActionSend); ferr != nil {
		return Outcome{}, ferr
	}
	if err != nil {
		s.log.Warn("failed to send campaign", zap.String("campaign_id", c.ID), zap.Error(err))
		return Outcome{}, err
	}

	next, _, err := Transition(s.state, Sent{Outcome: outcome})
	if err != nil {
		return Outcome{}, err
	}
	s.state = next
	s.log.Info("campaign sent",
		zap.String("campaign_id", c.ID),
		zap.Bool("test_mode", testMode),
		zap.Int("sent", outcome.Sent),
		zap.Int("failed", outcome.Failed))
	return outcome, nil
}

// Generate fills subject and content from the draft's prompt. It only runs
// on the content step, and a result that arrives after the workflow has left
// that step is dropped. On failure the draft is left as it was.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrSessionClosed
	case s.busy[ActionGenerate]:
		s.mu.Unlock()
		return ErrBusy
	case s.state.Step != StepContent:
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	prompt := s.state.Draft.Prompt
	s.busy[ActionGenerate] = true
	s.mu.Unlock()

	generated, err := Assist(ctx, s.backend, prompt, s.provider)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ferr := s.finish(ActionGenerate); ferr != nil {
		return ferr
	}
	if err != nil {
		if !apperrors.IsValidation(err) {
			s.log.Warn("failed to generate content", zap.Error(err))
		}
		return err
	}
	// The operator may have saved and moved on while the request was out.
	if s.state.Step != StepContent {
		s.log.Debug("discarding generated content", zap.String("step", string(s.state.Step)))
		return fmt.Errorf("%w: generated content arrived at %s", ErrInvalidTransition, s.state.Step)
	}

	s.state.Draft.ApplyGenerated(*generated)
	return nil
}
