// Package tui is the interactive campaign wizard. It renders a
// workflow.Session and turns key presses into session actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/campaign"
	"MailDesk/internal/workflow"
)

type field int

const (
	fieldName field = iota
	fieldCC
	fieldBCC
	fieldPrompt
	fieldSubject
	fieldContent
)

var stepFields = map[workflow.Step][]field{
	workflow.StepDetails: {fieldName, fieldCC, fieldBCC},
	workflow.StepContent: {fieldPrompt, fieldSubject, fieldContent},
}

var stepTitles = map[workflow.Step]string{
	workflow.StepDetails: "Details",
	workflow.StepContent: "Content",
	workflow.StepPreview: "Preview",
	workflow.StepSend:    "Send",
}

// Results of session actions, delivered back to Update.
type (
	savedMsg     struct{ err error }
	generatedMsg struct{ err error }
	sentMsg      struct {
		outcome  workflow.Outcome
		testMode bool
		err      error
	}
)

type Model struct {
	session *workflow.Session
	ctx     context.Context
	styles  Styles

	inputs  [fieldContent]textinput.Model
	content textarea.Model
	focus   int

	// pending mirrors actions issued but not yet answered, so a repeated
	// key is ignored before the command even starts.
	pending map[workflow.Action]bool
	err     string
	notice  string
	width   int
}

// New builds a wizard over session. ctx bounds every request the wizard
// issues.
func New(ctx context.Context, session *workflow.Session) Model {
	m := Model{
		session: session,
		ctx:     ctx,
		styles:  DefaultStyles(),
		pending: make(map[workflow.Action]bool),
		width:   80,
	}

	placeholders := [fieldContent]string{
		fieldName:    "Spring launch",
		fieldCC:      "cc@example.com (optional)",
		fieldBCC:     "bcc@example.com (optional)",
		fieldPrompt:  "Describe the email you want",
		fieldSubject: "Subject line",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 255
		ti.Width = 60
		m.inputs[i] = ti
	}
	m.inputs[fieldPrompt].CharLimit = 1000

	ta := textarea.New()
	ta.Placeholder = "<p>HTML content</p>"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(70)
	ta.SetHeight(8)
	m.content = ta

	m.load()
	m.enter()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 10 {
			m.content.SetWidth(msg.Width - 4)
		}
		return m, nil

	case savedMsg:
		delete(m.pending, workflow.ActionSave)
		if m.report(msg.err) {
			m.notice = "Campaign saved"
			m.load()
			m.enter()
		}
		return m, nil

	case generatedMsg:
		delete(m.pending, workflow.ActionGenerate)
		if m.report(msg.err) {
			m.notice = "Content generated"
			m.load()
		}
		return m, nil

	case sentMsg:
		delete(m.pending, workflow.ActionSend)
		if m.report(msg.err) {
			m.notice = msg.outcome.Message
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// report shows err as a banner and reports whether the action succeeded.
// Results that arrive after the session closed are dropped silently.
func (m *Model) report(err error) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, workflow.ErrSessionClosed) {
		m.err = describe(err)
	}
	return false
}

func describe(err error) string {
	switch {
	case errors.Is(err, workflow.ErrBusy):
		return "Please wait for the current request to finish"
	case errors.Is(err, workflow.ErrInvalidTransition):
		return "That action is not available on this step"
	case errors.Is(err, workflow.ErrNotSaved):
		return "Save the campaign before sending"
	}
	return apperrors.Message(err)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.session.Close()
		return m, tea.Quit
	}

	// the banner swallows the key that dismisses it
	if m.err != "" {
		m.err = ""
		return m, nil
	}
	m.notice = ""

	step := m.session.State().Step

	switch msg.String() {
	case "tab":
		m.cycle(1)
		return m, nil
	case "shift+tab":
		m.cycle(-1)
		return m, nil

	case "ctrl+n":
		switch step {
		case workflow.StepDetails:
			m.push()
			if err := m.session.Next(); err != nil {
				m.report(err)
				return m, nil
			}
			m.enter()
		case workflow.StepContent:
			return m, m.run(workflow.ActionSave, false)
		}
		return m, nil

	case "ctrl+b":
		m.push()
		if err := m.session.Back(); err == nil {
			m.load()
			m.enter()
		}
		return m, nil

	case "ctrl+g":
		if step == workflow.StepContent {
			return m, m.run(workflow.ActionGenerate, false)
		}
		return m, nil

	case "ctrl+t", "ctrl+s":
		if step == workflow.StepPreview {
			return m, m.run(workflow.ActionSend, msg.String() == "ctrl+t")
		}
		return m, nil
	}

	return m.edit(msg)
}

// run issues a for the current draft. A pending action returns no command.
func (m *Model) run(a workflow.Action, testMode bool) tea.Cmd {
	if m.pending[a] {
		return nil
	}
	m.push()
	m.pending[a] = true

	s, ctx := m.session, m.ctx
	switch a {
	case workflow.ActionSave:
		return func() tea.Msg { return savedMsg{err: s.Save(ctx)} }
	case workflow.ActionGenerate:
		return func() tea.Msg { return generatedMsg{err: s.Generate(ctx)} }
	default:
		return func() tea.Msg {
			outcome, err := s.Send(ctx, testMode)
			return sentMsg{outcome: outcome, testMode: testMode, err: err}
		}
	}
}

func (m Model) edit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := stepFields[m.session.State().Step]
	if len(fields) == 0 {
		return m, nil
	}

	var cmd tea.Cmd
	f := fields[m.focus]
	if f == fieldContent {
		m.content, cmd = m.content.Update(msg)
	} else {
		m.inputs[f], cmd = m.inputs[f].Update(msg)
	}
	m.push()
	return m, cmd
}

func (m *Model) cycle(delta int) {
	fields := stepFields[m.session.State().Step]
	if len(fields) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(fields)) % len(fields)
	m.applyFocus()
}

// enter resets focus to the first field of the current step.
func (m *Model) enter() {
	m.focus = 0
	m.applyFocus()
}

func (m *Model) applyFocus() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.content.Blur()

	fields := stepFields[m.session.State().Step]
	if len(fields) == 0 {
		return
	}
	if f := fields[m.focus]; f == fieldContent {
		m.content.Focus()
	} else {
		m.inputs[f].Focus()
	}
}

// load copies the session draft into the inputs.
func (m *Model) load() {
	d := m.session.State().Draft
	m.inputs[fieldName].SetValue(d.Name)
	m.inputs[fieldCC].SetValue(d.CCEmail)
	m.inputs[fieldBCC].SetValue(d.BCCEmail)
	m.inputs[fieldPrompt].SetValue(d.Prompt)
	m.inputs[fieldSubject].SetValue(d.Subject)
	m.content.SetValue(d.Content)
}

// push copies the inputs of the current step into the session draft.
func (m *Model) push() {
	step := m.session.State().Step
	_ = m.session.Edit(func(d *campaign.Draft) {
		switch step {
		case workflow.StepDetails:
			d.Name = m.inputs[fieldName].Value()
			d.CCEmail = m.inputs[fieldCC].Value()
			d.BCCEmail = m.inputs[fieldBCC].Value()
		case workflow.StepContent:
			d.Prompt = m.inputs[fieldPrompt].Value()
			d.Subject = m.inputs[fieldSubject].Value()
			d.Content = m.content.Value()
		}
	})
}

func (m Model) View() string {
	st := m.session.State()
	var b strings.Builder

	title := "New campaign"
	if st.Editing() {
		title = "Edit campaign"
	}
	b.WriteString(m.styles.Title.Render(title) + "\n")
	b.WriteString(m.steps(st.Step) + "\n\n")

	switch st.Step {
	case workflow.StepDetails:
		b.WriteString(m.row("Name", m.inputs[fieldName].View()))
		b.WriteString(m.row("CC", m.inputs[fieldCC].View()))
		b.WriteString(m.row("BCC", m.inputs[fieldBCC].View()))
	case workflow.StepContent:
		b.WriteString(m.row("Prompt", m.inputs[fieldPrompt].View()))
		b.WriteString(m.row("Subject", m.inputs[fieldSubject].View()))
		b.WriteString(m.styles.Label.Render("Content") + "\n")
		b.WriteString(m.content.View() + "\n")
	case workflow.StepPreview:
		b.WriteString(m.preview(st.Draft))
	case workflow.StepSend:
		b.WriteString(m.result(st.Result))
	}

	if p := m.progress(); p != "" {
		b.WriteString("\n" + m.styles.Progress.Render(p) + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.err) + "\n")
	} else if m.notice != "" {
		b.WriteString("\n" + m.styles.Success.Render(m.notice) + "\n")
	}

	b.WriteString(m.styles.Help.Render(help(st.Step)))
	return b.String()
}

func (m Model) steps(current workflow.Step) string {
	parts := make([]string, 0, len(workflow.Steps))
	for _, step := range workflow.Steps {
		label := fmt.Sprintf("%d. %s", step.Index()+1, stepTitles[step])
		switch {
		case step == current:
			parts = append(parts, m.styles.Active.Render(label))
		case step.Index() < current.Index():
			parts = append(parts, m.styles.Done.Render(label))
		default:
			parts = append(parts, m.styles.Step.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Muted.Render("  ›  "))
}

func (m Model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Label.Render(label), value) + "\n"
}

func (m Model) preview(d campaign.Draft) string {
	var b strings.Builder
	b.WriteString(m.row("Name", d.Name))
	b.WriteString(m.row("Subject", d.Subject))
	if d.CCEmail != "" {
		b.WriteString(m.row("CC", d.CCEmail))
	}
	if d.BCCEmail != "" {
		b.WriteString(m.row("BCC", d.BCCEmail))
	}
	b.WriteString(m.styles.Preview.Width(m.width - 4).Render(d.Content))
	return b.String() + "\n"
}

func (m Model) result(o *workflow.Outcome) string {
	if o == nil {
		return ""
	}

	var b strings.Builder
	heading := "Campaign sent"
	if o.TestMode {
		heading = "Test email sent"
	}
	b.WriteString(m.styles.Success.Render(heading) + "\n\n")
	b.WriteString(fmt.Sprintf("Sent: %d\nFailed: %d\n", o.Sent, o.Failed))
	if o.Partial() {
		b.WriteString("\n" + m.styles.Warning.Render(fmt.Sprintf("%d recipients could not be reached", o.Failed)) + "\n")
	}
	return b.String()
}

func (m Model) progress() string {
	var parts []string
	if m.pending[workflow.ActionSave] {
		parts = append(parts, "Saving…")
	}
	if m.pending[workflow.ActionGenerate] {
		parts = append(parts, "Generating…")
	}
	if m.pending[workflow.ActionSend] {
		parts = append(parts, "Sending…")
	}
	return strings.Join(parts, " ")
}

func help(step workflow.Step) string {
	switch step {
	case workflow.StepDetails:
		return "tab: next field • ctrl+n: continue • esc: quit"
	case workflow.StepContent:
		return "tab: next field • ctrl+g: generate • ctrl+n: save & preview • ctrl+b: back • esc: quit"
	case workflow.StepPreview:
		return "ctrl+t: send test • ctrl+s: send • ctrl+b: back • esc: quit"
	default:
		return "esc: quit"
	}
}
