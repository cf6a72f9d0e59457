package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/workflow"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc2626"))
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.String())
}

// describe turns err into the line shown to the operator.
func describe(err error) string {
	var n *apperrors.NetworkError
	switch {
	case errors.As(err, &n):
		return fmt.Sprintf("cannot reach server: %v", n.Err)
	case errors.Is(err, workflow.ErrNotSaved):
		return "campaign has not been saved"
	}

	if msg := apperrors.Message(err); msg != apperrors.GenericMessage {
		return msg
	}
	return err.Error()
}

func printOutcome(w io.Writer, o workflow.Outcome) {
	if o.TestMode {
		fmt.Fprintln(w, successStyle.Render("Test email sent"))
	} else {
		fmt.Fprintln(w, successStyle.Render("Campaign sent"))
	}
	fmt.Fprintf(w, "Sent: %d  Failed: %d\n", o.Sent, o.Failed)
	if o.Message != "" {
		fmt.Fprintln(w, mutedStyle.Render(o.Message))
	}
	if o.Partial() {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("%d recipients could not be reached", o.Failed)))
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
