// Package tui implements the interactive confirmation screen shown before
// an order is completed: the readiness checklist, every blocker and warning,
// and a final yes/no prompt.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bilosnizhka/bilosnizhka/internal/cli"
	"github.com/bilosnizhka/bilosnizhka/internal/validation"
)

type keyMap struct {
	Confirm key.Binding
	Abort   key.Binding
}

var defaultKeys = keyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y/enter", "confirm"),
	),
	Abort: key.NewBinding(
		key.WithKeys("n", "q", "esc", "ctrl+c"),
		key.WithHelp("n/q/esc", "abort"),
	),
}

// checkRow is one readiness checklist line with its outcome.
type checkRow struct {
	label  string
	passed bool
}

// ConfirmModel is the bubbletea model for the completion confirmation.
type ConfirmModel struct {
	title     string
	checks    []checkRow
	decision  validation.ConfirmDecision
	keys      keyMap
	Confirmed bool
	done      bool
}

// NewConfirmModel builds the confirmation screen for one order.
func NewConfirmModel(title string, readiness validation.Readiness, decision validation.ConfirmDecision) ConfirmModel {
	missing := make(map[validation.Requirement]bool, len(readiness.MissingRequirements))
	for _, req := range readiness.MissingRequirements {
		missing[req] = true
	}

	var checks []checkRow
	for _, req := range []validation.Requirement{
		validation.RequireClient,
		validation.RequireItems,
		validation.RequireBranch,
		validation.RequireValidTotal,
		validation.RequireReceiptNumber,
		validation.RequireCompletionDate,
	} {
		checks = append(checks, checkRow{label: string(req), passed: !missing[req]})
	}

	return ConfirmModel{
		title:    title,
		checks:   checks,
		decision: decision,
		keys:     defaultKeys,
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if m.decision.CanConfirm {
			m.Confirmed = true
			m.done = true
			return m, tea.Quit
		}
	case key.Matches(keyMsg, m.keys.Abort):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render(m.title))
	b.WriteString("\n")

	for _, check := range m.checks {
		b.WriteString(fmt.Sprintf(" %s %s\n", cli.Checkmark(check.passed), check.label))
	}

	if len(m.decision.Blockers) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.ErrorStyle.Render("Blockers:"))
		b.WriteString("\n")
		for _, blocker := range m.decision.Blockers {
			b.WriteString("  " + cli.ErrorStyle.Render("• "+blocker) + "\n")
		}
	}
	if len(m.decision.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.WarningStyle.Render("Warnings:"))
		b.WriteString("\n")
		for _, warning := range m.decision.Warnings {
			b.WriteString("  " + cli.WarningStyle.Render("• "+warning) + "\n")
		}
	}

	b.WriteString("\n")
	if m.decision.CanConfirm {
		b.WriteString(cli.BoldStyle.Render("Complete this order? (y/n)"))
	} else {
		b.WriteString(cli.SubtleStyle.Render("Order cannot be completed. Press q to go back."))
	}
	b.WriteString("\n")
	return b.String()
}

// RunConfirm shows the confirmation screen and reports the operator's
// choice. A blocked order always returns false.
func RunConfirm(title string, readiness validation.Readiness, decision validation.ConfirmDecision) (bool, error) {
	program := tea.NewProgram(NewConfirmModel(title, readiness, decision))
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Confirmed, nil
}
