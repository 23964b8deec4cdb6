package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
)

// Palette for terminal output.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6C7086") // Medium gray
	colorSuccess = lipgloss.Color("#A6E3A1") // Green
	colorWarning = lipgloss.Color("#F9E2AF") // Yellow
	colorError   = lipgloss.Color("#F38BA8") // Red
	colorInfo    = lipgloss.Color("#06B6D4") // Cyan
)

// labelWidth fits the longest action label ("quarantined").
const labelWidth = 12

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	labelStyle = lipgloss.NewStyle().Width(labelWidth)
)

// actionStyle returns the label style for a batch action.
func actionStyle(a driving.Action) lipgloss.Style {
	switch a {
	case driving.ActionMoved:
		return labelStyle.Foreground(colorSuccess)
	case driving.ActionPlanned:
		return labelStyle.Foreground(colorInfo)
	case driving.ActionHeld, driving.ActionQuarantined:
		return labelStyle.Foreground(colorWarning)
	case driving.ActionFailed:
		return labelStyle.Foreground(colorError).Bold(true)
	default:
		return labelStyle
	}
}

// outcomeStyle returns the label style for a classification outcome.
func outcomeStyle(o domain.Outcome) lipgloss.Style {
	switch o {
	case domain.OutcomeMatched:
		return labelStyle.Foreground(colorSuccess)
	case domain.OutcomeMalformed:
		return labelStyle.Foreground(colorError)
	default:
		return labelStyle.Foreground(colorWarning)
	}
}

// statusStyle returns the label style for a journal move status.
func statusStyle(s domain.MoveStatus) lipgloss.Style {
	switch s {
	case domain.MoveDone:
		return actionStyle(driving.ActionMoved)
	case domain.MoveFailed:
		return actionStyle(driving.ActionFailed)
	case domain.MoveHeld:
		return actionStyle(driving.ActionHeld)
	default:
		return actionStyle(driving.ActionPlanned)
	}
}
