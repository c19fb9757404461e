package desk

import (
	"github.com/charmbracelet/lipgloss"

	"inquirydesk/internal/domain"
)

// Theme defines the color palette for the desk. Colors use lipgloss ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	UrgencyHigh   lipgloss.Color
	UrgencyMedium lipgloss.Color
	UrgencyLow    lipgloss.Color

	ToastInfo    lipgloss.Color
	ToastSuccess lipgloss.Color
	ToastError   lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("231"),
	HeaderForeground:   lipgloss.Color("75"),
	BorderColor:        lipgloss.Color("240"),
	HelpText:           lipgloss.Color("245"),
	UrgencyHigh:        lipgloss.Color("196"),
	UrgencyMedium:      lipgloss.Color("214"),
	UrgencyLow:         lipgloss.Color("114"),
	ToastInfo:          lipgloss.Color("75"),
	ToastSuccess:       lipgloss.Color("42"),
	ToastError:         lipgloss.Color("203"),
}

// UrgencyColor returns the color for an urgency level. Unknown values
// return NormalText.
func (theme Theme) UrgencyColor(u domain.Urgency) lipgloss.Color {
	switch u {
	case domain.UrgencyHigh:
		return theme.UrgencyHigh
	case domain.UrgencyMedium:
		return theme.UrgencyMedium
	case domain.UrgencyLow:
		return theme.UrgencyLow
	}
	return theme.NormalText
}

func (theme Theme) title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
}

func (theme Theme) faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FaintText)
}

func (theme Theme) help() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.HelpText)
}

func (theme Theme) selected() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground).
		Bold(true)
}

func (theme Theme) box() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1)
}
