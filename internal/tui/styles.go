// Package tui provides the interactive week view for studiodesk.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Studio palette.
var (
	ColorPrimary   = lipgloss.Color("#0F766E")
	ColorSecondary = lipgloss.Color("#14B8A6")
	ColorMuted     = lipgloss.Color("#78716C")
	ColorWarning   = lipgloss.Color("#D97706")
	ColorError     = lipgloss.Color("#DC2626")
	ColorActive    = lipgloss.Color("#6366F1")
	ColorBorder    = lipgloss.Color("#57534E")
)

// Base styles for the TUI.
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleSubtitle is secondary text.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleTab is an unselected day tab.
	StyleTab = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	// StyleTabActive is the selected day tab.
	StyleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1)

	// StyleClock is used for slot times.
	StyleClock = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleProfessional is used for the professional's name.
	StyleProfessional = lipgloss.NewStyle().
				Italic(true).
				Foreground(ColorActive)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// Help bar.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleDayBox frames the selected day's slots.
	StyleDayBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginTop(1)
)
