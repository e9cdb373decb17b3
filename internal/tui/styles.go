// Package tui implements the Bubble Tea TUI for the lightbox client.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "charm.land/lipgloss/v2"
)

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorRed    = lipgloss.Color("#f7768e") // red
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
)

// Styles used for rendering the TUI (lipgloss v1 for bubbles compatibility).
var (
	// Selected item style (matches border color).
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// Normal item style (no color, uses terminal default).
	normalStyle = lipgloss.NewStyle()

	// Route style for subtle submodule/action text.
	routeStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Timestamp style for history entries.
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	// Success alert style.
	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// Danger alert style.
	dangerStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// Warning alert style.
	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	// Info alert style.
	infoStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	// Status line style for transient messages.
	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)

	// Selected link style inside modal content.
	linkSelectedStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true).
				Underline(true)

	// Normal link style inside modal content.
	linkStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Underline(true)
)

// Icons and symbols.
const (
	iconDot = "•" // Unicode bullet separator
)

// Banner ASCII art for the header.
const banner = `
 ╦  ╦╔═╗╦ ╦╔╦╗╔╗ ╔═╗═╗ ╦
 ║  ║║ ╦╠═╣ ║ ╠╩╗║ ║╔╩╦╝
 ╩═╝╩╚═╝╩ ╩ ╩ ╚═╝╚═╝╩ ╚═`

// bannerStyle styles the ASCII art banner.
var bannerStyle = lipgloss.NewStyle().
	Foreground(colorBlue).
	Bold(true).
	PaddingLeft(1).
	PaddingBottom(1)

// Modal styles using lipgloss v2 for canvas/layer support.
var (
	modalStyle = lipglossv2.NewStyle().
			Border(lipglossv2.RoundedBorder()).
			BorderForeground(lipglossv2.Color("#7aa2f7")).
			Padding(1, 2)

	modalTitleStyle = lipglossv2.NewStyle().
			Bold(true).
			Foreground(lipglossv2.Color("#c0caf5"))

	modalHelpStyle = lipglossv2.NewStyle().
			Foreground(lipglossv2.Color("#565f89")).
			MarginTop(1)
)
