package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// ColorCyan is used for identifiable nouns: file paths, recipe names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for created files.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for patched files and step announcements.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removed lines and failures.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Styles groups the semantic styles used across commands.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Noun    lipgloss.Style
	Heading lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var defaultStyles = &Styles{
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorDimGray),
	Noun:    lipgloss.NewStyle().Foreground(ColorCyan),
	Heading: lipgloss.NewStyle().Bold(true).Foreground(ColorYellow),
	Success: lipgloss.NewStyle().Foreground(ColorGreen),
	Warning: lipgloss.NewStyle().Foreground(ColorYellow),
	Error:   lipgloss.NewStyle().Foreground(ColorRed),
}

// GetStyles returns the default style set.
func GetStyles() *Styles {
	return defaultStyles
}

// File change statuses reported after a run.
const (
	StatusCreated     = "created"
	StatusOverwritten = "overwritten"
	StatusPatched     = "patched"
	StatusSkipped     = "skipped"
	StatusUnchanged   = "unchanged"
	StatusFailed      = "failed"
)

// StatusStyle returns the style for a file change status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusOverwritten, StatusPatched:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped, StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	default:
		return lipgloss.NewStyle()
	}
}

// StyleNoun renders s as an identifiable noun.
func StyleNoun(s string) string {
	return defaultStyles.Noun.Render(s)
}

// FormatSay renders a recipe announcement.
func FormatSay(msg string) string {
	return defaultStyles.Heading.Render(msg)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
