// Package styles provides the colour theme and report styling for the CLI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Theme defines the colour palette for reports.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for report headers.
	Title lipgloss.Style

	// Subtitle style for section headers.
	Subtitle lipgloss.Style

	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Metric is the bordered card around a headline number.
	Metric lipgloss.Style

	// MetricLabel and MetricValue style the inside of a metric card.
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style

	// Header styles table header cells.
	Header lipgloss.Style

	// Cell styles table body cells.
	Cell lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Metric: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		MetricLabel: lipgloss.NewStyle().
			Foreground(theme.Muted),

		MetricValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Metrics renders labelled values as a row of cards.
// pairs alternates label and value; a trailing label without value is dropped.
func (s *Styles) Metrics(pairs ...string) string {
	cards := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		body := s.MetricLabel.Render(pairs[i]) + "\n" + s.MetricValue.Render(pairs[i+1])
		cards = append(cards, s.Metric.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// Table renders rows under headers with the theme's border.
func (s *Styles) Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})
	return t.String()
}

// Section renders a subtitle followed by body, skipping empty bodies.
func (s *Styles) Section(title, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return s.Subtitle.Render(title) + "\n" + body + "\n"
}
