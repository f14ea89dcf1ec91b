package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorGray   = "#353b52"
	colorWhite  = "#ffffff"
	colorGreen  = "#acfab4"
	colorRed    = "#e61f44"
	colorPurple = "#b9a3eb"
	colorBlue   = "#89ddff"
	colorYellow = "#ffcb6b"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPurple)).
			Padding(0, 2)
	crumbStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorRed))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).MarginTop(1)
	statsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)).MarginBottom(1)
)

// RenderMarkdown renders note content for the terminal, wrapped at width.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func pointer(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

func star(favorite bool) string {
	if favorite {
		return starStyle.Render("★ ")
	}
	return "  "
}
