package main

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#65a30d")).
			MarginTop(1)
)

const tagline = "16x2 now-playing display"

// renderBanner returns the banner art and tagline centred as one block
// in the current terminal width.
func renderBanner() string {
	art := bannerStyle.Render(strings.TrimRight(bannerRaw, "\n"))
	block := lipgloss.JoinVertical(lipgloss.Center, art, taglineStyle.Render(tagline))
	return lipgloss.PlaceHorizontal(termWidth(), lipgloss.Center, block)
}

// termWidth returns the terminal column count, or 80 when stdout is not
// a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
