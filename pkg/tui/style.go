package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	marqueeTickDuration = time.Duration(time.Second / 20)

	bordersAndPaddingWidth = 4
	panelHeightPadding     = 3
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	reviewStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorWhite))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, true, false, false).
				BorderForeground(lipgloss.Color(colorGray)).
				Padding(0, 2)
)

// TextStatusColorize colors text by status:
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool) string {
	if isPoint {
		return "> "
	}
	return "  "
}

// marqueeText scrolls text that does not fit availableWidth. Widths are
// terminal cells, so wide runes take two.
func (m model) marqueeText(text string, availableWidth int) string {
	if availableWidth <= 0 || runewidth.StringWidth(text) <= availableWidth {
		return text
	}
	runes := []rune(text + "    ")
	offset := m.marqueeOffset % len(runes)

	var b strings.Builder
	width := 0
	for i := 0; ; i++ {
		r := runes[(offset+i)%len(runes)]
		w := runewidth.RuneWidth(r)
		if width+w > availableWidth {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String()
}

// truncateText shortens text to availableWidth cells with a ".." suffix.
func truncateText(text string, availableWidth int) string {
	if availableWidth <= 3 || runewidth.StringWidth(text) <= availableWidth {
		return text
	}
	return runewidth.Truncate(text, availableWidth, "..")
}

// columnWidths splits the terminal into stats/review, list and detail columns
// (25%, 35%, 40%).
func (m model) columnWidths() (int, int, int) {
	leftWidth := (m.width * 25) / 100
	middleWidth := (m.width * 35) / 100
	rightWidth := m.width - (leftWidth + middleWidth)
	return leftWidth, middleWidth, rightWidth
}

// confirmOptions renders a Yes/No pair with idx 0 meaning "Yes".
func confirmOptions(idx int) string {
	yesOpt, noOpt := "Yes", "No"
	if idx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	return strings.Join([]string{yesOpt, noOpt}, "\n")
}
