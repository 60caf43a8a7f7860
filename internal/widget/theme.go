package widget

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/portfolio-chat/internal/style"
)

// Original presentation of the page, before any visitor change.
var (
	DefaultBackground = lipgloss.Color("#f8fafc")
	DefaultForeground = lipgloss.Color("#0f172a")
	DefaultAccent     = lipgloss.Color("#14b8a6")
	DefaultMuted      = lipgloss.Color("#64748b")
)

// Theme is what the terminal can show of the live sheet.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color

	FontScale    int
	SpacingScale int
}

// ThemeFrom reads the active overrides and inline styles of sheet. The scales
// come from the engine state since a terminal has no root font size.
func ThemeFrom(sheet *style.Sheet, state style.StyleState) Theme {
	t := Theme{
		Background:   DefaultBackground,
		Foreground:   DefaultForeground,
		Accent:       DefaultAccent,
		Muted:        DefaultMuted,
		FontScale:    state.FontScalePercent,
		SpacingScale: state.SpacingScalePercent,
	}

	bgChanged := false
	if o, ok := sheet.Override(style.BackgroundOverrideID); ok {
		if bg := o.Decls["background-color"]; bg != "" {
			t.Background = lipgloss.Color(bg)
			bgChanged = true
		}
	}

	if fg := sheet.Inline(style.TextSelector)["color"]; fg != "" {
		t.Foreground = lipgloss.Color(fg)
	} else if bgChanged {
		t.Foreground = readableOn(string(t.Background))
	}

	if accent := sheet.Inline(style.LinkSelector)["color"]; accent != "" {
		t.Accent = lipgloss.Color(accent)
	}
	return t
}

// readableOn picks the default dark or light text color, whichever contrasts
// better with bg.
func readableOn(bg string) lipgloss.Color {
	c, err := style.Color(bg).RGB()
	if err != nil {
		return DefaultForeground
	}
	l, _, _ := c.Lab()
	if l > 0.55 {
		return DefaultForeground
	}
	return DefaultBackground
}

// Padding maps the spacing scale to terminal cells.
func (t Theme) Padding() (vertical, horizontal int) {
	horizontal = int(math.Round(2 * float64(t.SpacingScale) / style.BaseScale))
	if t.SpacingScale >= 150 {
		vertical = 1
	}
	return vertical, horizontal
}

// Text is the style of transcript text. Larger font scales render bold,
// smaller ones faint.
func (t Theme) Text() lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Background(t.Background)
	switch {
	case t.FontScale > style.BaseScale:
		s = s.Bold(true)
	case t.FontScale < style.BaseScale:
		s = s.Faint(true)
	}
	return s
}

// Bubble frames one message.
func (t Theme) Bubble(fromUser bool) lipgloss.Style {
	v, h := t.Padding()
	border := t.Muted
	if fromUser {
		border = t.Accent
	}
	return t.Text().
		Padding(v, h).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

// Chip renders a suggestion.
func (t Theme) Chip() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Padding(0, 1)
}

// Status is the footer line.
func (t Theme) Status() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
}
