package widget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/portfolio-chat/internal/dialogue"
)

// View renders the transcript, the suggestion chips and a status line using
// the live theme. width <= 0 leaves bubbles unwrapped.
func (c *Controller) View(width int) string {
	t := c.Theme()
	msgs := c.Messages()

	blocks := make([]string, 0, len(msgs)+2)
	for _, m := range msgs {
		blocks = append(blocks, renderMessage(t, m, width))
	}

	chips := make([]string, 0, len(c.suggestions))
	for i, s := range c.suggestions {
		chips = append(chips, t.Chip().Render(fmt.Sprintf("[/%d] %s", i+1, s.Label)))
	}
	blocks = append(blocks, lipgloss.JoinHorizontal(lipgloss.Top, chips...))

	state := c.engine.State()
	blocks = append(blocks, t.Status().Render(fmt.Sprintf("text %d%% · spacing %d%%", state.FontScalePercent, state.SpacingScalePercent)))

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderMessage(t Theme, m dialogue.Message, width int) string {
	fromUser := m.Role == dialogue.RoleUser
	bubble := t.Bubble(fromUser)
	if width > 0 {
		bubble = bubble.MaxWidth(width).Width(max(width-bubble.GetHorizontalFrameSize(), 10))
	}
	label := "assistant"
	if fromUser {
		label = "you"
	}
	body := bubble.Render(strings.TrimSpace(m.Content))
	return lipgloss.JoinVertical(lipgloss.Left, t.Status().Render(label), body)
}
