package style

import "strings"

// ActionType names one kind of live style change. The string values are part
// of the wire contract and must not change.
type ActionType string

const (
	ChangeBackground ActionType = "change_background"
	ChangeTextColor  ActionType = "change_text_color"
	ChangeAccent     ActionType = "change_accent"
	IncreaseFontSize ActionType = "increase_font_size"
	DecreaseFontSize ActionType = "decrease_font_size"
	ResetFontSize    ActionType = "reset_font_size"
	IncreaseSpacing  ActionType = "increase_spacing"
	DecreaseSpacing  ActionType = "decrease_spacing"
	ResetSpacing     ActionType = "reset_spacing"
	ResetStyles      ActionType = "reset_styles"
)

// ParamColor is the Params key carrying the resolved color code.
const ParamColor = "color"

// Action is a single parsed instruction. It is built by Parse and consumed
// once by an Engine.
type Action struct {
	Type   ActionType        `json:"type"`
	Params map[string]string `json:"params,omitempty"`
}

// Color returns the color parameter, if any.
func (a Action) Color() (Color, bool) {
	c, ok := a.Params[ParamColor]
	return Color(c), ok && c != ""
}

var confirmations = map[ActionType]string{
	ChangeBackground: "🎨 Background color updated!",
	ChangeTextColor:  "✏️ Text color updated!",
	ChangeAccent:     "✨ Accent color updated!",
	IncreaseFontSize: "🔍 Text size increased!",
	DecreaseFontSize: "🔎 Text size decreased!",
	ResetFontSize:    "↩️ Text size reset to default!",
	IncreaseSpacing:  "↔️ Spacing increased!",
	DecreaseSpacing:  "↕️ Spacing decreased!",
	ResetSpacing:     "↩️ Spacing reset to default!",
	ResetStyles:      "🔄 All styles reset to original!",
}

// Confirmation is the chat line shown after a turn whose first action is a.
func Confirmation(a Action) string {
	if msg, ok := confirmations[a.Type]; ok {
		return msg
	}
	return "✨ Applied " + strings.ReplaceAll(string(a.Type), "_", " ") + "!"
}
