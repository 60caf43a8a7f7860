package style

import (
	"fmt"
	"strconv"

	"github.com/comigor/portfolio-chat/internal/logger"
)

// Scale bounds. Every step saturates at its bound.
const (
	BaseScale = 100

	FontScaleMin  = 60
	FontScaleMax  = 200
	FontScaleStep = 20

	SpacingScaleMin  = 50
	SpacingScaleMax  = 200
	SpacingScaleStep = 25
)

// Selectors the engine writes inline styles to.
const (
	TextSelector   = "p, h1, h2, h3, h4, h5, h6, span, li"
	LinkSelector   = "a"
	ButtonSelector = "button, .btn-primary"

	backgroundSelector = "body, main, section"
	spacingSelector    = "section, article, .card"
)

// StyleState is the cumulative scale state of one page.
type StyleState struct {
	FontScalePercent    int `json:"fontScalePercent"`
	SpacingScalePercent int `json:"spacingScalePercent"`
}

// InitialState is the state of an untouched page.
func InitialState() StyleState {
	return StyleState{FontScalePercent: BaseScale, SpacingScalePercent: BaseScale}
}

// Next returns the state after applying t. Types that do not touch a scale
// leave the state unchanged.
func (s StyleState) Next(t ActionType) StyleState {
	switch t {
	case IncreaseFontSize:
		s.FontScalePercent = clamp(s.FontScalePercent+FontScaleStep, FontScaleMin, FontScaleMax)
	case DecreaseFontSize:
		s.FontScalePercent = clamp(s.FontScalePercent-FontScaleStep, FontScaleMin, FontScaleMax)
	case ResetFontSize:
		s.FontScalePercent = BaseScale
	case IncreaseSpacing:
		s.SpacingScalePercent = clamp(s.SpacingScalePercent+SpacingScaleStep, SpacingScaleMin, SpacingScaleMax)
	case DecreaseSpacing:
		s.SpacingScalePercent = clamp(s.SpacingScalePercent-SpacingScaleStep, SpacingScaleMin, SpacingScaleMax)
	case ResetSpacing:
		s.SpacingScalePercent = BaseScale
	case ResetStyles:
		s = InitialState()
	}
	return s
}

// Effect describes what one Apply call did.
type Effect struct {
	Action      Action
	Description string
	State       StyleState
	Applied     bool
}

// Engine applies actions to a Surface and tracks the scale state.
type Engine struct {
	surface Surface
	state   StyleState
}

// NewEngine returns an engine at the initial state.
func NewEngine(surface Surface) *Engine {
	return &Engine{surface: surface, state: InitialState()}
}

// State returns the current scale state.
func (e *Engine) State() StyleState { return e.state }

// Apply executes a against the surface. It never fails; unknown types and
// color actions without a color are logged and ignored.
func (e *Engine) Apply(a Action) Effect {
	next := e.state.Next(a.Type)
	var desc string

	switch a.Type {
	case ChangeBackground, ChangeTextColor, ChangeAccent:
		c, ok := a.Color()
		if !ok {
			logger.L.Warn("color action without color", "action", a.Type)
			return Effect{Action: a, Description: "ignored: missing color", State: e.state}
		}
		desc = e.applyColor(a.Type, c)
	case IncreaseFontSize, DecreaseFontSize, ResetFontSize:
		e.surface.SetRootFontScale(next.FontScalePercent)
		desc = fmt.Sprintf("root font size %d%%", next.FontScalePercent)
	case IncreaseSpacing, DecreaseSpacing:
		e.surface.PutOverride(spacingOverride(next.SpacingScalePercent))
		desc = fmt.Sprintf("%s spacing %d%%", SpacingOverrideID, next.SpacingScalePercent)
	case ResetSpacing:
		e.surface.RemoveOverride(SpacingOverrideID)
		desc = "removed " + SpacingOverrideID
	case ResetStyles:
		e.surface.RemoveOverride(BackgroundOverrideID)
		e.surface.RemoveOverride(SpacingOverrideID)
		e.surface.ClearInline()
		e.surface.SetRootFontScale(BaseScale)
		e.surface.Reload()
		desc = "all overrides removed, original presentation reloaded"
	default:
		logger.L.Warn("unknown style action ignored", "action", a.Type)
		return Effect{Action: a, Description: "ignored: unknown action", State: e.state}
	}

	e.state = next
	logger.L.Debug("style action applied", "action", a.Type, "effect", desc,
		"font_scale", e.state.FontScalePercent, "spacing_scale", e.state.SpacingScalePercent)
	return Effect{Action: a, Description: desc, State: e.state, Applied: true}
}

func (e *Engine) applyColor(t ActionType, c Color) string {
	switch t {
	case ChangeBackground:
		e.surface.PutOverride(Override{
			ID:       BackgroundOverrideID,
			Selector: backgroundSelector,
			Decls:    Declarations{"background-color": string(c)},
		})
		return fmt.Sprintf("%s background %s", BackgroundOverrideID, c)
	case ChangeTextColor:
		e.surface.SetInline(TextSelector, Declarations{"color": string(c)})
		return fmt.Sprintf("text color %s", c)
	default:
		e.surface.SetInline(LinkSelector, Declarations{"color": string(c)})
		e.surface.SetInline(ButtonSelector, Declarations{"background-color": string(c), "border-color": string(c)})
		return fmt.Sprintf("accent color %s", c)
	}
}

func spacingOverride(percent int) Override {
	factor := strconv.FormatFloat(float64(percent)/100, 'f', -1, 64)
	return Override{
		ID:       SpacingOverrideID,
		Selector: spacingSelector,
		Decls: Declarations{
			"padding": "calc(var(--space, 1rem) * " + factor + ")",
			"gap":     "calc(var(--gap, 1rem) * " + factor + ")",
		},
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
