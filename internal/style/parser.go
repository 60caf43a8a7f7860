package style

import "strings"

// rule fires when match reports true for the lowercased utterance. Colored
// rules additionally need a lexicon hit, otherwise they are dropped.
type rule struct {
	action  ActionType
	colored bool
	match   func(s string) bool
}

// rules are evaluated independently and in this order; the order is also the
// order of the returned actions.
var rules = []rule{
	{ChangeBackground, true, func(s string) bool {
		return has(s, "background") && has(s, "to")
	}},
	{ChangeTextColor, true, func(s string) bool {
		return has(s, "text") && has(s, "color")
	}},
	{ChangeAccent, true, func(s string) bool {
		return has(s, "accent") && has(s, "to")
	}},
	{IncreaseFontSize, false, func(s string) bool {
		return hasAny(s, "bigger", "increase", "larger") && hasAny(s, "text", "font")
	}},
	{DecreaseFontSize, false, func(s string) bool {
		return hasAny(s, "smaller", "decrease", "reduce") && hasAny(s, "text", "font")
	}},
	{ResetFontSize, false, func(s string) bool {
		return has(s, "reset") && hasAny(s, "font", "text size")
	}},
	{IncreaseSpacing, false, func(s string) bool {
		return hasAny(s, "increase", "more", "add") && has(s, "spacing")
	}},
	{DecreaseSpacing, false, func(s string) bool {
		return hasAny(s, "decrease", "less", "reduce") && has(s, "spacing")
	}},
	{ResetSpacing, false, func(s string) bool {
		return has(s, "reset") && has(s, "spacing")
	}},
	{ResetStyles, false, func(s string) bool {
		return (has(s, "reset") && hasAny(s, "styles", "everything", "all")) ||
			hasAny(s, "original", "default")
	}},
}

// Parse turns a free-text utterance into zero or more actions. Unrecognised
// text yields an empty slice; Parse never fails.
func Parse(utterance string) []Action {
	s := strings.ToLower(utterance)
	var actions []Action
	for _, r := range rules {
		if !r.match(s) {
			continue
		}
		if !r.colored {
			actions = append(actions, Action{Type: r.action})
			continue
		}
		c, ok := Resolve(s)
		if !ok {
			continue
		}
		actions = append(actions, Action{Type: r.action, Params: map[string]string{ParamColor: string(c)}})
	}
	return actions
}

func has(s, sub string) bool { return strings.Contains(s, sub) }

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
