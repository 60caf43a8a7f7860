package style

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a canonical lowercase #rrggbb code.
type Color string

type lexiconEntry struct {
	name string
	code Color
}

// lexicon is scanned in declaration order; the first name found in the
// message wins, regardless of where it appears in the text.
var lexicon = []lexiconEntry{
	{"teal", "#14b8a6"},
	{"accent", "#06b6d4"},
	{"primary", "#0f766e"},
	{"secondary", "#64748b"},
	{"light", "#f8fafc"},
	{"white", "#ffffff"},
	{"dark", "#0f172a"},
	{"gray", "#6b7280"},
	{"grey", "#6b7280"},
	{"success", "#22c55e"},
	{"warning", "#f59e0b"},
	{"error", "#ef4444"},
	{"red", "#ef4444"},
	{"blue", "#3b82f6"},
	{"green", "#22c55e"},
	{"yellow", "#eab308"},
	{"purple", "#a855f7"},
	{"pink", "#ec4899"},
	{"orange", "#f97316"},
	{"black", "#000000"},
}

func init() {
	for i, e := range lexicon {
		c, err := colorful.Hex(string(e.code))
		if err != nil {
			panic(fmt.Sprintf("style: invalid lexicon color %q for %s: %v", e.code, e.name, err))
		}
		lexicon[i].code = Color(c.Hex())
	}
}

// Resolve returns the code of the first lexicon color named anywhere in message.
func Resolve(message string) (Color, bool) {
	lower := strings.ToLower(message)
	for _, e := range lexicon {
		if strings.Contains(lower, e.name) {
			return e.code, true
		}
	}
	return "", false
}

// ColorNames lists the lexicon names in match order.
func ColorNames() []string {
	names := make([]string, len(lexicon))
	for i, e := range lexicon {
		names[i] = e.name
	}
	return names
}

// RGB exposes the color as a colorful.Color for renderers that need to blend
// or compare it.
func (c Color) RGB() (colorful.Color, error) {
	return colorful.Hex(string(c))
}
