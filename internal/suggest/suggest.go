// Package suggest derives the quick-action prompts offered after each turn.
package suggest

import (
	"fmt"
	"strings"
)

// Size is the number of suggestions every case yields.
const Size = 4

// Suggestion is a quick-action chip.
type Suggestion struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

type source int

const (
	fromUser source = iota
	fromAssistant
)

// conversation is what a case inspects.
type conversation struct {
	assistant string
	user      string
	length    int
}

type suggestionCase struct {
	name  string
	match func(c conversation) bool
	build func(owner string) [Size]Suggestion
}

func keywords(src source, words ...string) func(c conversation) bool {
	return func(c conversation) bool {
		text := c.user
		if src == fromAssistant {
			text = c.assistant
		}
		text = strings.ToLower(text)
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

// cases are tried in order; the first match wins and the last one always matches.
var cases = []suggestionCase{
	{
		name:  "welcome",
		match: func(c conversation) bool { return c.length == 1 },
		build: func(owner string) [Size]Suggestion {
			return [Size]Suggestion{
				{"🎨 Try a teal background", "Change background to teal"},
				{"🔍 Make text bigger", "Make text bigger"},
				{"💼 See projects", fmt.Sprintf("Tell me about %s's projects", owner)},
				{"🧠 Skills", fmt.Sprintf("What are %s's skills?", owner)},
			}
		},
	},
	{
		name:  "colors",
		match: keywords(fromUser, "background", "color", "colour", "accent"),
		build: func(string) [Size]Suggestion {
			return [Size]Suggestion{
				{"🌑 Dark background", "Change background to dark"},
				{"✏️ White text", "Change text color to white"},
				{"✨ Purple accent", "Change accent to purple"},
				{"🔄 Reset styles", "Reset all styles"},
			}
		},
	},
	{
		name:  "typography",
		match: keywords(fromUser, "font", "text size", "bigger", "smaller", "larger"),
		build: func(string) [Size]Suggestion {
			return [Size]Suggestion{
				{"🔍 Even bigger", "Make text bigger"},
				{"🔎 Smaller text", "Make text smaller"},
				{"↔️ More spacing", "Increase spacing"},
				{"↩️ Reset text size", "Reset font size"},
			}
		},
	},
	{
		name:  "skills",
		match: keywords(fromAssistant, "design", "skill", "experience"),
		build: func(owner string) [Size]Suggestion {
			return [Size]Suggestion{
				{"💼 Projects", fmt.Sprintf("Show me %s's projects", owner)},
				{"📈 Career", fmt.Sprintf("Tell me about %s's experience", owner)},
				{"🧭 Philosophy", fmt.Sprintf("What is %s's design philosophy?", owner)},
				{"📬 Contact", fmt.Sprintf("How can I contact %s?", owner)},
			}
		},
	},
	{
		name:  "projects",
		match: keywords(fromAssistant, "project", "portfolio"),
		build: func(owner string) [Size]Suggestion {
			return [Size]Suggestion{
				{"⭐ Favourite project", fmt.Sprintf("What is %s's favourite project?", owner)},
				{"🛠️ Tech stack", "What tech stack do the projects use?"},
				{"💬 Reviews", fmt.Sprintf("What do clients say about %s?", owner)},
				{"📬 Contact", fmt.Sprintf("How can I contact %s?", owner)},
			}
		},
	},
	{
		name:  "philosophy",
		match: keywords(fromAssistant, "philosophy", "approach"),
		build: func(owner string) [Size]Suggestion {
			return [Size]Suggestion{
				{"🧪 Process", fmt.Sprintf("How does %s run a project?", owner)},
				{"🤝 Collaboration", fmt.Sprintf("How does %s work with teams?", owner)},
				{"💼 Examples", "Show me a project that reflects this"},
				{"🧠 Skills", fmt.Sprintf("What are %s's skills?", owner)},
			}
		},
	},
	{
		name:  "stack",
		match: keywords(fromAssistant, "react", "typescript", "next.js", "node", "supabase", "tailwind", "golang", "tech stack"),
		build: func(owner string) [Size]Suggestion {
			return [Size]Suggestion{
				{"🧰 Favourite tools", fmt.Sprintf("What are %s's favourite tools?", owner)},
				{"💼 Built with it", "Which projects use this stack?"},
				{"📚 Learning", fmt.Sprintf("What is %s learning right now?", owner)},
				{"🎨 Try a style", "Change background to dark"},
			}
		},
	},
	{
		name:  "recovery",
		match: keywords(fromUser, "reset", "spacing"),
		build: func(string) [Size]Suggestion {
			return [Size]Suggestion{
				{"🔄 Reset everything", "Reset all styles"},
				{"↩️ Reset spacing", "Reset spacing"},
				{"↕️ Less spacing", "Decrease spacing"},
				{"↩️ Reset text size", "Reset font size"},
			}
		},
	},
	{
		name:  "default",
		match: func(conversation) bool { return true },
		build: func(owner string) [Size]Suggestion {
			return [Size]Suggestion{
				{"💼 Projects", fmt.Sprintf("Tell me about %s's projects", owner)},
				{"🧠 Skills", fmt.Sprintf("What are %s's skills?", owner)},
				{"🎨 Change colors", "Change background to blue"},
				{"📬 Contact", fmt.Sprintf("How can I contact %s?", owner)},
			}
		},
	},
}

// Engine computes suggestions for a portfolio owned by owner.
type Engine struct {
	owner string
}

// New returns an Engine; an empty owner falls back to "the owner".
func New(owner string) Engine {
	if strings.TrimSpace(owner) == "" {
		owner = "the owner"
	}
	return Engine{owner: owner}
}

// Suggest is a pure function of the last exchange and transcript length.
// It always returns Size suggestions.
func (e Engine) Suggest(lastAssistant, precedingUser string, transcriptLen int) []Suggestion {
	out, _ := e.suggest(conversation{assistant: lastAssistant, user: precedingUser, length: transcriptLen})
	return out
}

func (e Engine) suggest(c conversation) ([]Suggestion, string) {
	for _, sc := range cases {
		if sc.match(c) {
			s := sc.build(e.owner)
			return s[:], sc.name
		}
	}
	// unreachable: the default case always matches
	return nil, ""
}
