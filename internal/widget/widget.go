// Package widget is the terminal rendition of the portfolio chat widget. A
// Controller owns the live style sheet, the transcript and the current
// suggestions of one open widget.
package widget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/comigor/portfolio-chat/internal/dialogue"
	"github.com/comigor/portfolio-chat/internal/style"
	"github.com/comigor/portfolio-chat/internal/suggest"
)

const welcomeTemplate = "👋 Hi! I'm %s's portfolio assistant. Ask me about skills, projects or experience, or restyle this page: try \"change background to teal\" or \"make text bigger\"."

// ErrNoSuggestion is returned when a pick does not name a current suggestion.
var ErrNoSuggestion = errors.New("no such suggestion")

// Turn is the outcome of one Send.
type Turn struct {
	Input       string
	Result      dialogue.TurnResult
	Suggestions []suggest.Suggestion
}

// Controller is a single chat widget bound to one page.
type Controller struct {
	sheet       *style.Sheet
	engine      *style.Engine
	router      *dialogue.Router
	suggester   suggest.Engine
	suggestions []suggest.Suggestion
}

// New opens a widget for owner's portfolio that forwards questions to assistant.
func New(assistant dialogue.Assistant, owner string) *Controller {
	if strings.TrimSpace(owner) == "" {
		owner = "the owner"
	}
	sheet := style.NewSheet()
	engine := style.NewEngine(sheet)
	transcript := dialogue.NewTranscript(dialogue.Message{
		Role:      dialogue.RoleAssistant,
		Content:   fmt.Sprintf(welcomeTemplate, owner),
		Timestamp: time.Now(),
	})

	c := &Controller{
		sheet:     sheet,
		engine:    engine,
		router:    dialogue.NewRouter(engine, assistant, transcript),
		suggester: suggest.New(owner),
	}
	c.refreshSuggestions()
	return c
}

// Send runs one turn. Input of the form "/N" sends the Nth current suggestion.
// Blank input is ignored.
func (c *Controller) Send(ctx context.Context, input string) (Turn, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Turn{Suggestions: c.Suggestions()}, nil
	}
	if n, ok := pickIndex(input); ok {
		msg, err := c.Pick(n)
		if err != nil {
			return Turn{}, err
		}
		input = msg
	}

	res := c.router.Route(ctx, input)
	c.refreshSuggestions()
	return Turn{Input: input, Result: res, Suggestions: c.Suggestions()}, nil
}

// Pick returns the message of the 1-based nth suggestion.
func (c *Controller) Pick(n int) (string, error) {
	if n < 1 || n > len(c.suggestions) {
		return "", fmt.Errorf("%w: %d", ErrNoSuggestion, n)
	}
	return c.suggestions[n-1].Message, nil
}

func pickIndex(input string) (int, bool) {
	rest, ok := strings.CutPrefix(input, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Controller) refreshSuggestions() {
	t := c.router.Transcript()
	assistant, user := t.LastExchange()
	c.suggestions = c.suggester.Suggest(assistant, user, t.Len())
}

// Suggestions returns the chips currently on offer.
func (c *Controller) Suggestions() []suggest.Suggestion { return slices.Clone(c.suggestions) }

// Messages returns the transcript so far.
func (c *Controller) Messages() []dialogue.Message { return c.router.Transcript().Messages() }

// State is the cumulative scale state of the page.
func (c *Controller) State() style.StyleState { return c.engine.State() }

// Sheet exposes the live sheet, e.g. to print its stylesheet.
func (c *Controller) Sheet() *style.Sheet { return c.sheet }

// SessionID is the assistant session, empty until the first successful reply.
func (c *Controller) SessionID() string { return c.router.SessionID() }

// Theme is the current presentation as the terminal shows it.
func (c *Controller) Theme() Theme { return ThemeFrom(c.sheet, c.engine.State()) }
