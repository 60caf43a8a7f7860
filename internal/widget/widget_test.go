package widget

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/comigor/portfolio-chat/internal/dialogue"
	"github.com/comigor/portfolio-chat/internal/remote"
	"github.com/comigor/portfolio-chat/internal/style"
	"github.com/comigor/portfolio-chat/internal/suggest"
)

type fakeAssistant struct {
	asked []remote.Request
	reply string
	err   error
}

func (f *fakeAssistant) Ask(_ context.Context, req remote.Request) (*remote.Response, error) {
	f.asked = append(f.asked, req)
	if f.err != nil {
		return nil, f.err
	}
	return &remote.Response{Reply: f.reply, SessionID: "sess-42"}, nil
}

func TestNew_Welcome(t *testing.T) {
	c := New(&fakeAssistant{}, "Henry")

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, dialogue.RoleAssistant, msgs[0].Role)
	require.Contains(t, msgs[0].Content, "Henry's portfolio assistant")

	s := c.Suggestions()
	require.Len(t, s, suggest.Size)
	require.Equal(t, "Change background to teal", s[0].Message)
	require.Equal(t, style.InitialState(), c.State())
}

func TestSend_SuggestionPicksDriveStyles(t *testing.T) {
	a := &fakeAssistant{}
	c := New(a, "Henry")
	ctx := context.Background()

	turn, err := c.Send(ctx, "/1")
	require.NoError(t, err)
	require.Equal(t, "Change background to teal", turn.Input)
	require.False(t, turn.Result.RemoteCalled)
	require.Equal(t, lipgloss.Color("#14b8a6"), c.Theme().Background)
	require.Equal(t, "Change background to dark", turn.Suggestions[0].Message)

	_, err = c.Send(ctx, "/1")
	require.NoError(t, err)
	th := c.Theme()
	require.Equal(t, lipgloss.Color("#0f172a"), th.Background)
	require.Equal(t, DefaultBackground, th.Foreground, "light text on a dark background")
	require.Len(t, c.Sheet().Overrides(), 1)

	_, err = c.Send(ctx, "/2")
	require.NoError(t, err)
	require.Equal(t, lipgloss.Color("#ffffff"), c.Theme().Foreground)

	require.Empty(t, a.asked)
}

func TestSend_BadPick(t *testing.T) {
	c := New(&fakeAssistant{}, "Henry")
	_, err := c.Send(context.Background(), "/9")
	require.ErrorIs(t, err, ErrNoSuggestion)
	require.Len(t, c.Messages(), 1)
}

func TestSend_BlankIgnored(t *testing.T) {
	c := New(&fakeAssistant{}, "Henry")
	turn, err := c.Send(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, turn.Suggestions, suggest.Size)
	require.Len(t, c.Messages(), 1)
}

func TestSend_QuestionReachesAssistant(t *testing.T) {
	a := &fakeAssistant{reply: "Henry's skills span design systems and Go."}
	c := New(a, "Henry")

	turn, err := c.Send(context.Background(), "what are Henry's skills?")
	require.NoError(t, err)
	require.True(t, turn.Result.RemoteCalled)
	require.Len(t, a.asked, 1)
	require.Equal(t, "sess-42", c.SessionID())
	require.Equal(t, "Show me Henry's projects", turn.Suggestions[0].Message)

	view := c.View(0)
	require.Contains(t, view, "Henry's skills span design systems and Go.")
	require.Contains(t, view, "[/1]")
}

func TestSend_AssistantDownKeepsStyles(t *testing.T) {
	a := &fakeAssistant{err: errors.New("connection refused")}
	c := New(a, "Henry")

	turn, err := c.Send(context.Background(), "make text bigger, who built this?")
	require.NoError(t, err)
	require.Error(t, turn.Result.RemoteErr)
	require.Equal(t, 120, c.State().FontScalePercent)
	msgs := c.Messages()
	require.Equal(t, dialogue.FallbackWithActions, msgs[len(msgs)-1].Content)
}

func TestSend_ResetRestoresTheme(t *testing.T) {
	c := New(&fakeAssistant{}, "Henry")
	ctx := context.Background()
	for _, in := range []string{"change background to purple", "change accent to orange", "make text bigger and increase spacing"} {
		_, err := c.Send(ctx, in)
		require.NoError(t, err)
	}
	th := c.Theme()
	require.Equal(t, lipgloss.Color("#a855f7"), th.Background)
	// "accent" is itself a lexicon entry and precedes orange
	require.Equal(t, lipgloss.Color("#06b6d4"), th.Accent)
	require.Equal(t, 120, th.FontScale)
	require.Equal(t, 125, th.SpacingScale)
	require.Contains(t, c.View(60), "text 120% · spacing 125%")

	_, err := c.Send(ctx, "reset all styles")
	require.NoError(t, err)
	th = c.Theme()
	require.Equal(t, DefaultBackground, th.Background)
	require.Equal(t, DefaultForeground, th.Foreground)
	require.Equal(t, DefaultAccent, th.Accent)
	require.Equal(t, 1, c.Sheet().Reloads())
	require.Equal(t, style.InitialState(), c.State())
}

func TestThemePadding(t *testing.T) {
	cases := map[int][2]int{
		50:  {0, 1},
		100: {0, 2},
		125: {0, 3},
		150: {1, 3},
		200: {1, 4},
	}
	for scale, want := range cases {
		v, h := Theme{SpacingScale: scale}.Padding()
		require.Equal(t, want, [2]int{v, h}, "scale %d", scale)
	}
}

func TestReadableOn(t *testing.T) {
	require.Equal(t, DefaultForeground, readableOn("#ffffff"))
	require.Equal(t, DefaultBackground, readableOn("#000000"))
	require.Equal(t, DefaultForeground, readableOn("not-a-color"))
}
