package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/portfolio-chat/internal/remote"
	"github.com/comigor/portfolio-chat/internal/widget"
)

type echoAssistant struct{}

func (echoAssistant) Ask(_ context.Context, req remote.Request) (*remote.Response, error) {
	return &remote.Response{Reply: "echo: " + req.Message, SessionID: "s"}, nil
}

func TestRunChat(t *testing.T) {
	w := widget.New(echoAssistant{}, "Henry")
	in := strings.NewReader("change background to blue\n/css\n/7\nwho are you?\n/quit\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), w, in, &out))

	got := out.String()
	require.Contains(t, got, "background-color: #3b82f6 !important;")
	require.Contains(t, got, "no such suggestion: 7")
	require.Contains(t, got, "echo: who are you?")
	require.Equal(t, "s", w.SessionID())
}

func TestRunChat_EOF(t *testing.T) {
	w := widget.New(echoAssistant{}, "Henry")
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), w, strings.NewReader(""), &out))
	require.Contains(t, out.String(), "Henry's portfolio assistant")
}
