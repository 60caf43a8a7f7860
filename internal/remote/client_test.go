package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/portfolio-chat/internal/config"
)

func TestClientAsk_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get(APIKeyHeader))

		var in Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "hi", in.Message)
		require.Empty(t, in.SessionID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{
			Reply:     "hello",
			SessionID: "s-1",
			MessageID: "m-1",
			Timestamp: time.Unix(0, 0).UTC(),
			Intent:    "general",
		})
	}))
	defer srv.Close()

	c := NewClient(config.WidgetConfig{AssistantURL: srv.URL + "/", APIKey: "secret", Timeout: time.Second})
	out, err := c.Ask(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hello", out.Reply)
	require.Equal(t, "s-1", out.SessionID)
	require.Equal(t, "general", out.Intent)
}

func TestClientAsk_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(config.WidgetConfig{AssistantURL: srv.URL})
	_, err := c.Ask(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStatus))
}

func TestClientAsk_Unreachable(t *testing.T) {
	c := NewClient(config.WidgetConfig{AssistantURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	_, err := c.Ask(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
}
