// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/comigor/portfolio-chat/internal/assistant"
	"github.com/comigor/portfolio-chat/internal/logger"
	"github.com/comigor/portfolio-chat/internal/remote"
)

// Replier answers one visitor message; *assistant.Agent satisfies it.
type Replier interface {
	Reply(ctx context.Context, sessionID, message string) (*assistant.Reply, error)
}

// NewRouter wires the assistant routes. An empty apiKey disables auth.
func NewRouter(agent Replier, apiKey string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(requireAPIKey(apiKey))
		api.Post("/chat", handleChat(agent))
	})

	return r
}

func handleChat(agent Replier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload remote.Request
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		payload.Message = strings.TrimSpace(payload.Message)
		if payload.Message == "" {
			respondError(w, http.StatusBadRequest, "message is required")
			return
		}

		reply, err := agent.Reply(r.Context(), payload.SessionID, payload.Message)
		if err != nil {
			logger.L.Error("assistant reply failed",
				"request_id", middleware.GetReqID(r.Context()),
				"session_id", payload.SessionID,
				"error", err)
			if errors.Is(err, assistant.ErrEmptyMessage) {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			respondError(w, http.StatusBadGateway, "assistant unavailable")
			return
		}

		respondJSON(w, http.StatusOK, remote.Response{
			Reply:      reply.Text,
			SessionID:  reply.SessionID,
			MessageID:  reply.MessageID,
			Timestamp:  reply.Timestamp,
			Intent:     string(reply.Intent),
			Confidence: reply.Confidence,
			Sources:    reply.Sources,
		})
	}
}

func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(remote.APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				respondError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each request through the shared slog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.L.Info("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
