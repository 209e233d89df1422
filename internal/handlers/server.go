// Package handlers serves the admin session endpoints and the health probe.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"nextglide-backend/internal/auth"
	"nextglide-backend/internal/config"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/validation"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Cfg  *config.Config
	Auth *auth.Manager
	Val  *validation.Validator
	Log  *slog.Logger
	DB   Pinger
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
