package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nextglide-backend/internal/transport"
)

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			s.logWithRequest(r).Warn("health: mongo unreachable", slog.String("error", err.Error()))
			transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "mongo": "down"})
			return
		}
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
