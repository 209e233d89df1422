// Package catalog serves the compact list of services and solutions the chat
// widget embeds in its prompt.
package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"nextglide-backend/internal/cache"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/offerings"
	"nextglide-backend/internal/transport"
)

type Entry struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
}

type Catalog struct {
	Services  []Entry `json:"services"`
	Solutions []Entry `json:"solutions"`
}

type SummarySource interface {
	ListSummaries(ctx context.Context) ([]offerings.Summary, error)
}

type Service struct {
	services  SummarySource
	solutions SummarySource
}

func NewService(services, solutions SummarySource) *Service {
	return &Service{services: services, solutions: solutions}
}

// Build reads both kinds concurrently.
func (s *Service) Build(ctx context.Context) (Catalog, error) {
	var out Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.services.ListSummaries(gctx)
		if err != nil {
			return err
		}
		out.Services = toEntries(items)
		return nil
	})
	g.Go(func() error {
		items, err := s.solutions.ListSummaries(gctx)
		if err != nil {
			return err
		}
		out.Solutions = toEntries(items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

func toEntries(items []offerings.Summary) []Entry {
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		benefits := it.KeyFeatures
		if benefits == nil {
			benefits = []string{}
		}
		out = append(out, Entry{
			Name:        it.Name,
			Category:    it.Category,
			Description: it.ShortDescription,
			Benefits:    benefits,
		})
	}
	return out
}

type Handler struct {
	service  *Service
	log      *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewHandler(service *Service, log *slog.Logger, c cache.Cache, cacheTTL time.Duration) *Handler {
	return &Handler{service: service, log: log, cache: cache.OrNoop(c), cacheTTL: cacheTTL}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.log
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		log = log.With(slog.String("request_id", id))
	}

	if cached, ok, err := h.cache.Get(r.Context(), cache.CatalogKey); err == nil && ok {
		log.Debug("catalog get: cache hit")
		transport.WriteRawJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.service.Build(ctx)
	if err != nil {
		log.Error("catalog get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := cache.SetJSON(r.Context(), h.cache, cache.CatalogKey, out, h.cacheTTL); err != nil {
		log.Warn("catalog cache: set failed", slog.String("error", err.Error()))
	}

	log.Info("catalog get: ok", slog.Int("services", len(out.Services)), slog.Int("solutions", len(out.Solutions)))
	transport.WriteJSON(w, http.StatusOK, out)
}
