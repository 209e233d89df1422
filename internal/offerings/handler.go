package offerings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"nextglide-backend/internal/cache"
	"nextglide-backend/internal/httpx"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/sections"
	"nextglide-backend/internal/transport"
	"nextglide-backend/internal/validation"
)

type Handler struct {
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, c cache.Cache, cacheTTL time.Duration) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log.With(slog.String("kind", string(service.Kind()))),
		cache:    cache.OrNoop(c),
		cacheTTL: cacheTTL,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	key := cache.OfferingListKey(string(h.service.Kind()))
	if cached, ok, err := h.cache.Get(r.Context(), key); err == nil && ok {
		log.Debug("offerings public list: cache hit")
		transport.WriteRawJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("offerings public list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.store(r.Context(), key, items)
	log.Info("offerings public list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn("offerings public get: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	key := cache.OfferingSlugKey(string(h.service.Kind()), slug)
	if cached, ok, err := h.cache.Get(r.Context(), key); err == nil && ok {
		log.Debug("offerings public get: cache hit", slog.String("slug", slug))
		transport.WriteRawJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetBySlug(ctx, slug)
	if err != nil {
		h.writeLookupError(w, log, "offerings public get", slug, err)
		return
	}

	h.store(r.Context(), key, item)
	log.Info("offerings public get: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) PublicSections(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rendered, err := h.service.RenderSections(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeLookupError(w, log, "offerings public sections", slug, err)
			return
		}
		if errors.Is(err, sections.ErrUnknownLayout) {
			log.Error("offerings public sections: render error", slog.String("slug", slug), slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "render error", nil)
			return
		}
		log.Error("offerings public sections: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("offerings public sections: ok", slog.String("slug", slug), slog.Int("count", len(rendered)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"slug":     slug,
		"sections": rendered,
	})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req Request
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin offerings create: invalid json", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin offerings create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeWriteError(w, log, "admin offerings create", "", err)
		return
	}

	h.invalidate(r.Context(), item.Slug)
	log.Info("admin offerings create: ok", slog.String("offering_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin offerings update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req Request
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin offerings update: invalid json", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin offerings update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, previous, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeWriteError(w, log, "admin offerings update", id, err)
		return
	}

	h.invalidate(r.Context(), previous.Slug, item.Slug)
	log.Info("admin offerings update: ok",
		slog.String("offering_id", id),
		slog.String("slug", item.Slug),
		slog.Int("sections", len(item.DynamicSections)),
	)
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin offerings delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.service.Delete(ctx, id)
	if err != nil {
		h.writeLookupError(w, log, "admin offerings delete", id, err)
		return
	}

	h.invalidate(r.Context(), deleted.Slug)
	log.Info("admin offerings delete: ok", slog.String("offering_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) writeLookupError(w http.ResponseWriter, log *slog.Logger, op, key string, err error) {
	if errors.Is(err, ErrNotFound) {
		log.Warn(op+": not found", slog.String("key", key))
		transport.WriteError(w, http.StatusNotFound, string(h.service.Kind())+" not found", nil)
		return
	}
	log.Error(op+": database error", slog.String("error", err.Error()))
	transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
}

func (h *Handler) writeWriteError(w http.ResponseWriter, log *slog.Logger, op, id string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op+": not found", slog.String("offering_id", id))
		transport.WriteError(w, http.StatusNotFound, string(h.service.Kind())+" not found", nil)
	case errors.Is(err, ErrSlugExists):
		log.Warn(op + ": slug exists")
		transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
	case errors.Is(err, ErrInvalidSlug):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
	case errors.Is(err, ErrNameRequired):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"name": "required"})
	case errors.Is(err, ErrInvalidSections):
		log.Warn(op+": invalid sections", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"dynamicSections": err.Error()})
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}

func (h *Handler) store(ctx context.Context, key string, payload interface{}) {
	if err := cache.SetJSON(ctx, h.cache, key, payload, h.cacheTTL); err != nil {
		h.log.Warn("offerings cache: set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// invalidate drops the kind's list, the given slugs and the catalog summary.
func (h *Handler) invalidate(ctx context.Context, slugs ...string) {
	kind := string(h.service.Kind())
	keys := []string{cache.OfferingListKey(kind), cache.CatalogKey}
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, cache.OfferingSlugKey(kind, slug))
		}
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		h.log.Warn("offerings cache: invalidate failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
