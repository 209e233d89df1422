package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"nextglide-backend/internal/httpx"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/transport"
	"nextglide-backend/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("jobs list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("jobs list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	req, ok := h.decodeJob(w, r, log, "admin jobs create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeJobError(w, log, "admin jobs create", err)
		return
	}

	log.Info("admin jobs create: ok", slog.String("job_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin jobs update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}
	req, ok := h.decodeJob(w, r, log, "admin jobs update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeJobError(w, log, "admin jobs update", err)
		return
	}

	log.Info("admin jobs update: ok", slog.String("job_id", item.ID))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin jobs delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeJobError(w, log, "admin jobs delete", err)
		return
	}

	log.Info("admin jobs delete: ok", slog.String("job_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) PublicGetForm(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	jobID := strings.TrimSpace(chi.URLParam(r, "jobId"))
	if jobID == "" {
		log.Warn("forms get: missing job id")
		transport.WriteError(w, http.StatusBadRequest, "missing job id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	form, err := h.service.GetForm(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			log.Debug("forms get: not found", slog.String("job_id", jobID))
			transport.WriteError(w, http.StatusNotFound, "form not found", nil)
			return
		}
		log.Error("forms get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("forms get: ok", slog.String("job_id", jobID), slog.Int("fields", len(form.Fields)))
	transport.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) AdminSaveForm(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req FormRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin forms save: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin forms save: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	form, err := h.service.SaveForm(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin forms save: job not found", slog.String("job_id", req.JobID))
			transport.WriteError(w, http.StatusNotFound, "job not found", nil)
			return
		}
		log.Error("admin forms save: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin forms save: ok", slog.String("job_id", form.JobID), slog.Int("fields", len(form.Fields)))
	transport.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) decodeJob(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (JobRequest, bool) {
	var req JobRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return JobRequest{}, false
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return JobRequest{}, false
	}
	return req, true
}

func (h *Handler) writeJobError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "job not found", nil)
	case errors.Is(err, ErrTitleRequired):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"title": "required"})
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
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
