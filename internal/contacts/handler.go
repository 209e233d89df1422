package contacts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
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
	wg      sync.WaitGroup
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

// Wait blocks until background notifications have finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("contact create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("contact create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.wg.Add(1)
	go func(created Contact) {
		defer h.wg.Done()
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifySender(notifyCtx, created); err != nil {
			h.log.Warn("contact create: welcome email failed",
				slog.String("contact_id", created.ID),
				slog.String("email", created.Email),
				slog.String("error", err.Error()),
			)
		}
		if err := h.service.NotifyAdmin(notifyCtx, created); err != nil {
			h.log.Warn("contact create: admin notification failed",
				slog.String("contact_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}(item)

	log.Info("contact create: stored", slog.String("contact_id", item.ID), slog.String("source", item.Source))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 100, 500)
	if err != nil {
		log.Warn("admin contacts list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, ListFilter{Source: r.URL.Query().Get("source")}, limit, offset)
	if err != nil {
		log.Error("admin contacts list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, transport.ListResponse[Contact]{
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin contacts delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin contacts delete: not found", slog.String("contact_id", id))
			transport.WriteError(w, http.StatusNotFound, "contact not found", nil)
			return
		}
		log.Error("admin contacts delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin contacts delete: ok", slog.String("contact_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) AdminResendWelcome(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin contacts resend: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	item, messageID, err := h.service.ResendWelcome(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "contact not found", nil)
			return
		}
		h.writeMailError(w, log, "admin contacts resend", err)
		return
	}

	log.Info("admin contacts resend: ok", slog.String("contact_id", id), slog.String("message_id", messageID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"id":        item.ID,
		"email":     item.Email,
		"messageId": messageID,
	})
}

func (h *Handler) AdminCustomEmail(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CustomEmail
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin contacts custom email: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin contacts custom email: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	messageID, err := h.service.SendCustomEmail(ctx, req)
	if err != nil {
		h.writeMailError(w, log, "admin contacts custom email", err)
		return
	}

	log.Info("admin contacts custom email: ok", slog.String("to", req.ToEmail), slog.String("message_id", messageID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"messageId": messageID,
	})
}

func (h *Handler) writeMailError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrMailerDisabled):
		log.Warn(op + ": mailer disabled")
		transport.WriteError(w, http.StatusServiceUnavailable, "email not configured", nil)
	case errors.Is(err, ErrSendFailed):
		log.Warn(op+": send failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "email delivery failed", nil)
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
