package inquiries

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
		log:     log.With(slog.String("kind", string(service.Kind()))),
	}
}

// Wait blocks until every notification started by Create has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("inquiry create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("inquiry create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOfferingRequired):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{string(h.service.Kind()) + "Id": "required"})
		case errors.Is(err, ErrPhoneRequired):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"phone": "required"})
		case errors.Is(err, ErrOfferingNotFound):
			offeringID, _ := h.service.offeringRef(req)
			log.Warn("inquiry create: offering not found", slog.String("offering_id", offeringID))
			transport.WriteError(w, http.StatusNotFound, string(h.service.Kind())+" not found", nil)
		default:
			log.Error("inquiry create: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	h.wg.Add(1)
	go func(created Inquiry) {
		defer h.wg.Done()
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyAdmin(notifyCtx, created); err != nil {
			h.log.Warn("inquiry create: admin notification failed",
				slog.String("inquiry_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
		if err := h.service.NotifyApplicant(notifyCtx, created); err != nil {
			h.log.Warn("inquiry create: receipt email failed",
				slog.String("inquiry_id", created.ID),
				slog.String("email", created.Email),
				slog.String("error", err.Error()),
			)
		}
	}(item)

	log.Info("inquiry create: ok", slog.String("inquiry_id", item.ID), slog.String("offering_id", item.OfferingID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "inquiry submitted",
		"id":      item.ID,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		log.Warn("admin inquiry list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{OfferingID: q.Get("offeringId")}
	if filter.OfferingID == "" {
		filter.OfferingID = q.Get(string(h.service.Kind()) + "Id")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin inquiry list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin inquiry list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, transport.ListResponse[Inquiry]{
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

func (h *Handler) AdminGetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin inquiry get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin inquiry get: not found", slog.String("inquiry_id", id))
			transport.WriteError(w, http.StatusNotFound, "inquiry not found", nil)
			return
		}
		log.Error("admin inquiry get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin inquiry get: ok", slog.String("inquiry_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin inquiry delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin inquiry delete: not found", slog.String("inquiry_id", id))
			transport.WriteError(w, http.StatusNotFound, "inquiry not found", nil)
			return
		}
		log.Error("admin inquiry delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin inquiry delete: ok", slog.String("inquiry_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) AdminResend(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin inquiry resend: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	item, messageID, err := h.service.Resend(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			transport.WriteError(w, http.StatusNotFound, "inquiry not found", nil)
		case errors.Is(err, ErrMailerDisabled):
			log.Warn("admin inquiry resend: mailer disabled")
			transport.WriteError(w, http.StatusServiceUnavailable, "email not configured", nil)
		case errors.Is(err, ErrSendFailed):
			log.Warn("admin inquiry resend: send failed", slog.String("inquiry_id", id), slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadGateway, "email delivery failed", nil)
		default:
			log.Error("admin inquiry resend: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin inquiry resend: ok", slog.String("inquiry_id", id), slog.String("message_id", messageID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"id":        item.ID,
		"email":     item.Email,
		"messageId": messageID,
	})
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
