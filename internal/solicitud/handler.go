package solicitud

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"urbanfix-backend/internal/cache"
	"urbanfix-backend/internal/httpx"
	"urbanfix-backend/internal/middleware"
	"urbanfix-backend/internal/transport"
	"urbanfix-backend/internal/validation"
)

const (
	cacheKeyPrefix  = "solicitudes:"
	listCacheKey    = cacheKeyPrefix + "list"
	summaryCacheKey = cacheKeyPrefix + "summary"
)

type Notifier interface {
	SendSolicitudNotification(ctx context.Context, rec Record) (string, error)
}

type Handler struct {
	service  *Service
	sessions *SessionStore
	cache    cache.Cache
	cacheTTL time.Duration
	val      *validation.Validator
	log      *slog.Logger
	notifier Notifier
}

func NewHandler(service *Service, sessions *SessionStore, c cache.Cache, cacheTTL time.Duration, val *validation.Validator, log *slog.Logger, notifier Notifier) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		cache:    c,
		cacheTTL: cacheTTL,
		val:      val,
		log:      log,
		notifier: notifier,
	}
}

// List serves GET /api/solicitudes-sheet.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if cached, ok, err := h.cache.Get(r.Context(), listCacheKey); err == nil && ok {
		log.Info("solicitudes list: cache hit")
		writeCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.List(ctx)
	if err != nil {
		log.Error("solicitudes list: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "no se pudo leer la planilla", nil)
		return
	}

	response := map[string]interface{}{"solicitudes": records}
	h.cacheResponse(r.Context(), listCacheKey, response)

	log.Info("solicitudes list: ok", slog.Int("count", len(records)))
	transport.WriteJSON(w, http.StatusOK, response)
}

// Summary serves GET /api/dashboard-summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if cached, ok, err := h.cache.Get(r.Context(), summaryCacheKey); err == nil && ok {
		log.Info("dashboard summary: cache hit")
		writeCachedJSON(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sum, err := h.service.Summary(ctx)
	if err != nil {
		log.Error("dashboard summary: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "no se pudo leer la planilla", nil)
		return
	}

	h.cacheResponse(r.Context(), summaryCacheKey, sum)

	log.Info("dashboard summary: ok",
		slog.Int("total", sum.Total),
		slog.Int("pendientes", sum.Pendientes),
		slog.Int("finalizadas", sum.Finalizadas),
	)
	transport.WriteJSON(w, http.StatusOK, sum)
}

// Create serves POST /api/crear-solicitud (public intake).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("solicitud create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("solicitud create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("solicitud create: store error", slog.String("error", err.Error()))
		transport.WriteFailure(w, http.StatusBadGateway, "no se pudo registrar la solicitud", false)
		return
	}

	h.invalidate(r.Context())

	if h.notifier != nil {
		go func(created Record) {
			notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
			defer notifyCancel()
			if _, err := h.notifier.SendSolicitudNotification(notifyCtx, created); err != nil {
				h.log.Warn("solicitud create: notification failed",
					slog.String("cliente", created.NombreApellido),
					slog.String("error", err.Error()),
				)
			}
		}(rec)
	}

	log.Info("solicitud create: ok", slog.String("categoria", rec.CategoriaTrabajo))
	transport.WriteJSON(w, http.StatusCreated, transport.ActionResponse{
		Success: true,
		Message: "solicitud registrada",
	})
}

// Update serves PATCH /api/update-solicitud (the edit-save commit).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("solicitud update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("solicitud update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.service.Update(ctx, req); err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"newStatus": "oneof"})
			return
		}
		// The client must reload: without optimistic locking a failed save
		// leaves the in-memory list out of sync with the sheet.
		log.Error("solicitud update: write rejected",
			slog.Int("sheet_row", req.SheetRowIndex),
			slog.String("error", err.Error()),
		)
		transport.WriteFailure(w, http.StatusBadGateway, "no se pudo guardar en la planilla", true)
		return
	}

	h.invalidate(r.Context())

	log.Info("solicitud update: ok", slog.Int("sheet_row", req.SheetRowIndex), slog.String("estado", req.NewStatus))
	transport.WriteJSON(w, http.StatusOK, transport.ActionResponse{
		Success: true,
		Message: "solicitud actualizada",
	})
}

// Delete serves DELETE /api/eliminar-solicitud.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req DeleteRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("solicitud delete: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("solicitud delete: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, req.SheetRowIndex); err != nil {
		log.Error("solicitud delete: write rejected",
			slog.Int("sheet_row", req.SheetRowIndex),
			slog.String("error", err.Error()),
		)
		transport.WriteFailure(w, http.StatusBadGateway, "no se pudo eliminar la solicitud", false)
		return
	}

	h.invalidate(r.Context())

	log.Info("solicitud delete: ok", slog.Int("sheet_row", req.SheetRowIndex))
	transport.WriteJSON(w, http.StatusOK, transport.ActionResponse{Success: true})
}

func (h *Handler) cacheResponse(ctx context.Context, key string, payload interface{}) {
	raw, err := encodeJSON(payload)
	if err != nil {
		return
	}
	_ = h.cache.Set(ctx, key, raw, h.cacheTTL)
}

func (h *Handler) invalidate(ctx context.Context) {
	_ = h.cache.DeletePrefix(ctx, cacheKeyPrefix)
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
