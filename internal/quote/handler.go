package quote

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"urbanfix-backend/internal/httpx"
	"urbanfix-backend/internal/middleware"
	"urbanfix-backend/internal/solicitud"
	"urbanfix-backend/internal/transport"
	"urbanfix-backend/internal/validation"
)

type SaveRequest struct {
	SheetRowIndex int        `json:"sheetRowIndex" validate:"required,min=2"`
	Estado        string     `json:"estado" validate:"required"`
	Items         []LineItem `json:"items"`
	ManoDeObra    float64    `json:"manoDeObra" validate:"gte=0"`
	Materiales    float64    `json:"materiales" validate:"gte=0"`
	GenerarPDF    bool       `json:"generarPdf"`
}

type SaveResponse struct {
	Success     bool    `json:"success"`
	Total       float64 `json:"total"`
	PDF         string  `json:"pdf,omitempty"`
	ExportError string  `json:"exportError,omitempty"`
}

type DetailResponse struct {
	SheetRowIndex int        `json:"sheetRowIndex"`
	Estado        string     `json:"estado"`
	Items         []LineItem `json:"items"`
	ManoDeObra    float64    `json:"manoDeObra"`
	Materiales    float64    `json:"materiales"`
	Total         float64    `json:"total"`
}

type Handler struct {
	service *solicitud.Service
	val     *validation.Validator
	log     *slog.Logger
	now     func() time.Time
}

func NewHandler(service *solicitud.Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
		now:     time.Now,
	}
}

// Save serves POST /api/cotizaciones: compute the total, serialize the
// detail, commit one update, then optionally render the PDF. A failed
// render never rolls the committed save back.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SaveRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("quote save: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("quote save: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	detail := Detail{Items: req.Items, ManoDeObra: req.ManoDeObra}
	if detail.Items == nil {
		detail.Items = []LineItem{}
	}
	detailJSON, err := detail.Marshal()
	if err != nil {
		log.Error("quote save: marshal error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}

	total := Total(req.Materiales, req.ManoDeObra)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	update := solicitud.UpdateRequest{
		SheetRowIndex:  req.SheetRowIndex,
		NewStatus:      req.Estado,
		NewMonto:       FormatMonto(total),
		NewPresupuesto: &detailJSON,
	}
	if err := h.service.Update(ctx, update); err != nil {
		if errors.Is(err, solicitud.ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"estado": "oneof"})
			return
		}
		log.Error("quote save: write rejected",
			slog.Int("sheet_row", req.SheetRowIndex),
			slog.String("error", err.Error()),
		)
		transport.WriteFailure(w, http.StatusBadGateway, "no se pudo guardar la cotizacion", true)
		return
	}

	resp := SaveResponse{Success: true, Total: total}

	if req.GenerarPDF {
		rec, err := h.service.GetByRow(ctx, req.SheetRowIndex)
		if err == nil {
			var pdfBytes []byte
			pdfBytes, err = RenderPDF(rec, detail, req.Materiales, h.now())
			if err == nil {
				resp.PDF = base64.StdEncoding.EncodeToString(pdfBytes)
			}
		}
		if err != nil {
			// Saved, but export failed: report the narrower error without
			// undoing the committed update.
			log.Warn("quote save: export failed",
				slog.Int("sheet_row", req.SheetRowIndex),
				slog.String("error", err.Error()),
			)
			resp.ExportError = "cotizacion guardada, pero fallo la exportacion del PDF"
		}
	}

	log.Info("quote save: ok", slog.Int("sheet_row", req.SheetRowIndex), slog.Float64("total", total))
	transport.WriteJSON(w, http.StatusOK, resp)
}

// Detail serves GET /api/cotizaciones/{sheetRowIndex}: rehydrates the quote
// form from the stored detail JSON.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	rec, ok := h.recordFromPath(w, r, log)
	if !ok {
		return
	}

	detail := ParseDetail(rec.Presupuesto)
	materiales := MaterialesFrom(rec.MontoCotizado, detail.ManoDeObra)

	transport.WriteJSON(w, http.StatusOK, DetailResponse{
		SheetRowIndex: rec.SheetRowIndex,
		Estado:        rec.Estado,
		Items:         detail.Items,
		ManoDeObra:    detail.ManoDeObra,
		Materiales:    materiales,
		Total:         Total(materiales, detail.ManoDeObra),
	})
}

// PDF serves GET /api/cotizaciones/{sheetRowIndex}/pdf from the stored
// record, for re-downloading an already-saved quote.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	rec, ok := h.recordFromPath(w, r, log)
	if !ok {
		return
	}

	detail := ParseDetail(rec.Presupuesto)
	materiales := MaterialesFrom(rec.MontoCotizado, detail.ManoDeObra)

	pdfBytes, err := RenderPDF(rec, detail, materiales, h.now())
	if err != nil {
		log.Error("quote pdf: export failed",
			slog.Int("sheet_row", rec.SheetRowIndex),
			slog.String("error", err.Error()),
		)
		transport.WriteError(w, http.StatusBadGateway, "fallo la exportacion del PDF", nil)
		return
	}

	log.Info("quote pdf: ok", slog.Int("sheet_row", rec.SheetRowIndex))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=Presupuesto_UrbanFix_%s.pdf", rec.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (h *Handler) recordFromPath(w http.ResponseWriter, r *http.Request, log *slog.Logger) (solicitud.Record, bool) {
	raw := chi.URLParam(r, "sheetRowIndex")
	row, err := strconv.Atoi(raw)
	if err != nil || row < 2 {
		log.Warn("quote: invalid row", slog.String("raw", raw))
		transport.WriteError(w, http.StatusBadRequest, "invalid sheetRowIndex", nil)
		return solicitud.Record{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.service.GetByRow(ctx, row)
	if err != nil {
		if errors.Is(err, solicitud.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "solicitud no encontrada", nil)
			return solicitud.Record{}, false
		}
		log.Error("quote: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "no se pudo leer la planilla", nil)
		return solicitud.Record{}, false
	}
	return rec, true
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
