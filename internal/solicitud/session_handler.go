package solicitud

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"urbanfix-backend/internal/httpx"
	"urbanfix-backend/internal/transport"
)

// Server-side edit sessions. The panel holds at most one row under edit, so
// the session endpoints mirror the table controller's contract: begin
// snapshots the row, patch mutates only the draft, save commits exactly one
// write, cancel discards without touching the sheet.

type beginEditRequest struct {
	SheetRowIndex int `json:"sheetRowIndex" validate:"required,min=2"`
}

type patchEditRequest struct {
	NewStatus *string `json:"newStatus,omitempty"`
	NewMonto  *string `json:"newMonto,omitempty"`
}

type editSessionResponse struct {
	Editing bool   `json:"editing"`
	Record  Record `json:"record"`
}

func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req beginEditRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("edit begin: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("edit begin: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.service.GetByRow(ctx, req.SheetRowIndex)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "solicitud no encontrada", nil)
			return
		}
		log.Error("edit begin: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "no se pudo leer la planilla", nil)
		return
	}

	session, err := h.sessions.Begin(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrEditInProgress) {
			log.Warn("edit begin: session busy", slog.Int("sheet_row", req.SheetRowIndex))
			transport.WriteError(w, http.StatusConflict, "ya hay una fila en edicion", nil)
			return
		}
		log.Error("edit begin: session error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
		return
	}

	log.Info("edit begin: ok", slog.Int("sheet_row", rec.SheetRowIndex))
	transport.WriteJSON(w, http.StatusCreated, editSessionResponse{Editing: true, Record: session.Draft})
}

func (h *Handler) PatchEdit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req patchEditRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("edit patch: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	session, err := h.sessions.Get(r.Context())
	if err != nil {
		h.writeSessionError(w, log, "edit patch", err)
		return
	}

	if req.NewStatus != nil {
		if err := session.SetStatus(*req.NewStatus); err != nil {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"newStatus": "oneof"})
			return
		}
	}
	if req.NewMonto != nil {
		session.SetMonto(*req.NewMonto)
	}

	if err := h.sessions.Update(r.Context(), session); err != nil {
		log.Error("edit patch: session error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, editSessionResponse{Editing: true, Record: session.Draft})
}

func (h *Handler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	session, err := h.sessions.Get(r.Context())
	if err != nil {
		h.writeSessionError(w, log, "edit save", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	draft := session.Draft
	if err := h.service.ApplyPatch(ctx, draft.SheetRowIndex, session.CommitPatch()); err != nil {
		// The session dies either way: a failed save forces a full reload,
		// which re-syncs the list with the sheet's true state.
		_ = h.sessions.Clear(r.Context())
		log.Error("edit save: write rejected",
			slog.Int("sheet_row", draft.SheetRowIndex),
			slog.String("error", err.Error()),
		)
		transport.WriteFailure(w, http.StatusBadGateway, "no se pudo guardar en la planilla", true)
		return
	}

	_ = h.sessions.Clear(r.Context())
	h.invalidate(r.Context())

	log.Info("edit save: ok", slog.Int("sheet_row", draft.SheetRowIndex), slog.String("estado", draft.Estado))
	transport.WriteJSON(w, http.StatusOK, editSessionResponse{Editing: false, Record: draft})
}

func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	session, err := h.sessions.Get(r.Context())
	if err != nil {
		h.writeSessionError(w, log, "edit cancel", err)
		return
	}

	if err := h.sessions.Clear(r.Context()); err != nil {
		log.Error("edit cancel: session error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
		return
	}

	log.Info("edit cancel: ok", slog.Int("sheet_row", session.Snapshot.SheetRowIndex))
	transport.WriteJSON(w, http.StatusOK, editSessionResponse{Editing: false, Record: session.Snapshot})
}

func (h *Handler) writeSessionError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	if errors.Is(err, ErrNoActiveEdit) {
		transport.WriteError(w, http.StatusNotFound, "no hay fila en edicion", nil)
		return
	}
	log.Error(op+": session error", slog.String("error", err.Error()))
	transport.WriteError(w, http.StatusInternalServerError, "session error", nil)
}
