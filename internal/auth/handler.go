package auth

import (
	"log/slog"
	"net/http"
	"time"

	"urbanfix-backend/internal/config"
	"urbanfix-backend/internal/httpx"
	"urbanfix-backend/internal/transport"
	"urbanfix-backend/internal/validation"
)

const (
	AccessCookieName  = "uf_access"
	RefreshCookieName = "uf_refresh"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// Handler owns the admin login/refresh/logout endpoints. Tokens travel in
// HttpOnly cookies; the panel never sees them.
type Handler struct {
	cfg *config.Config
	val *validation.Validator
	log *slog.Logger
}

func NewHandler(cfg *config.Config, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{cfg: cfg, val: val, log: log}
}

func (h *Handler) manager() Manager {
	return Manager{
		Secret:     []byte(h.cfg.JWTSecret),
		AccessTTL:  time.Duration(h.cfg.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(h.cfg.RefreshTTLMinutes) * time.Minute,
		Issuer:     "urbanfix-backend",
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		h.log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if (h.cfg.AdminPassword == "" && h.cfg.AdminPasswordHash == "") || h.cfg.JWTSecret == "" {
		h.log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	if err := VerifyAdmin(req.Username, req.Password, h.cfg.AdminUser, h.cfg.AdminPassword, h.cfg.AdminPasswordHash); err != nil {
		h.log.Warn("admin login: invalid credentials", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	manager := h.manager()
	accessToken, err := manager.NewAccessToken(RoleAdmin, req.Username)
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refreshToken, err := manager.NewRefreshToken(RoleAdmin, req.Username)
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	setAuthCookies(w, accessToken, refreshToken, manager.AccessTTL, manager.RefreshTTL, h.cfg.CookieSecure)
	h.log.Info("admin login: ok", slog.String("username", req.Username))
	transport.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.cfg.JWTSecret == "" {
		h.log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	refreshCookie, err := r.Cookie(RefreshCookieName)
	if err != nil || refreshCookie.Value == "" {
		h.log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	manager := h.manager()
	claims, err := manager.Parse(refreshCookie.Value)
	if err != nil || claims.Role != RoleAdmin {
		h.log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	accessToken, err := manager.NewAccessToken(RoleAdmin, claims.User)
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refreshToken, err := manager.NewRefreshToken(RoleAdmin, claims.User)
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	setAuthCookies(w, accessToken, refreshToken, manager.AccessTTL, manager.RefreshTTL, h.cfg.CookieSecure)
	h.log.Info("admin refresh: ok")
	transport.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookies(w, h.cfg.CookieSecure)
	h.log.Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func setAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	accessCookie := &http.Cookie{
		Name:     AccessCookieName,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(accessTTL.Seconds()),
	}
	refreshCookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refresh,
		Path:     "/api/admin",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshTTL.Seconds()),
	}
	http.SetCookie(w, accessCookie)
	http.SetCookie(w, refreshCookie)
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	expire := time.Now().Add(-1 * time.Hour)
	accessCookie := &http.Cookie{
		Name:     AccessCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	}
	refreshCookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/api/admin",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	}
	http.SetCookie(w, accessCookie)
	http.SetCookie(w, refreshCookie)
}
