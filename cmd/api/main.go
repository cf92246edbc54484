package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"urbanfix-backend/internal/auth"
	"urbanfix-backend/internal/cache"
	"urbanfix-backend/internal/config"
	"urbanfix-backend/internal/middleware"
	"urbanfix-backend/internal/notifications"
	"urbanfix-backend/internal/quote"
	"urbanfix-backend/internal/sheets"
	"urbanfix-backend/internal/solicitud"
	"urbanfix-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.SpreadsheetID == "" {
		logger.Error("SPREADSHEET_ID is not set")
		os.Exit(1)
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.GoogleCredsPath)
	if err != nil {
		logger.Error("sheets connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("sheets connected", slog.String("spreadsheet", cfg.SpreadsheetID), slog.String("sheet", cfg.SheetName))

	// Redis when configured, otherwise an in-process cache. The edit session
	// lock lives in the cache, so a noop store would break its exclusivity.
	var cacheStore cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if cfg.RedisURL != "" {
			logger.Info("redis connected (url)")
		} else {
			logger.Info("redis connected", slog.String("addr", cfg.RedisAddr))
		}
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "urbanfix-backend",
		}
	}

	var notifier solicitud.Notifier
	if mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoNotifyEmail, cfg.BrevoSandbox); mailer != nil {
		notifier = mailer
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	} else {
		logger.Info("brevo mailer disabled")
	}

	val := validation.New()

	store := solicitud.NewSheetStore(sheetsClient, cfg.SheetName)
	service := solicitud.NewService(store, cfg.Timezone)
	sessions := solicitud.NewSessionStore(cacheStore, time.Duration(cfg.EditSessionTTLMin)*time.Minute)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	solicitudHandler := solicitud.NewHandler(service, sessions, cacheStore, cacheTTL, val, logger, notifier)
	quoteHandler := quote.NewHandler(service, val, logger)
	authHandler := auth.NewHandler(cfg, val, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	intakeLimiter := middleware.NewRateLimiter(cfg.RateLimitIntake, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.With(intakeLimiter.Middleware).Post("/crear-solicitud", solicitudHandler.Create)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", authHandler.Login)
			admin.Post("/refresh", authHandler.Refresh)
			admin.Post("/logout", authHandler.Logout)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))

			protected.Get("/solicitudes-sheet", solicitudHandler.List)
			protected.Get("/dashboard-summary", solicitudHandler.Summary)
			protected.Patch("/update-solicitud", solicitudHandler.Update)
			protected.Delete("/eliminar-solicitud", solicitudHandler.Delete)

			protected.Post("/edit-session", solicitudHandler.BeginEdit)
			protected.Patch("/edit-session", solicitudHandler.PatchEdit)
			protected.Post("/edit-session/save", solicitudHandler.SaveEdit)
			protected.Post("/edit-session/cancel", solicitudHandler.CancelEdit)

			protected.Post("/cotizaciones", quoteHandler.Save)
			protected.Get("/cotizaciones/{sheetRowIndex}", quoteHandler.Detail)
			protected.Get("/cotizaciones/{sheetRowIndex}/pdf", quoteHandler.PDF)
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
