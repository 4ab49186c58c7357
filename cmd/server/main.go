package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/webstudio/internal/analytics"
	"github.com/alextreichler/webstudio/internal/config"
	"github.com/alextreichler/webstudio/internal/handlers"
	"github.com/alextreichler/webstudio/internal/media"
	"github.com/alextreichler/webstudio/internal/notify"
	"github.com/alextreichler/webstudio/internal/store"
	"github.com/alextreichler/webstudio/internal/translate"
	"github.com/alextreichler/webstudio/web"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Using TextHandler for console readability
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(web.Migrations, "migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load(web.Templates); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Outbound services
	translator := translate.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, translate.WithLogger(logger))
	uploader := media.NewUploader(cfg.CloudinaryURL, cfg.CloudinaryCloud, cfg.CloudinaryPreset)
	if !uploader.Enabled() {
		slog.Warn("Cloudinary is not configured. Image uploads are disabled.")
	}
	relay := notify.NewRelay(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, cfg.MailTo)
	if !relay.Enabled() {
		slog.Warn("E-mail relay is not configured. Owner notifications are disabled.")
	}

	tracker := analytics.NewTracker(db, analytics.WithLogger(logger))
	identity := analytics.NewCookieIdentity(cfg.CookieSecure, cfg.CookieDomain)
	inbox := &handlers.Inbox{Store: db, Notifier: relay}

	// 6. Setup Handlers
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		// Trust local development origins
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	router := handlers.NewRouter(handlers.Routes{
		Site: &handlers.SiteHandler{
			Store:        db,
			Templates:    templates,
			SessionStore: sessionStore,
			PageSize:     cfg.PageSize,
		},
		Contact: &handlers.ContactHandler{Inbox: inbox, SessionStore: sessionStore},
		API:     &handlers.APIHandler{Inbox: inbox, Tracker: tracker, Identity: identity},
		Admin: &handlers.AdminHandler{
			Store:        db,
			SessionStore: sessionStore,
			Templates:    templates,
			Translator:   translator,
			Uploader:     uploader,
			PageSize:     cfg.PageSize,
		},
		SEO:          &handlers.SEOHandler{Store: db, SiteURL: cfg.SiteURL},
		Tracker:      tracker,
		Identity:     identity,
		CSRF:         CSRF,
		CORSOrigins:  cfg.CORSOrigins,
		CookieSecure: cfg.CookieSecure,
		Static:       web.Static(),
	})

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "site_url", cfg.SiteURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
