package main

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goldentaan/taan/internal/config"
	"github.com/goldentaan/taan/internal/db"
	"github.com/goldentaan/taan/internal/migrations"
	"github.com/goldentaan/taan/internal/params"
	"github.com/goldentaan/taan/internal/report"
	"github.com/goldentaan/taan/internal/seed"
)

const (
	defaultTemplatesDir = "web/templates"
	defaultStaticDir    = "web/static"
	shutdownTimeout     = 10 * time.Second
)

type server struct {
	auth         *authService
	db           *sql.DB
	catalogue    *params.Catalogue
	logger       zerolog.Logger
	templatesDir string
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
	IsAdmin        bool
}

type loginViewData struct {
	baseViewData
}

func main() {
	bootLogger := config.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := config.Load(bootLogger)
	logger := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogue, err := params.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load parameter catalogue")
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		logger.Fatal().Err(err).Msg("failed to run database migrations")
	}
	if version, err := migrations.Version(ctx, database); err == nil {
		logger.Info().Int64("schema_version", version).Msg("database migrated")
	}

	seedCfg := seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Catalogue:     catalogue,
	}
	if cfg.IsDev() {
		seedCfg.Partners = seed.DefaultPartners
	}
	stats, err := seed.Run(ctx, database, seedCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed database")
	}
	logger.Info().Int("inserts", stats.Inserts).Msg("seed complete")

	srv := &server{
		auth:         newAuthService(database, cfg.SessionSecret),
		db:           database,
		catalogue:    catalogue,
		logger:       logger,
		templatesDir: defaultTemplatesDir,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(defaultStaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("server stopped")
}

func (s *server) routes(staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	r.Get("/", s.handleHome)
	r.Post("/calculator", s.handleCalculatorSubmit)
	r.Get("/summary.txt", s.handleSummaryText)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/parameters", s.handleAPIParameters)
		r.Post("/breakdown", s.handleAPIBreakdown)
		r.Post("/quick-estimate", s.handleAPIQuickEstimate)
	})

	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/admin/assumptions", s.handleAdminAssumptionsForm)
		r.Post("/admin/assumptions", s.handleAdminAssumptionsSubmit)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(r.Context(), s.db); err != nil {
		s.logger.Error().Err(err).Msg("health check failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/admin/assumptions", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(r.Context(), email, password)
	if err != nil {
		s.logger.Error().Err(err).Msg("validate credentials")
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		s.logger.Warn().Str("email", email).Msg("failed login")
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Invalid credentials. Please try again."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/admin/assumptions", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(template.FuncMap(report.Funcs)).ParseFiles(
		filepath.Join(s.templatesDir, "layout.html"),
		filepath.Join(s.templatesDir, page),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("parse template")
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("render template")
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}
