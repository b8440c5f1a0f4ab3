package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"teamhub/internal/guard"
	"teamhub/internal/service"
)

// Options: настройки HTTP-слоя, не относящиеся к сторам.
type Options struct {
	// StrictGuard: непроверенная восстановленная сессия не пропускается охраной маршрутов.
	StrictGuard    bool
	AllowedOrigins []string
}

type Handler struct {
	Sessions *service.SessionStore
	Records  *service.RecordStore
	Log      *slog.Logger
	opts     Options
}

func NewHandler(sessions *service.SessionStore, records *service.RecordStore, log *slog.Logger, opts Options) *Handler {
	return &Handler{
		Sessions: sessions,
		Records:  records,
		Log:      log,
		opts:     opts,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Location", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)
	r.Get("/session", h.handleSession)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/verify", h.handleVerify)

		r.Group(func(r chi.Router) {
			r.Use(h.guarded(guard.PublicOnly))
			r.Post("/login", h.handleLogin)
			r.Post("/register", h.handleRegister)
			r.Post("/password-reset", h.handlePasswordReset)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.guarded(guard.RequireAuth))
			r.Post("/logout", h.handleLogout)
			r.Patch("/profile", h.handleProfileUpdate)
		})
	})

	r.Route("/members", func(r chi.Router) {
		r.Use(h.guarded(guard.RequireAuth))
		r.Get("/", h.handleMemberList)
		r.Post("/", h.handleMemberCreate)
		r.Get("/{id}", h.handleMemberGet)
		r.Put("/{id}", h.handleMemberUpdate)
		r.Delete("/{id}", h.handleMemberDelete)
	})

	return r
}

func (h *Handler) writeError(w http.ResponseWriter, handlerName string, err error) {
	var appErr *service.AppError
	if !errors.As(err, &appErr) {
		appErr = &service.AppError{
			Code:    service.CodeInternal,
			Message: "internal error",
			Status:  http.StatusInternalServerError,
			Err:     err,
		}
	}

	level := slog.LevelWarn
	if appErr.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.Log.Log(context.Background(), level, "handler error",
		slog.String("handler", handlerName),
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.Any("err", appErr.Err),
	)

	writeJSON(w, appErr.Status, errorResponse{Error: errorBody{Code: appErr.Code, Message: appErr.Message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger пишет одну строку лога на каждый запрос.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Log.Info("http request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Sessions.Snapshot())
}
