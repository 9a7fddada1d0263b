package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/yanews/internal/http/handlers"
	"github.com/pribylovaa/yanews/internal/http/middleware"
	logctx "github.com/pribylovaa/yanews/pkg/log"
)

// Pinger — зависимость, проверяемая /healthz (postgres, mongo, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// Registry — куда регистрируются HTTP-метрики и откуда их отдаёт /metrics.
	// nil — метрики не собираются, /metrics не регистрируется.
	Registry *prometheus.Registry
	// Health — именованные зависимости для /healthz.
	Health map[string]Pinger
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, authn middleware.Authenticator, opts Options) http.Handler {
	root := chi.NewRouter()

	// Внутри chi: метрикам нужен шаблон маршрута, дедлайн — только обработчикам.
	if opts.Registry != nil {
		root.Use(middleware.NewMetrics(opts.Registry).Middleware())
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Пробы и метрики без аутентификации.
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", healthz(opts.Health))
	if opts.Registry != nil {
		root.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	root.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(authn))
		registerRoutes(r, h)
	})

	// Снаружи роутера (внешний -> внутренний).
	return middleware.Chain(root,
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Post("/auth/signup", h.Signup)
	r.Post(middleware.LoginPath, h.Login)
	r.Post("/auth/logout", h.Logout)

	// news
	r.Get("/", h.ListHome)
	r.Get("/news/{id}", h.NewsDetail)
	r.Post("/news/{id}/comments", h.CreateComment)

	// comments: только для вошедших, аноним уходит на /auth/login.
	r.Route("/comments/{id}", func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Get("/", h.GetComment)
		r.Patch("/", h.EditComment)
		r.Delete("/", h.DeleteComment)
	})
}

func healthz(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, p := range deps {
			if err := p.Ping(r.Context()); err != nil {
				logctx.From(r.Context()).Warn("healthz_failed", "dep", name, "err", err)
				http.Error(w, name+" unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
