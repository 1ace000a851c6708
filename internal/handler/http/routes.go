package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Get("/healthz", h.healthz)
	router.Method(http.MethodGet, "/metrics", h.metrics.handler())

	// routes without authorization
	router.Route("/api/auth", func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httprate.Limit(h.rateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
				httprate.WithLimitHandler(h.tooManyRequests),
			))
		}

		r.Post("/login", h.login)
		r.Post("/login/verify", h.loginVerify)
		r.Post("/signup", h.signup)
		r.Post("/signup/complete", h.signupComplete)
		r.Post("/reset", h.reset)
		r.Post("/reset/verify", h.resetVerify)
		r.Post("/reset/complete", h.resetComplete)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/session", h.session)
		r.Post("/api/session/logout", h.logout)
		r.Post("/api/summaries", h.submitSummary)
		r.Get("/api/summaries/{id}", h.getSummary)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.methodNotAllowed)

	return router
}
