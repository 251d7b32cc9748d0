// Package api wires the HTTP surface: route table, middleware chain, and
// verb dispatch for the events endpoint.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/planora/server/internal/api/handlers"
	"github.com/planora/server/internal/api/middleware"
	"github.com/planora/server/internal/auth"
	"github.com/planora/server/internal/config"
	"github.com/planora/server/internal/domain/events"
	"github.com/planora/server/internal/domain/users"
	"github.com/planora/server/internal/metrics"
)

// Deps are the constructed services the router exposes over HTTP.
type Deps struct {
	Users  *users.Service
	Events *events.Service
	Tokens *auth.TokenManager
}

func NewRouter(cfg config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Users, logger)
	eventsHandler := handlers.NewEventsHandler(deps.Events, logger)

	requireAuth := middleware.RequireAuth(deps.Tokens, handlers.Unauthorized)
	loginTier := middleware.WithRateLimitTier(middleware.TierLogin)

	// One limiter store shared by every route. The limiter is mounted per
	// route, inside any tier tag, so the tag is already in the context when
	// the limiter reads it.
	limit := middleware.RateLimit(cfg.RateLimit)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz())
	mux.Handle("/metrics", limit(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	mux.Handle("/signup", limit(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Signup),
	})))
	mux.Handle("/login", loginTier(limit(methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))))
	mux.Handle("/events", limit(requireAuth(methodMux(map[string]http.Handler{
		http.MethodPost:   http.HandlerFunc(eventsHandler.Create),
		http.MethodGet:    http.HandlerFunc(eventsHandler.List),
		http.MethodPut:    http.HandlerFunc(eventsHandler.Update),
		http.MethodDelete: http.HandlerFunc(eventsHandler.Delete),
	}))))

	// Outermost first: correlation id, request log + metrics, CORS (which
	// also short-circuits OPTIONS before auth and rate limiting).
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := routes[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		handlers.MethodNotAllowed(w, r)
	})
}
