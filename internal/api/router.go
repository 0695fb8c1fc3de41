package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gatherly/server/internal/api/handlers"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/config"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/memberships"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/metrics"
	"github.com/gatherly/server/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewRouter wires services, handlers, and the middleware chain. The pool is
// only consulted by the deep health check and may be nil in tests.
func NewRouter(cfg config.Config, logger zerolog.Logger, store storage.Repository, pool *pgxpool.Pool, version, gitCommit string) http.Handler {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	userService := users.NewService(store.Users(), logger)
	eventService := events.NewService(store.Events(), logger)
	membershipService := memberships.NewService(store.Memberships(), logger)

	authHandler := handlers.NewAuthHandler(userService, tokens)
	eventsHandler := handlers.NewEventsHandler(eventService, userService)
	membershipsHandler := handlers.NewMembershipsHandler(membershipService)
	usersHandler := handlers.NewUsersHandler(userService)
	healthChecker := handlers.NewHealthChecker(pool, version, gitCommit)

	requireUser := middleware.RequireAuth(tokens, auth.RoleUser, auth.RoleAdmin)

	// One limiter store shared by every route; the login route marks its
	// tier before the limiter runs.
	rateLimit := middleware.RateLimit(cfg.RateLimit)
	public := func(h http.HandlerFunc) http.Handler {
		return rateLimit(h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return rateLimit(requireUser(h))
	}
	login := middleware.WithRateLimitTier(middleware.TierLogin)(rateLimit(http.HandlerFunc(authHandler.Login)))

	mux := http.NewServeMux()

	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz())
	mux.Handle("/health", healthChecker.Health())
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/auth/register", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.Register),
	}))
	mux.Handle("/api/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: login,
	}))
	mux.Handle("/api/auth/logout", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.Logout),
	}))
	mux.Handle("/api/auth/verify-token", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.VerifyToken),
	}))

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodGet:  public(eventsHandler.List),
		http.MethodPost: authed(eventsHandler.Create),
	}))
	mux.Handle("/api/events/{eventID}", methodMux(map[string]http.Handler{
		http.MethodGet:    public(eventsHandler.Get),
		http.MethodPatch:  authed(eventsHandler.Update),
		http.MethodDelete: authed(eventsHandler.Delete),
	}))

	mux.Handle("/api/my-events/{userID}", methodMux(map[string]http.Handler{
		http.MethodGet: authed(membershipsHandler.List),
	}))
	mux.Handle("/api/my-events/{userID}/{eventID}", methodMux(map[string]http.Handler{
		http.MethodPost:   authed(membershipsHandler.Register),
		http.MethodDelete: authed(membershipsHandler.Unregister),
	}))

	mux.Handle("/api/user/{username}", methodMux(map[string]http.Handler{
		http.MethodGet: authed(usersHandler.Profile),
	}))

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
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
		w.Header().Set("Allow", allowedMethods(routes))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(routes map[string]http.Handler) string {
	methods := make([]string, 0, len(routes))
	for method := range routes {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
