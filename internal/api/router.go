package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/pokermaster-be/internal/api/handlers"
	"github.com/isdelr/pokermaster-be/internal/services"
	"github.com/isdelr/pokermaster-be/internal/websocket"
)

// RouterConfig carries the dependencies of NewRouter.
type RouterConfig struct {
	AuthService    services.AuthServiceProvider
	Tokens         handlers.TokenVerifier
	Hub            *websocket.Hub
	Users          handlers.UserCounter
	HostStats      handlers.HostStatsProvider
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.SecureCookies)
	healthHandler := handlers.NewHealthHandler(cfg.Users, cfg.Hub, cfg.HostStats)
	wsHandler := handlers.NewWebSocketHandler(cfg.Hub, cfg.Tokens, cfg.AllowedOrigins)

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", healthHandler.Index)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(cfg.Tokens))
				r.Get("/me", authHandler.GetMe)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Realtime game rooms; the handler authenticates before upgrading.
		r.Get("/game/ws", wsHandler.Serve)
	})

	return r
}
