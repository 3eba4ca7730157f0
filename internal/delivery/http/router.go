package http

import (
	"log/slog"
	"net/http"

	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events *controllers.EventController
	RSVPs  *controllers.RSVPController
	Admin  *controllers.AdminController
	Auth   *controllers.AuthController
}

// RouterOptions configures route registration and the middleware chain.
type RouterOptions struct {
	Logger   *slog.Logger
	Verifier domain.TokenVerifier
	// LoginLimiter throttles POST /admin/login per client IP. Nil disables it.
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string
	// PublicEventWrites mounts the unauthenticated create, update and delete routes.
	PublicEventWrites bool
}

// NewRouter initializes the HTTP router with all application routes and wraps it in
// the request id, logging and CORS middleware.
func NewRouter(c Controllers, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAdmin(opts.Verifier, opts.Logger)

	mux.HandleFunc("GET /health", controllers.Health)

	// Public events
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("GET /events/{id}", c.Events.GetEvent)
	mux.HandleFunc("POST /events/{id}/headCount/rsvp", c.RSVPs.RSVP)
	mux.HandleFunc("POST /events/{id}/headCount/unrsvp", c.RSVPs.UnRSVP)
	if opts.PublicEventWrites {
		mux.HandleFunc("POST /events/create", c.Events.CreateEvent)
		mux.HandleFunc("PUT /events/{id}", c.Events.UpdateEvent)
		mux.HandleFunc("DELETE /events/{id}/delete", c.Events.DeleteEvent)
	}

	// Admin auth
	login := c.Auth.Login
	if opts.LoginLimiter != nil {
		login = middleware.RateLimit(opts.LoginLimiter, login)
	}
	mux.HandleFunc("POST /admin/login", login)
	mux.HandleFunc("POST /admin/logout", c.Auth.Logout)
	mux.HandleFunc("GET /admin/check-auth", requireAdmin(c.Admin.CheckAuth))

	// Admin events
	mux.HandleFunc("GET /admin/events", requireAdmin(c.Admin.ListEvents))
	mux.HandleFunc("POST /admin/events", requireAdmin(c.Events.CreateEvent))
	mux.HandleFunc("PUT /admin/events/{id}", requireAdmin(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{id}", requireAdmin(c.Events.DeleteEvent))
	mux.HandleFunc("GET /admin/events/{id}/rsvps", requireAdmin(c.Admin.EventRSVPs))
	mux.HandleFunc("DELETE /admin/events/{id}/rsvps/{email}", requireAdmin(c.Admin.RemoveRSVP))

	// Swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(opts.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(opts.Logger, handler)
	handler = middleware.RequestID(handler)
	return handler
}
