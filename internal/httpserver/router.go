package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ViniciusCazuza/minimal-api/internal/auth"
	"github.com/ViniciusCazuza/minimal-api/internal/render"
	"github.com/ViniciusCazuza/minimal-api/internal/vehicles"
)

// Home is the body of GET /.
type Home struct {
	Message string `json:"message"`
	Doc     string `json:"doc"`
}

// NewRouter wires every route. guard may be nil to disable login throttling.
func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	admins auth.AdministratorStore,
	vehicleStore vehicles.Repository,
	guard auth.LoginGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, Home{
			Message: "Welcome to the vehicles API - Minimal API",
			Doc:     "/swagger",
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	adminHandler := &auth.Handler{
		Service: authSvc,
		Store:   admins,
		Guard:   guard,
		Logger:  logger,
	}
	vehicleHandler := &vehicles.Handler{
		Store:  vehicleStore,
		Logger: logger,
	}

	r.Post("/administrators/login", adminHandler.Login)

	r.Group(func(g chi.Router) {
		g.Use(auth.JWTMiddleware(authSvc))

		adminOnly := []auth.Role{auth.RoleAdmin}
		adminOrEditor := []auth.Role{auth.RoleAdmin, auth.RoleEditor}

		g.Get("/administrators", auth.RequireRole(adminHandler.List, adminOnly...))
		g.Get("/administrators/{id}", auth.RequireRole(adminHandler.Get, adminOnly...))
		g.Post("/administrators", auth.RequireRole(adminHandler.Create, adminOnly...))

		g.Post("/vehicles", auth.RequireRole(vehicleHandler.Create, adminOrEditor...))
		g.Get("/vehicles", auth.RequireRole(vehicleHandler.List, adminOnly...))
		// Editors may read a single vehicle but not list them.
		g.Get("/vehicles/{id}", auth.RequireRole(vehicleHandler.Get, adminOrEditor...))
		g.Put("/vehicles/{id}", auth.RequireRole(vehicleHandler.Update, adminOnly...))
		g.Delete("/vehicles/{id}", auth.RequireRole(vehicleHandler.Delete, adminOnly...))
	})

	return r
}
