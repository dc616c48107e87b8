package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/config"
	"github.com/saishdhuri8/Authspark/internal/httputil"
	"github.com/saishdhuri8/Authspark/internal/logging"
	"github.com/saishdhuri8/Authspark/internal/owner"
	"github.com/saishdhuri8/Authspark/internal/project"
	"github.com/saishdhuri8/Authspark/internal/projectuser"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	ownerHandler *owner.Handler,
	projectHandler *project.Handler,
	projectUserHandler *projectuser.Handler,
	authMiddleware *auth.Middleware,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	// Owner routes: signup/login are public, everything else behind the
	// owner session gate
	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", ownerHandler.Signup)
		r.Post("/login", ownerHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireOwner)
			r.Get("/get-user-data", ownerHandler.Profile)
			r.Post("/create-project", projectHandler.CreateProject)
			r.Post("/get-project-info", projectHandler.GetProjectInfo)
			r.Post("/get-all-projects", projectHandler.ListProjects)
			r.Post("/get-users-of-project", projectHandler.ListProjectUsers)
			r.Post("/update-project", projectHandler.UpdateProject)
			r.Post("/get-users-stats", projectHandler.MonthlyStats)
			r.Post("/delete-user-from-project", projectHandler.DeleteUser)
		})
	})

	// Project-scoped routes: the API-key gate binds every request to a
	// tenant; the session gate covers everything outside its allow-list
	r.Route("/project-users", func(r chi.Router) {
		r.Use(authMiddleware.RequireAPIKey)
		r.Use(authMiddleware.RequireProjectUserSession)
		r.Post("/signup", projectUserHandler.Signup)
		r.Post("/login", projectUserHandler.Login)
		r.Post("/get-user-info", projectUserHandler.GetUserInfo)
		r.Post("/toggle-active-user", projectUserHandler.ToggleActive)
		r.Post("/update-metadata", projectUserHandler.UpdateMetadata)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
