package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/cvbuilder/internal/auth"
	"github.com/redmonkez12/cvbuilder/internal/config"
	"github.com/redmonkez12/cvbuilder/internal/httputil"
	"github.com/redmonkez12/cvbuilder/internal/logging"
	"github.com/redmonkez12/cvbuilder/internal/metrics"
	"github.com/redmonkez12/cvbuilder/internal/resume"
)

// HealthResponse is returned by the health check
type HealthResponse struct {
	Message string `json:"message"`
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	resumeHandler *resume.Handler,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Compress(5))

	r.Handle("/metrics", metrics.Handler())

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.Me)
				r.Delete("/me", authHandler.DeleteMe)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/resume", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/", resumeHandler.List)
			r.Post("/", resumeHandler.Create)
			r.Get("/{id}", resumeHandler.Get)
			r.Put("/{id}", resumeHandler.Update)
			r.Delete("/{id}", resumeHandler.Delete)
			r.Get("/{id}/preview", resumeHandler.Preview)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, "Route not found", http.StatusNotFound)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, HealthResponse{Message: "Server is running!"}, http.StatusOK)
}
