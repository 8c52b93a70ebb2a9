package server

import (
	"net/http"
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/staffsearch/staffsearch/internal/appid"
	"github.com/staffsearch/staffsearch/internal/observability"
	"github.com/staffsearch/staffsearch/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.router.Get("/", handlers.RootHandler)

	health := s.deps.Health
	s.router.Get("/health", health.HealthHandler)
	s.router.Get("/health/live", health.LivenessHandler)
	s.router.Get("/health/ready", health.ReadinessHandler)
	s.router.Get("/health/startup", health.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	s.router.Get("/openapi.json", handlers.OpenAPIHandler)
	s.router.Get("/docs", handlers.SwaggerHandler)
	s.router.Get("/redoc", handlers.RedocHandler)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/employees/search", handlers.NewSearchHandler(s.deps.Employees, s.deps.SearchTimeout))
	})

	s.registerAdminEndpoint()
}

// registerAdminEndpoint exposes POST /admin/signal when STAFFSEARCH_ADMIN_TOKEN is set
func (s *Server) registerAdminEndpoint() {
	tokenVar := appid.Get().EnvVar("ADMIN_TOKEN")
	adminToken := os.Getenv(tokenVar)
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled", zap.String("env", tokenVar))
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,  // requests per minute
		RateBurst: 5,
		Manager:   nil, // default global manager
	})
	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
