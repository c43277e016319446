package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harulabs/mintgate/internal/observability"
	"github.com/harulabs/mintgate/internal/server/handlers"
	servermw "github.com/harulabs/mintgate/internal/server/middleware"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.router.Get("/health", s.health.HealthHandler)
	s.router.Get("/health/live", s.health.LivenessHandler)
	s.router.Get("/health/ready", s.health.ReadinessHandler)
	s.router.Get("/health/startup", s.health.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)

	if s.opts.Metrics {
		s.router.Get("/metrics", MetricsHandler)
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/eligibility", s.api.CheckEligibility)
		r.Get("/mint-config", s.api.MintConfig)
		r.Post("/auth/sign-in", s.api.SignIn)

		r.Route("/admin", func(r chi.Router) {
			r.Use(servermw.RequireAdmin(s.api.Auth, HandleError))

			r.Get("/audit", s.api.ListAuditEvents)

			r.Route("/{tier}/wallets", func(r chi.Router) {
				r.Get("/", s.api.ListWallets)
				r.Post("/", s.api.AddWallets)
				// export.csv is static and wins over the {address} pattern.
				r.Get("/export.csv", s.api.ExportWallets)
				r.Delete("/{address}", s.api.RemoveWallet)
				r.Patch("/{address}", s.api.UpdateAllowance)
			})
		})
	})

	if s.opts.Pprof {
		s.router.Mount("/debug", middleware.Profiler())
		observability.ServerLogger.Warn("Profiling endpoints enabled under /debug")
	}
}
