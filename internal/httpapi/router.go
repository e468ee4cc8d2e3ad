package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/HMB-research/open-accounting/internal/auth"
	secmiddleware "github.com/HMB-research/open-accounting/internal/middleware"
)

// RouterConfig carries the router's environment-dependent settings, kept
// separate from Handlers so routing concerns don't leak into service
// wiring.
type RouterConfig struct {
	AllowedOrigins []string
	CORSDebug      bool
	RateLimiters   *auth.RateLimiterRegistry
}

// NewRouter builds the full chi router: the standard middleware chain,
// then the public, authenticated, and admin route groups of §6.
func NewRouter(h *Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(secmiddleware.CorrelationID)
	r.Use(secmiddleware.SecurityHeaders)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
		Debug:            cfg.CORSDebug,
	}))

	if cfg.RateLimiters != nil {
		r.Use(cfg.RateLimiters.Middleware(auth.RouteClassDefault))
	}

	r.Get("/health", Health)
	r.Get("/health/live", HealthLive)
	r.Get("/health/ready", HealthReady)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiters != nil {
				r.Use(cfg.RateLimiters.Middleware(auth.RouteClassLogin))
			}
			r.Post("/auth/login", h.Login)
		})
		r.Group(func(r chi.Router) {
			if cfg.RateLimiters != nil {
				r.Use(cfg.RateLimiters.Middleware(auth.RouteClassRegister))
			}
			r.Post("/auth/register", h.Register)
		})
		r.Group(func(r chi.Router) {
			if cfg.RateLimiters != nil {
				r.Use(cfg.RateLimiters.Middleware(auth.RouteClassAuthOther))
			}
			r.Post("/auth/refresh", h.RefreshToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(h.Tokens))

			r.Get("/auth/me", h.GetCurrentUser)

			r.Get("/employees", h.ListEmployees)
			r.Post("/employees", h.CreateEmployee)
			r.Get("/employees/{id}", h.GetEmployee)
			r.Put("/employees/{id}", h.UpdateEmployee)
			r.Put("/employees/{id}/exit", h.ExitEmployee)

			r.Get("/designations", h.ListDesignations)
			r.Post("/designations", h.CreateDesignation)
			r.Get("/designations/{id}", h.GetDesignation)
			r.Put("/designations/{id}", h.UpdateDesignation)
			r.Delete("/designations/{id}", h.DeleteDesignation)

			r.Get("/attendance", h.ListAttendanceByPeriod)
			r.Post("/attendance", h.UpsertAttendance)
			r.Get("/attendance/{employeeID}", h.GetAttendance)

			r.Post("/advances", h.CreateAdvance)
			r.Get("/advances/{id}", h.GetAdvance)
			r.Get("/advances/employee/{employeeID}", h.ListAdvancesByEmployee)

			r.Post("/loans", h.CreateLoan)
			r.Get("/loans/{id}", h.GetLoan)
			r.Get("/loans/employee/{employeeID}", h.ListLoansByEmployee)
			r.Delete("/loans/{id}", h.CancelLoan)

			r.Post("/leaves", h.CreateLeave)
			r.Get("/leaves/{id}", h.GetLeave)
			r.Get("/leaves/employee/{employeeID}", h.ListLeavesByEmployee)
			r.Put("/leaves/{id}/manager-approve", h.ManagerApproveLeave)
			r.Put("/leaves/{id}/admin-approve", h.AdminApproveLeave)
			r.Put("/leaves/{id}/reject", h.RejectLeave)
			r.Put("/leaves/{id}/cancel", h.CancelLeave)

			r.Post("/payruns/generate", h.GeneratePayRun)
			r.Get("/payruns", h.ListPayRuns)
			r.Get("/payruns/{id}", h.GetPayRun)
			r.Get("/payruns/{id}/export", h.ExportPayRun)
			r.Get("/payruns/{id}/employees/{employeeID}/payslip", h.ExportPayslip)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/audit-logs", h.ListAuditLogs)
				r.Get("/users", h.ListUsers)
				r.Put("/users/{id}/roles", h.SetUserRoles)
				r.Put("/users/{id}/enabled", h.SetUserEnabled)
			})
		})
	})

	return r
}
