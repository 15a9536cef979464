/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the chi router, middleware stack, and route definitions.
	This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
 1. RequestLogger:  zerolog request logging with a uuid request id
 2. Recoverer:      Panic recovery (500 instead of crash)
 3. CORS:           Cross-origin requests for the frontend
 4. RequireIdentity: Host-supplied principal, on caller-implicit routes

ROUTE GROUPS:

	/api/tokens/*        Ledger operations
	/api/rewards/*       Fixed-amount reward credits
	/api/reports, /api/requests, /api/appointments   Domain entities
	/api/users/*         Per-user listings
	/api/admin/*         Allow-list guarded operations
	/metrics             Prometheus
	/healthz             Liveness

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", PrincipalHeader},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Caller-implicit operations need a principal.
		r.Group(func(r chi.Router) {
			r.Use(RequireIdentity)

			r.Post("/register", h.Register)

			r.Post("/tokens/initialize", h.InitializeTokens)
			r.Post("/tokens/earn", h.EarnTokens)
			r.Post("/tokens/spend", h.SpendTokens)

			r.Route("/rewards", func(r chi.Router) {
				r.Post("/daily", h.RewardDailyEngagement)
				r.Post("/report", h.RewardReportSubmission)
				r.Post("/post", h.RewardCommunityPost)
			})

			r.Post("/reports", h.SubmitReport)
			r.Post("/requests", h.SubmitServiceRequest)
			r.Post("/appointments", h.ScheduleAppointment)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/providers", h.RegisterProvider)
			})
		})

		// Target-identity reads.
		r.Get("/tokens/{principal}/balance", h.GetTokenBalance)
		r.Get("/tokens/{principal}/transactions", h.GetTransactionHistory)
		r.Get("/tokens/{principal}/summary", h.GetSpendingSummary)

		r.Get("/reports/{id}", h.GetReport)
		r.Put("/reports/{id}/status", h.UpdateReportStatus)
		r.Get("/requests/{id}", h.GetServiceRequest)
		r.Put("/requests/{id}/status", h.UpdateRequestStatus)
		r.Get("/appointments/{id}", h.GetAppointment)
		r.Put("/appointments/{id}/status", h.UpdateAppointmentStatus)

		r.Get("/users/{principal}/reports", h.UserReports)
		r.Get("/users/{principal}/requests", h.UserServiceRequests)
		r.Get("/users/{principal}/appointments", h.UserAppointments)

		r.Get("/providers", h.ListProviders)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Healthz)

	return r
}

// RequestLogger logs one line per request with a uuid request id.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
