package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aiverse-events/aiverse-backend/api/controllers"
	"github.com/aiverse-events/aiverse-backend/api/middleware"
	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/internal/analytics"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/registrations"
	"github.com/aiverse-events/aiverse-backend/internal/users"
	"github.com/aiverse-events/aiverse-backend/pkg/config"
	"github.com/aiverse-events/aiverse-backend/pkg/db"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
	"github.com/aiverse-events/aiverse-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	userService users.Service,
	eventService events.Service,
	registrationService registrations.Service,
	paymentService payments.Service,
	activityService activity.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	registerPolicy := middleware.RegisterPolicy(cfg.RateLimit)
	paymentPolicy := middleware.PaymentPolicy(cfg.RateLimit)
	loginPolicy := middleware.LoginPolicy(cfg.RateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(userService, logg))
			r.With(middleware.RateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(userService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(userService, logg))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.ListEvents(eventService, logg))
			r.Get("/{slug}", controllers.GetEvent(eventService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))
				r.Post("/", controllers.CreateEvent(eventService, logg))
				r.Patch("/{id}", controllers.UpdateEvent(eventService, logg))
				r.Get("/{slug}/registrations", controllers.EventRegistrations(eventService, registrationService, logg))
			})
		})

		r.With(middleware.RateLimit(registerPolicy, redisClient, logg)).
			Post("/registrations", controllers.Register(userService, eventService, registrationService, logg))

		r.Route("/payments", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(cfg.JWT, logg))
				r.With(middleware.RateLimit(paymentPolicy, redisClient, logg)).Post("/", controllers.SubmitPayment(paymentService, userService, eventService, logg))
				r.Post("/{id}/approve", controllers.ApprovePayment(paymentService, logg))
				r.Post("/{id}/reject", controllers.RejectPayment(paymentService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))
				r.Get("/", controllers.ListPayments(paymentService, logg))
				r.Get("/{id}", controllers.GetPayment(paymentService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))
			r.Get("/activity", controllers.ListActivity(activityService, logg))
			r.Get("/analytics/dashboard", controllers.Dashboard(analyticsService, logg))
		})
	})

	return r
}
