package httpapi

import (
	"invoice_reminder_service/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter assembles the admin API. Everything under /api requires an admin
// JWT; /metrics is left open for the scrape endpoint.
func NewRouter(
	reminderService app.ReminderService,
	ruleService *app.RuleService,
	jwtSecret string,
	logger *logrus.Entry,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	validate := validator.New()
	reminderHandler := NewReminderHandler(reminderService, logger.WithField("handler", "reminders"))
	ruleHandler := NewRuleHandler(ruleService, logger.WithField("handler", "reminder_rules"), validate)

	r.Route("/api", func(api chi.Router) {
		api.Use(AdminAuthMiddleware(jwtSecret, logger.WithField("middleware", "admin_auth")))

		api.Post("/reminders/run", reminderHandler.RunNow)

		api.Route("/reminder-rules", func(rules chi.Router) {
			rules.Get("/", ruleHandler.List)
			rules.Post("/", ruleHandler.Create)
			rules.Put("/{ruleID}", ruleHandler.Update)
			rules.Delete("/{ruleID}", ruleHandler.Delete)
		})
	})

	return r
}
