package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/corelearn/training-management/internal/analytics"
	"github.com/corelearn/training-management/internal/auth"
	"github.com/corelearn/training-management/internal/certificate"
	"github.com/corelearn/training-management/internal/feedback"
	"github.com/corelearn/training-management/internal/notification"
	"github.com/corelearn/training-management/internal/registration"
	"github.com/corelearn/training-management/internal/training"
	"github.com/corelearn/training-management/internal/transport/middleware"
	"github.com/corelearn/training-management/internal/transport/swagger"
	"github.com/corelearn/training-management/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Training     *training.Handler
	Registration *registration.Handler
	Certificate  *certificate.Handler
	Notification *notification.Handler
	Feedback     *feedback.Handler
	Analytics    *analytics.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.Instrument)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())
	router.Handle("/metrics", middleware.MetricsHandler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
		})

		// Public catalog reads
		r.Get("/categories", h.Training.Categories)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.Me)
			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireRole(user.RoleLMSManager, user.RoleAdmin))
				ar.Get("/users", h.User.List)
			})
			pr.Get("/users/{id}", h.User.Get)

			pr.Route("/trainings", func(tr chi.Router) {
				tr.Get("/", h.Training.List)
				tr.Get("/{id}", h.Training.Get)
				tr.Get("/{id}/feedback", h.Feedback.ListForTraining)
				tr.Post("/{id}/feedback", h.Feedback.Submit)

				tr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireRole(user.RoleLMSManager, user.RoleAdmin))
					mr.Post("/", h.Training.Create)
				})
			})

			pr.Route("/registrations", func(rr chi.Router) {
				rr.Post("/", h.Registration.Submit)
				rr.Get("/", h.Registration.List)
				rr.Get("/{id}", h.Registration.Get)
				rr.Post("/{id}/cancel", h.Registration.Cancel)

				rr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireRole(user.RoleManager, user.RoleAdmin))
					mr.Post("/{id}/manager-decision", h.Registration.ManagerDecision)
				})

				rr.Group(func(lr chi.Router) {
					lr.Use(h.Auth.RequireRole(user.RoleLMSManager, user.RoleAdmin))
					lr.Post("/{id}/lms-decision", h.Registration.LMSDecision)
				})
			})

			pr.Route("/certificates", func(cr chi.Router) {
				cr.Get("/", h.Certificate.List)
				cr.Post("/upload", h.Certificate.Upload)

				cr.Group(func(sr chi.Router) {
					sr.Use(h.Auth.RequireRole(user.RoleLMSManager, user.RoleAdmin))
					sr.Post("/expiry-scan", h.Certificate.ScanExpiring)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.List)
				nr.Post("/{id}/read", h.Notification.MarkRead)
				nr.Post("/read-all", h.Notification.MarkAllRead)
			})

			pr.Route("/analytics", func(ar chi.Router) {
				ar.Group(func(sr chi.Router) {
					sr.Use(h.Auth.RequireRole(user.RoleLMSManager, user.RoleAdmin))
					sr.Get("/trainings", h.Analytics.TrainingStats)
				})
				// employee stats: service enforces self / manager-of / LMS visibility
				ar.Get("/employees/{id}", h.Analytics.EmployeeStats)
			})
		})
	})
}
