package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal/activitylog"
	"github.com/frahmantamala/timesheet-tracker/internal/auth"
	"github.com/frahmantamala/timesheet-tracker/internal/compliance"
	"github.com/frahmantamala/timesheet-tracker/internal/project"
	"github.com/frahmantamala/timesheet-tracker/internal/report"
	"github.com/frahmantamala/timesheet-tracker/internal/settings"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	"github.com/frahmantamala/timesheet-tracker/internal/transport/middleware"
	"github.com/frahmantamala/timesheet-tracker/internal/transport/swagger"
	"github.com/frahmantamala/timesheet-tracker/internal/user"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth        *auth.Handler
	RBAC        *auth.RBACAuthorization
	User        *user.Handler
	Project     *project.Handler
	Timesheet   *timesheet.Handler
	WorkDay     *workday.Handler
	ActivityLog *activitylog.Handler
	Settings    *settings.Handler
	Compliance  *compliance.Handler
	Report      *report.Handler
}

type RouterConfig struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := h.RBAC

	if cfg.OpenAPIPath == "" {
		cfg.OpenAPIPath = "./api/openapi.yml"
	}

	// Apply global middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Put("/me/password", h.User.ChangePassword)
				ur.Get("/me/compliance", h.Compliance.MyCompliance)
				ur.Get("/me/pending-approvals", h.Compliance.MyPendingApprovals)

				ur.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManager)
					mr.Get("/", h.User.ListUsers)
					mr.Post("/", h.User.CreateUser)
					mr.Put("/{id}", h.User.UpdateUser)
					mr.Put("/{id}/manager", h.User.UpdateManager)
					mr.Post("/{id}/projects/{pid}", h.User.AssignProject)
					mr.Delete("/{id}/projects/{pid}", h.User.UnassignProject)
				})
				ur.Get("/{id}/projects", h.User.ListUserProjects)
				ur.With(rbac.RequireAdmin).Delete("/{id}", h.User.DeleteUser)
			})

			pr.Route("/projects", func(jr chi.Router) {
				jr.Get("/", h.Project.ListProjects)
				jr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin)
					ar.Post("/", h.Project.CreateProject)
					ar.Put("/{id}", h.Project.UpdateProject)
					ar.Delete("/{id}", h.Project.DeleteProject)
				})
			})

			pr.Route("/timesheets", func(tr chi.Router) {
				tr.Get("/", h.Timesheet.ListTimesheets)
				tr.Post("/", h.Timesheet.UpsertTimesheet)
				tr.Post("/batch", h.Timesheet.BatchUpsertTimesheets)
				tr.With(rbac.RequireTeamLeader).Post("/verify", h.Timesheet.VerifyDay)
			})

			pr.Route("/workdays", func(wr chi.Router) {
				wr.Get("/", h.WorkDay.ListWorkDays)
				wr.With(rbac.RequireAdmin).Post("/", h.WorkDay.SetWorkDay)
			})

			pr.Get("/activity-logs", h.ActivityLog.ListActivityLogs)

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/user_stats", h.Report.GetUserStats)
				rr.With(rbac.RequireAdmin).Get("/stats", h.Report.GetStats)
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin)

				ar.Get("/settings/email", h.Settings.GetEmailSettings)
				ar.Put("/settings/email", h.Settings.UpdateEmailSettings)
				ar.Post("/settings/email/test", h.Settings.SendTestEmail)

				ar.Post("/compliance/timesheets", h.Compliance.RunTimesheetCheck)
				ar.Post("/compliance/approvals", h.Compliance.RunApprovalCheck)
			})
		})
	})
}
