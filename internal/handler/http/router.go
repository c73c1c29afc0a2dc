package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/config"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/handler/http/middleware"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/jwt"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Attendance AttendanceHandler
	Assignment AssignmentHandler
	Payroll    PayrollHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "knk-workforce"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	clockThrottle := middleware.NewThrottle(cfg.Payroll.ClockRateLimit, cfg.Payroll.ClockRateBurst)

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleEmployee))

				r.Group(func(r chi.Router) {
					r.Use(clockThrottle.Handler)
					r.Post("/clock-in", h.Attendance.ClockIn)
					r.Post("/clock-out", h.Attendance.ClockOut)
				})
				r.Get("/history", h.Attendance.History)
				r.Get("/summary", h.Attendance.Summary)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAssignmentCreate)).Post("/", h.Assignment.Create)
				r.With(middleware.RequirePermission(user.PermissionAssignmentViewOwn)).Get("/my", h.Assignment.ListMine)
				r.With(middleware.RequirePermission(user.PermissionTeamView)).Get("/team", h.Assignment.ListTeam)
				r.With(middleware.RequirePermission(user.PermissionAssignmentComplete)).Post("/{id}/complete", h.Assignment.Complete)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/rates", h.Payroll.GetRates)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleSupervisor))
				r.Get("/attendance", h.Report.GetAttendanceReport)
				r.Get("/performance", h.Report.GetPerformanceReport)
				r.Get("/tasks", h.Report.GetTaskReport)
				r.Get("/team-hours", h.Report.GetTeamHours)
			})

			r.Route("/supervisor", func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleSupervisor))
				r.Get("/dashboard", h.Report.GetSupervisorDashboard)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleSupervisor))

				// Supervisors may open their own cleaners
				r.Get("/workers/{id}", h.Payroll.GetWorkerDetail)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)

					r.Route("/dashboard", func(r chi.Router) {
						r.Get("/", h.Dashboard.GetDashboard)
						r.Get("/stats", h.Dashboard.GetStats)
					})

					r.Route("/payroll", func(r chi.Router) {
						r.Post("/salary", h.Payroll.CalculateSalary)
						r.Get("/workers", h.Payroll.ListSalaryWorkers)

						r.Route("/settings", func(r chi.Router) {
							r.Get("/", h.Payroll.GetSettings)
							r.Put("/", h.Payroll.UpdateSettings)
							r.Get("/history", h.Payroll.ListSettingsHistory)
						})
					})
				})
			})
		})
	})
	return r
}
