package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/config"
	appHTTP "github.com/knk-palvelut/workforce-backend-go/internal/handler/http"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/cron"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/database"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/jwt"
	"github.com/knk-palvelut/workforce-backend-go/internal/repository/postgresql"
	assignmentService "github.com/knk-palvelut/workforce-backend-go/internal/service/assignment"
	attendanceService "github.com/knk-palvelut/workforce-backend-go/internal/service/attendance"
	dashboardService "github.com/knk-palvelut/workforce-backend-go/internal/service/dashboard"
	payrollService "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	reportService "github.com/knk-palvelut/workforce-backend-go/internal/service/report"
)

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	clockLogRepo := postgresql.NewClockLogRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	paymentSettingsRepo := postgresql.NewPaymentSettingsRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hoursCalculator := payrollService.NewHoursCalculator(cfg.Location())
	rateResolver := payrollService.NewRateResolver(paymentSettingsRepo, cfg.Payroll.DefaultRate, cfg.Payroll.RateCacheTTL)

	attendanceSvc := attendanceService.NewAttendanceService(transactor, clockLogRepo, userRepo, assignmentRepo, hoursCalculator)
	assignmentSvc := assignmentService.NewAssignmentService(transactor, assignmentRepo, userRepo, hoursCalculator)
	payrollSvc := payrollService.NewPayrollService(userRepo, clockLogRepo, assignmentRepo, paymentSettingsRepo, rateResolver, hoursCalculator)
	dashboardSvc := dashboardService.NewDashboardService(userRepo, clockLogRepo, assignmentRepo, rateResolver, hoursCalculator)
	reportSvc := reportService.NewReportService(userRepo, clockLogRepo, assignmentRepo, hoursCalculator)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Assignment: appHTTP.NewAssignmentHandler(assignmentSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	scheduler := cron.NewScheduler()
	cron.NewStaleShiftJobs(clockLogRepo, time.Duration(cfg.Payroll.StaleShiftHours)*time.Hour).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "timezone", cfg.Payroll.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
