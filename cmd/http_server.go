package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/activitylog"
	activitylogPostgres "github.com/frahmantamala/timesheet-tracker/internal/activitylog/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/auth"
	"github.com/frahmantamala/timesheet-tracker/internal/compliance"
	compliancePostgres "github.com/frahmantamala/timesheet-tracker/internal/compliance/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	"github.com/frahmantamala/timesheet-tracker/internal/mail"
	"github.com/frahmantamala/timesheet-tracker/internal/project"
	projectPostgres "github.com/frahmantamala/timesheet-tracker/internal/project/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/timesheet-tracker/internal/report/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/settings"
	settingsPostgres "github.com/frahmantamala/timesheet-tracker/internal/settings/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/timesheet-tracker/internal/timesheet/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
	"github.com/frahmantamala/timesheet-tracker/internal/transport/rest"
	"github.com/frahmantamala/timesheet-tracker/internal/user"
	userPostgres "github.com/frahmantamala/timesheet-tracker/internal/user/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	workdayPostgres "github.com/frahmantamala/timesheet-tracker/internal/workday/postgres"
	"github.com/frahmantamala/timesheet-tracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests. Weekly reminders run in-process when the scheduler is enabled.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	ORM        *gorm.DB
	Router     *chi.Mux
	EventBus   *events.EventBus
	Compliance *compliance.Service
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	schedCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	var sched *compliance.Scheduler
	if deps.Config.Scheduler.Enabled {
		sched, err = newScheduler(deps.Config.Scheduler, deps.Compliance, deps.Logger)
		if err != nil {
			deps.Logger.Error("invalid scheduler config", "error", err)
			os.Exit(1)
		}
		sched.Start(schedCtx)
	}
	stopScheduler := func() {
		if sched == nil {
			return
		}
		cancelJobs()
		<-sched.Stop().Done()
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			stopScheduler()
			os.Exit(1)
		}
	}

	stopScheduler()
	// activity rows are written asynchronously; flush before the pool closes
	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFlush()
	if err := deps.EventBus.Wait(flushCtx); err != nil {
		deps.Logger.Warn("Event handlers still running at shutdown", "error", err)
	}
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	orm, err := initORM(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(lg)
	base := transport.NewBaseHandler(lg)

	// repositories
	userRepo := userPostgres.NewUserRepository(orm)
	projectRepo := projectPostgres.NewProjectRepository(orm)
	timesheetRepo := timesheetPostgres.NewTimesheetRepository(orm)
	workdayRepo := workdayPostgres.NewWorkDayRepository(orm)
	activityRepo := activitylogPostgres.NewActivityLogRepository(orm)
	settingsRepo := settingsPostgres.NewSettingsRepository(orm)
	complianceRepo := compliancePostgres.NewComplianceRepository(db)
	reportRepo := reportPostgres.NewReportRepository(db)

	// services
	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)
	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	sender := mail.NewSMTPSender(lg)

	authService := auth.NewService(userRepo, tokens, hasher, lg)
	userService := user.NewService(userRepo, projectRepo, hasher, bus, lg)
	projectService := project.NewService(projectRepo, bus, lg)
	workdayService := workday.NewService(workdayRepo, bus, lg)
	timesheetService := timesheet.NewService(timesheetRepo, workday.NewCalendar(workdayRepo), userRepo, projectRepo, bus, lg)
	activityService := activitylog.NewService(activityRepo, lg)
	reportService := report.NewService(reportRepo, lg)
	settingsService := settings.NewService(settingsRepo, sender, lg)
	complianceService := compliance.NewService(complianceRepo, settingsService, sender, lg,
		compliance.WithPortalURL(config.Server.BaseURL))

	activitylog.NewEventHandler(activityService, lg).RegisterEventHandlers(bus)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		RBAC:        auth.NewRBACAuthorization(lg),
		User:        user.NewHandler(base, userService),
		Project:     project.NewHandler(base, projectService),
		Timesheet:   timesheet.NewHandler(base, timesheetService),
		WorkDay:     workday.NewHandler(base, workdayService),
		ActivityLog: activitylog.NewHandler(base, activityService),
		Settings:    settings.NewHandler(base, settingsService),
		Compliance:  compliance.NewHandler(base, complianceService),
		Report:      report.NewHandler(base, reportService),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db, handlers, rest.RouterConfig{
		AllowedOrigins: config.Server.AllowedOrigins,
	}, lg)

	return &Dependencies{
		Config:     config,
		DB:         db,
		ORM:        orm,
		Router:     router,
		EventBus:   bus,
		Compliance: complianceService,
		Logger:     lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initORM shares the sqlx connection pool with gorm.
func initORM(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
