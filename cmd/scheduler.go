package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/compliance"
	compliancePostgres "github.com/frahmantamala/timesheet-tracker/internal/compliance/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/mail"
	"github.com/frahmantamala/timesheet-tracker/internal/settings"
	settingsPostgres "github.com/frahmantamala/timesheet-tracker/internal/settings/postgres"
	"github.com/frahmantamala/timesheet-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the weekly compliance reminders",
	Long:  `Run the weekly timesheet and approval reminder emails without the HTTP server. Use --once to run both checks immediately and exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		startScheduler()
	},
}

var (
	runOnce        bool
	scheduleDay    int
	scheduleHour   int
	scheduleMinute int
)

func startScheduler() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		lg.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orm, err := initORM(db)
	if err != nil {
		lg.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	sender := mail.NewSMTPSender(lg)
	settingsService := settings.NewService(settingsPostgres.NewSettingsRepository(orm), sender, lg)
	service := compliance.NewService(compliancePostgres.NewComplianceRepository(db), settingsService, sender, lg,
		compliance.WithPortalURL(config.Server.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runOnce {
		lg.Info("running compliance reminders once")
		service.RunScheduled(ctx)
		return
	}

	schedCfg := config.Scheduler
	schedCfg.Weekday = getIntFlag(scheduleDay, schedCfg.Weekday)
	schedCfg.Hour = getIntFlag(scheduleHour, schedCfg.Hour)
	schedCfg.Minute = getIntFlag(scheduleMinute, schedCfg.Minute)
	if err := schedCfg.Validate(); err != nil {
		lg.Error("invalid schedule", "error", err)
		os.Exit(1)
	}

	sched, err := newScheduler(schedCfg, service, lg)
	if err != nil {
		lg.Error("invalid schedule", "error", err)
		os.Exit(1)
	}

	lg.Info("scheduler is running. Press Ctrl+C to stop.",
		"weekday", time.Weekday(schedCfg.Weekday).String(),
		"hour", schedCfg.Hour,
		"minute", schedCfg.Minute)

	sched.Start(ctx)
	<-ctx.Done()
	<-sched.Stop().Done()
	lg.Info("scheduler shutdown complete")
}

func newScheduler(cfg internal.SchedulerConfig, service *compliance.Service, lg *slog.Logger) (*compliance.Scheduler, error) {
	return compliance.NewScheduler(time.Weekday(cfg.Weekday), cfg.Hour, cfg.Minute, time.Local, service.RunScheduled, lg)
}

// getIntFlag prefers a flag value over config; -1 means unset.
func getIntFlag(flagValue, configValue int) int {
	if flagValue >= 0 {
		return flagValue
	}
	return configValue
}

func init() {
	schedulerCmd.Flags().BoolVar(&runOnce, "once", false, "Run both checks immediately and exit")
	schedulerCmd.Flags().IntVar(&scheduleDay, "weekday", -1, "Day of week to run, 0 = Sunday (overrides config)")
	schedulerCmd.Flags().IntVar(&scheduleHour, "hour", -1, "Hour to run (overrides config)")
	schedulerCmd.Flags().IntVar(&scheduleMinute, "minute", -1, "Minute to run (overrides config)")
}
