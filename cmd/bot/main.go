package main

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"medication_reminder_bot/internal/app"
	"medication_reminder_bot/internal/domain/cycle"
	"medication_reminder_bot/internal/domain/notifier"
	"medication_reminder_bot/internal/infra/config"
	idb "medication_reminder_bot/internal/infra/database"
	"medication_reminder_bot/internal/infra/logger"
	"medication_reminder_bot/internal/infra/planfile"
	"medication_reminder_bot/internal/infra/scheduler"
	"medication_reminder_bot/internal/infra/sms"
	"medication_reminder_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Medication Reminder Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.For("main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Timezone: %s, Notifier: %s, Database: %s",
		cfg.LogLevel, cfg.Environment, cfg.Timezone, cfg.Notifier, cfg.DatabaseDriver)

	// Load the medication plan
	plan, err := planfile.Load(cfg.PlanFile, cfg.Timezone)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load medication plan: %v", err)
	}
	for _, w := range plan.Warnings() {
		mainLogger.Warn(w)
	}
	mainLogger.Infof("Medication plan loaded from %s: %d medications, %d cycles of %d days", cfg.PlanFile, len(plan.Meds), plan.NumberOfCycles, plan.LengthOfCyclesInDays)

	// Initialize Database Connection and Repository
	db, cycleRepo, err := openCycleRepository(cfg)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.InitializeCycle(ctx, cycleRepo, plan, logger.For("bootstrap")); err != nil {
		mainLogger.Fatalf("FATAL: Could not initialize cycle days: %v", err)
	}

	// Initialize the notification transport
	var client notifier.Client
	switch cfg.Notifier {
	case config.NotifierTelegram:
		bot, err := telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				logger.For("telebot").WithError(err).Error("Telegram bot error")
			},
		})
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		statusService := app.NewStatusService(plan, cycleRepo, cfg.Timezone)
		telegram.RegisterBotCommands(ctx, bot, cfg.RecipientTelegramID, statusService, time.Now, logger.For("telegram"))
		go bot.Start()
		defer bot.Stop()
		client = telegram.NewTelebotAdapter(bot, cfg.RecipientTelegramID)
	default:
		client = sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.RecipientPhoneNumber)
	}
	mainLogger.Infof("Notification transport %s initialized.", cfg.Notifier)

	reminderService := app.NewReminderServiceImpl(plan, cycleRepo, client, logger.For("reminders"), cfg.Timezone, cfg.SkipEmptyReminders)
	reminderScheduler := scheduler.NewReminderScheduler(reminderService, logger.For("scheduler"), cfg.Timezone, cfg.CronSpecReminderCheck)

	mainLogger.Infof("Running until the end of the cycle on %s.", cycle.FormatDate(cycle.EndDate(plan)))
	if err := reminderScheduler.Run(ctx); err != nil {
		mainLogger.Infof("Shutting down application: %v", err)
		return
	}
	mainLogger.Info("The medication cycle has ended. Application shut down gracefully.")
}

func openCycleRepository(cfg *config.AppConfig) (*sql.DB, cycle.Repository, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, idb.NewPostgresCycleRepository(db, cfg.Timezone), nil
	default:
		db, err := idb.NewSQLiteConnection(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return db, idb.NewSQLiteCycleRepository(db, cfg.Timezone), nil
	}
}
