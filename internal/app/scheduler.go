package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"taskmatrix/internal/config"
	"taskmatrix/internal/mail"
	"taskmatrix/internal/services"
)

var globalCron *cron.Cron

// MustStartScheduler wires the daily reminder job: a cron trigger that
// asks the reminder service for pending tasks and hands each batch to
// the mailer. The services themselves hold no timers.
func MustStartScheduler() {
	cfg := config.Global()
	if !cfg.Reminder.Enabled {
		globalLogger.Info().Msg("reminder scheduler disabled")
		return
	}

	spec, err := buildDailySpec(cfg.Reminder.Time)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("time", cfg.Reminder.Time).
			Msg("invalid reminder time")
		panic(err)
	}

	reminders := services.NewReminderService(globalLogger, globalPostgresPool, cfg.Reminder.Window)
	mailer := mail.New(globalLogger,
		cfg.SMTP.Host, cfg.SMTP.Port,
		cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	globalCron = cron.New(cron.WithLocation(time.Local))
	_, err = globalCron.AddFunc(spec, func() {
		runReminderJob(reminders, mailer)
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to schedule reminder job")
		panic(err)
	}

	globalCron.Start()
	globalLogger.Info().
		Str("time", cfg.Reminder.Time).
		Dur("window", cfg.Reminder.Window).
		Msg("started reminder scheduler")
}

func StopScheduler() {
	if globalCron == nil {
		return
	}
	ctx := globalCron.Stop()
	<-ctx.Done()
	globalLogger.Info().Msg("stopped reminder scheduler")
}

func runReminderJob(reminders services.ReminderService, mailer *mail.Mailer) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pending, err := reminders.PendingReminders(ctx, time.Now())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("reminder job failed to collect pending tasks")
		return
	}

	sent := 0
	for _, reminder := range pending {
		err = mailer.SendReminder(reminder.User.Email, reminder.User.Username, reminder.Tasks)
		if err != nil {
			// Delivery failures shouldn't stop the rest of the batch.
			continue
		}
		sent++
	}

	globalLogger.Info().
		Int("users", len(pending)).
		Int("sent", sent).
		Msg("reminder job finished")
}

// buildDailySpec converts an HH:MM string to a daily cron spec.
func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
