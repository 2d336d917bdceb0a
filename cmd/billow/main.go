package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/billow-app/billow/internal/api"
	"github.com/billow-app/billow/internal/db"
	"github.com/billow-app/billow/internal/notify"
	"github.com/billow-app/billow/internal/services"
	"github.com/billow-app/billow/internal/sync"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	port, err := resolvePort()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dbPath := getEnv("DB_PATH", filepath.Join("data", "billow.db"))
	cookieSecure := boolEnv("COOKIE_SECURE", false)
	guestAccess := boolEnv("GUEST_ACCESS", true)

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	repositories := db.NewRepositories(database)
	scheduler := notify.NewLocalScheduler(notify.SenderFromEnv(), repositories.Reminders, services.SystemClock{})
	handler := api.NewHandler(database, secretKey, scheduler, cookieSecure, guestAccess)

	app := fiber.New(fiber.Config{
		AppName:               "Billow",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	paymentService := handler.PaymentService()
	if refreshed, err := paymentService.RefreshStatuses(); err != nil {
		log.Printf("payments: boot status refresh failed: %v", err)
	} else if refreshed > 0 {
		log.Printf("payments: refreshed %d statuses at boot", refreshed)
	}
	rearmReminders(lifecycleCtx, repositories, scheduler)

	scheduler.Start(lifecycleCtx, durationEnv("REMINDER_POLL_INTERVAL", 30*time.Second))
	paymentService.StartStatusRefresh(lifecycleCtx, durationEnv("STATUS_REFRESH_INTERVAL", time.Hour))
	startSyncWorker(lifecycleCtx, repositories)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Billow listening on http://0.0.0.0:%s (db: %s)", port, dbPath)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// rearmReminders re-schedules every pending reminder with the local
// dispatcher. Armed state lives in memory only, so a restart would
// otherwise drop it.
func rearmReminders(ctx context.Context, repositories *db.Repositories, scheduler *notify.LocalScheduler) {
	active, err := repositories.Payments.ListActive()
	if err != nil {
		log.Printf("reminders: boot rearm skipped, load payments: %v", err)
		return
	}

	reminderSync := services.NewReminderSyncService(repositories.Reminders, scheduler, services.SystemClock{})
	armed, err := reminderSync.RearmAll(ctx, active)
	if err != nil {
		log.Printf("reminders: boot rearm incomplete: %v", err)
	}
	if armed > 0 {
		log.Printf("reminders: rearmed %d notifications at boot", armed)
	}
}

func startSyncWorker(ctx context.Context, repositories *db.Repositories) {
	endpoint := os.Getenv("SYNC_ENDPOINT")
	if endpoint == "" {
		log.Println("sync: SYNC_ENDPOINT not set, remote push disabled")
		return
	}

	remote := sync.NewHTTPRemoteStore(endpoint, os.Getenv("SYNC_API_KEY"))
	worker := sync.NewWorker(repositories.Payments, remote, durationEnv("SYNC_INTERVAL", 5*time.Minute))
	worker.Start(ctx)
	log.Printf("sync: pushing unsynced payments to %s", endpoint)
}

func resolveSecretKey() (string, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return "", errors.New("SECRET_KEY must be set")
	}
	switch secret {
	case "change_me_in_production", "replace_with_at_least_32_random_characters":
		return "", errors.New("SECRET_KEY still uses a placeholder value")
	}
	if len(secret) < 32 {
		return "", errors.New("SECRET_KEY must be at least 32 characters")
	}
	return secret, nil
}

func resolvePort() (string, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return "8080", nil
	}
	number, err := strconv.Atoi(port)
	if err != nil || number < 1 || number > 65535 {
		return "", errors.New("PORT must be a number between 1 and 65535")
	}
	return port, nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: invalid %s %q, using %t", key, raw, fallback)
		return fallback
	}
	return value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("config: invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return value
}
