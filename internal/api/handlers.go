package api

import (
	"time"

	"github.com/billow-app/billow/internal/db"
	"github.com/billow-app/billow/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	cookieSecure bool
	guestAccess  bool
	clock        services.Clock

	repositories   *db.Repositories
	authService    *services.AuthService
	paymentService *services.PaymentService
	loginLimiter   *loginLimiter
}

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

// paymentPayload is the wire form of a payment mutation. Amount stays
// a string so the decimal value survives JSON untouched; DueDate is
// RFC 3339.
type paymentPayload struct {
	Title           string   `json:"title" form:"title"`
	Amount          string   `json:"amount" form:"amount"`
	DueDate         string   `json:"due_date" form:"due_date"`
	Category        string   `json:"category" form:"category"`
	Frequency       string   `json:"frequency" form:"frequency"`
	Notes           string   `json:"notes" form:"notes"`
	ReminderEnabled bool     `json:"reminder_enabled" form:"reminder_enabled"`
	ReminderTypes   []string `json:"reminder_types"`
}

func NewHandler(database *gorm.DB, secret string, scheduler services.NotificationScheduler, cookieSecure bool, guestAccess bool) *Handler {
	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		cookieSecure: cookieSecure,
		guestAccess:  guestAccess,
		clock:        services.SystemClock{},
		loginLimiter: newLoginLimiter(),
	}
	return handler.withDependencies(database, scheduler)
}

func (handler *Handler) withDependencies(database *gorm.DB, scheduler services.NotificationScheduler) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users, handler.clock)
	reminderSync := services.NewReminderSyncService(handler.repositories.Reminders, scheduler, handler.clock)
	handler.paymentService = services.NewPaymentService(handler.repositories.Payments, reminderSync, handler.clock)
	return handler
}

// PaymentService exposes the wired payment service so the process
// entrypoint can run boot-time refresh and the status sweep on the
// same instance the routes use.
func (handler *Handler) PaymentService() *services.PaymentService {
	return handler.paymentService
}
