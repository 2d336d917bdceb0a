package api

import (
	"errors"

	"github.com/billow-app/billow/internal/models"
	"github.com/billow-app/billow/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	needsSetup, err := handler.authService.NeedsSetup()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load setup state")
	}
	return c.JSON(fiber.Map{
		"needs_setup":  needsSetup,
		"guest_access": handler.guestAccess,
	})
}

// Register creates the single owner account and signs it in. Once an
// owner exists, registration stays closed.
func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.RegisterOwner(credentials.Email, credentials.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOwnerExists):
			return apiError(c, fiber.StatusConflict, "owner already registered")
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "weak password")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to create account")
		}
	}

	if err := handler.setAuthCookie(c, &user, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "email": user.Email})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.clock.Now()
	limiterKey := clientKey(c)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.recordFailure(limiterKey, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}
	handler.loginLimiter.clear(limiterKey)

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true, "email": user.Email})
}

// GuestSession issues a read-only session bound to the ownerless
// guest profile. Available only when guest access is switched on.
func (handler *Handler) GuestSession(c *fiber.Ctx) error {
	if !handler.guestAccess {
		return apiError(c, fiber.StatusForbidden, "guest access disabled")
	}

	guest := models.User{ID: models.GuestOwnerID, Role: models.RoleGuest}
	if err := handler.setAuthCookie(c, &guest, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true, "role": models.RoleGuest})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
