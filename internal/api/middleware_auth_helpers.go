package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type authClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	rawToken := strings.TrimSpace(c.Cookies(authCookieName))
	if rawToken == "" {
		return nil, errors.New("missing auth cookie")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	// Guest sessions have no account row behind them; the claims are
	// the whole identity.
	if claims.Role == models.RoleGuest {
		if !handler.guestAccess {
			return nil, errors.New("guest access disabled")
		}
		return &models.User{ID: models.GuestOwnerID, Role: models.RoleGuest}, nil
	}

	user, found, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("unknown account")
	}
	return &user, nil
}
