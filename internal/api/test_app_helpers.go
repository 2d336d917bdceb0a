package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/billow-app/billow/internal/db"
	"github.com/billow-app/billow/internal/notify"
	"github.com/billow-app/billow/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	return newTestAppWithOptions(t, true)
}

func newTestAppWithOptions(t *testing.T, guestAccess bool) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "billow-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	scheduler := notify.NewLocalScheduler(notify.LogSender{}, nil, services.SystemClock{})
	handler := NewHandler(database, "test-secret-key", scheduler, false, guestAccess)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func jsonRequest(t *testing.T, app *fiber.App, method string, path string, authCookie string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode %s %s payload: %v", method, path, err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

// rawRequest sends body verbatim, for payloads jsonRequest would
// refuse to encode.
func rawRequest(t *testing.T, app *fiber.App, method string, path string, authCookie string, body string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	decoded := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return decoded
}

func extractAuthCookie(t *testing.T, response *http.Response) string {
	t.Helper()

	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}
	t.Fatal("auth cookie is missing in response")
	return ""
}

func registerTestOwner(t *testing.T, app *fiber.App, email string, password string) string {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}
	return extractAuthCookie(t, response)
}

func startGuestSession(t *testing.T, app *fiber.App) string {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/auth/guest", "", nil)
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected guest session status 200, got %d", response.StatusCode)
	}
	return extractAuthCookie(t, response)
}

func testPaymentPayload(dueDate string) map[string]any {
	return map[string]any{
		"title":            "Internet bill",
		"amount":           "49.90",
		"due_date":         dueDate,
		"category":         "utilities",
		"frequency":        "monthly",
		"notes":            "fiber, contract 7781",
		"reminder_enabled": true,
		"reminder_types":   []string{"one_day_before", "on_due_date"},
	}
}

func createTestPayment(t *testing.T, app *fiber.App, authCookie string, dueDate string) string {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/payments", authCookie, testPaymentPayload(dueDate))
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected create status 201, got %d", response.StatusCode)
	}

	body := decodeJSONBody(t, response)
	payment, ok := body["payment"].(map[string]any)
	if !ok {
		t.Fatalf("expected payment object in response, got %v", body)
	}
	paymentID, ok := payment["id"].(string)
	if !ok || paymentID == "" {
		t.Fatalf("expected payment id, got %v", payment)
	}
	return paymentID
}
