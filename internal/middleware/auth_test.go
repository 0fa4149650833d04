package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/stock-sync/internal/config"
	"github.com/foxxcyber/stock-sync/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, role models.Role, expires time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: 42,
		Email:  "admin@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func setupApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	app.Get("/admin", AuthRequired(cfg), AdminRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"admin token", "Bearer " + signToken(t, testSecret, models.RoleAdmin, future), http.StatusOK},
		{"non-admin token", "Bearer " + signToken(t, testSecret, models.RoleUser, future), http.StatusForbidden},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", models.RoleAdmin, future), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, models.RoleAdmin, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
	}

	app := setupApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAdminRequired_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestContextHelpersDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Equal(t, 0, GetUserID(c))
		assert.Equal(t, models.RoleUser, GetUserRole(c))
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
