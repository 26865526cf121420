package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scribe/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	secret := "test-secret-key-12345678901234567890123456789012"
	tokens := token.NewService(secret)

	app := fiber.New()
	app.Get("/test", AuthRequired(tokens), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userID": c.Locals("userID"),
			"email":  c.Locals("email"),
		})
	})

	valid, err := tokens.Issue("a@x.com", 7)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("x", len(parts[2]))

	wrongKey, err := token.NewService("some-other-secret-123456789012345678").Issue("a@x.com", 7)
	require.NoError(t, err)

	tests := []struct {
		name           string
		cookie         string
		expectedStatus int
	}{
		{"Happy Path", valid, http.StatusOK},
		{"Missing Cookie", "", http.StatusUnauthorized},
		{"Malformed Token", "malformed.token.here", http.StatusUnauthorized},
		{"Tampered Signature", tampered, http.StatusUnauthorized},
		{"Wrong Secret", wrongKey, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
