package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfile_StaleClaims(t *testing.T) {
	// A valid token whose user has vanished from the store yields 404.
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmailWithPosts", mock.Anything, "ghost@x.com").
		Return(nil, models.NewNotFoundError("User", "ghost@x.com"))

	s := newAuthTestServer(mockRepo)
	app := fiber.New()
	app.Get("/profile", middleware.AuthRequired(s.tokens), s.Profile)

	tok, err := token.NewService(testSecret).Issue("ghost@x.com", 99)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tok})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
