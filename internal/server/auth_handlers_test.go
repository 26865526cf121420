package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmailWithPosts(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newAuthTestServer(repo repository.UserRepository) *Server {
	return &Server{
		config:   &config.Config{JWTSecret: testSecret},
		tokens:   token.NewService(testSecret),
		userRepo: repo,
	}
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		mockSetup      func(*MockUserRepository)
		expectedStatus int
		expectCookie   bool
	}{
		{
			name: "Success",
			form: url.Values{
				"email":    {"test@example.com"},
				"password": {"pw1"},
				"username": {"test"},
				"name":     {"Test"},
				"age":      {"20"},
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusFound,
			expectCookie:   true,
		},
		{
			name: "Duplicate Email",
			form: url.Values{
				"email":    {"exists@example.com"},
				"password": {"pw1"},
				"username": {"test"},
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "exists@example.com").
					Return(&models.User{ID: 1, Email: "exists@example.com"}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Missing Fields",
			form:           url.Values{"email": {"test@example.com"}},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := newAuthTestServer(mockRepo)
			app := fiber.New()
			app.Post("/register", s.Register)

			resp, err := app.Test(formRequest("/register", tt.form), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusFound {
				assert.Equal(t, "/profile", resp.Header.Get("Location"))
			}
			if tt.expectCookie {
				cookie := sessionCookie(resp)
				require.NotNil(t, cookie, "session cookie must be set")
				assert.NotEmpty(t, cookie.Value)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &models.User{ID: 1, Email: "a@x.com", Username: "a", Password: string(hashed)}

	tests := []struct {
		name           string
		form           url.Values
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			form: url.Values{"email": {"a@x.com"}, "password": {"pw1"}},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil)
			},
			expectedStatus: http.StatusFound,
		},
		{
			name: "Unknown Email",
			form: url.Values{"email": {"nobody@x.com"}, "password": {"pw1"}},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Wrong Password",
			form: url.Values{"email": {"a@x.com"}, "password": {"wrong"}},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := newAuthTestServer(mockRepo)
			app := fiber.New()
			app.Post("/login", s.Login)

			resp, err := app.Test(formRequest("/login", tt.form), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusFound {
				require.NotNil(t, sessionCookie(resp))
			}
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newAuthTestServer(new(MockUserRepository))
	app := fiber.New()
	app.Get("/logout", s.Logout)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/logout", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestPasswordHashing_Property(t *testing.T) {
	passwords := []string{
		"pw1",
		"correct horse battery staple",
		"p@$$w0rd!#%&'()*+,-./",
		"日本語のパスワード",
		" spaces around ",
	}

	for _, pw := range passwords {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		require.NoError(t, err)

		assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte(pw)),
			"a correct password always verifies against its own hash")
		assert.Error(t, bcrypt.CompareHashAndPassword(hash, []byte(pw+"x")),
			"an altered password never verifies")
	}
}
