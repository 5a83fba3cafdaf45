package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/api/http/handlers"
	"github.com/spec-kit/user-service/internal/api/response"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/observability"
	"github.com/spec-kit/user-service/internal/service"
	"github.com/spec-kit/user-service/pkg/apperrors"
)

// memoryUsers is an in-memory repository.UserRepository.
type memoryUsers struct {
	mu      sync.Mutex
	users   map[string]domain.User
	failAll error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]domain.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, apperrors.NewDatabase("failed to connect to database", m.failAll)
	}
	if _, exists := m.users[user.ID]; exists {
		return nil, apperrors.NewDatabase("failed to create user", errors.New("duplicate key value violates unique constraint"))
	}
	stored := *user
	stored.CreatedAt = stored.CreatedAt.Truncate(time.Microsecond)
	stored.UpdatedAt = stored.UpdatedAt.Truncate(time.Microsecond)
	m.users[user.ID] = stored
	return &stored, nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, apperrors.NewDatabase("failed to connect to database", m.failAll)
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NewNotFound(id)
	}
	return &user, nil
}

type pingFunc func(context.Context) error

func (p pingFunc) Ping(ctx context.Context) error { return p(ctx) }

type testApp struct {
	app   *fiber.App
	users *memoryUsers
}

func newTestApp(t *testing.T, cfg config.ResponseConfig, deps map[string]handlers.Pinger) *testApp {
	t.Helper()
	users := newMemoryUsers()
	responses := response.New(cfg)
	metrics := observability.NewMetrics("test")

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, responses, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("user-service", "test", responses, deps),
		Users:   handlers.NewUsersHandler(service.NewUserService(service.UserDependencies{UserRepo: users}), responses),
		Metrics: metrics,
	})
	app.Get("/panic", func(*fiber.Ctx) error { panic("kaboom") })
	return &testApp{app: app, users: users}
}

func (a *testApp) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := a.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func assertSecurityHeaders(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, "default-src 'self'", resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", resp.Header.Get("Strict-Transport-Security"))
	assert.Equal(t, "strict-origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestCreateThenGetUser(t *testing.T) {
	a := newTestApp(t, config.ResponseConfig{}, nil)

	resp, body := a.do(t, http.MethodPost, "/users", `{"id":"u1","name":"Alice"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assertSecurityHeaders(t, resp)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "Alice", body["name"])
	assert.NotEmpty(t, body["created_at"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "message")

	resp, body = a.do(t, http.MethodGet, "/users/u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assertSecurityHeaders(t, resp)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "Alice", body["name"])
}

func TestGetUnknownUser(t *testing.T) {
	a := newTestApp(t, config.ResponseConfig{}, nil)

	resp, body := a.do(t, http.MethodGet, "/users/ghost", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assertSecurityHeaders(t, resp)
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, `user "ghost" not found`, body["message"])
	assert.Equal(t, map[string]any{"id": "ghost"}, body["details"])
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.ResponseConfig
		body        string
		wantDetails any
	}{
		{
			name:        "development lists violations",
			cfg:         config.ResponseConfig{},
			body:        `{"id":"","name":""}`,
			wantDetails: []any{"id is required", "name is required"},
		},
		{
			name: "production hides violations but keeps message",
			cfg:  config.ResponseConfig{Production: true},
			body: `{"id":"","name":""}`,
		},
		{
			name:        "malformed json",
			cfg:         config.ResponseConfig{},
			body:        `{"id":`,
			wantDetails: []any{"body must be a JSON object with id and name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, tt.cfg, nil)

			resp, body := a.do(t, http.MethodPost, "/users", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Bad Request", body["error"])
			assert.NotEmpty(t, body["message"])
			if tt.wantDetails == nil {
				assert.NotContains(t, body, "details")
			} else {
				assert.Equal(t, tt.wantDetails, body["details"])
			}
		})
	}
}

func TestDuplicateCreateIsServerError(t *testing.T) {
	a := newTestApp(t, config.ResponseConfig{Production: true}, nil)

	resp, _ := a.do(t, http.MethodPost, "/users", `{"id":"u1","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := a.do(t, http.MethodPost, "/users", `{"id":"u1","name":"Bob"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, response.GenericServerMessage, body["message"])
}

func TestDatabaseFailureMessageInDevelopment(t *testing.T) {
	a := newTestApp(t, config.ResponseConfig{}, nil)
	a.users.failAll = errors.New("connection refused")

	resp, body := a.do(t, http.MethodGet, "/users/u1", "")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "failed to connect to database: connection refused", body["message"])
}

func TestUnknownRouteAndPanic(t *testing.T) {
	a := newTestApp(t, config.ResponseConfig{Production: true}, nil)

	resp, body := a.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assertSecurityHeaders(t, resp)
	assert.Equal(t, "Not Found", body["error"])

	resp, body = a.do(t, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assertSecurityHeaders(t, resp)
	assert.Equal(t, config.DefaultPublicURL, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, response.GenericServerMessage, body["message"])
}

func TestHealthEndpoints(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	a := newTestApp(t, config.ResponseConfig{}, map[string]handlers.Pinger{"postgres": healthy})
	resp, body := a.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = a.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, map[string]any{"postgres": "ok"}, body["dependencies"])

	a = newTestApp(t, config.ResponseConfig{}, map[string]handlers.Pinger{"postgres": healthy, "redis": down})
	resp, body = a.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assertSecurityHeaders(t, resp)
	assert.Equal(t, "Service Unavailable", body["error"])
	assert.Equal(t, map[string]any{"postgres": "ok", "redis": "connection refused"}, body["details"])
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, config.ResponseConfig{}, nil)
	a.do(t, http.MethodGet, "/users/ghost", "")

	resp, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "test_http_errors_total")
	assert.Contains(t, string(raw), `code="NOT_FOUND"`)
}
