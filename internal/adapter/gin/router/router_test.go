package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mongo-user-service/internal/adapter/gin/handler"
	"mongo-user-service/internal/config"
	usecase "mongo-user-service/internal/usecase/user"
	pkgerrors "mongo-user-service/pkg/errors"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserResponse), args.Error(1)
}

func (m *mockUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserResponse), args.Error(1)
}

func setupRouter(t *testing.T) (http.Handler, *mockUsecase) {
	cfg := &config.Config{}
	cfg.App.Name = "first-steps"
	cfg.App.Debug = false
	cfg.CORS.AllowedOrigins = []string{"*"}

	uc := new(mockUsecase)
	h := handler.NewUserHandler(uc, zaptest.NewLogger(t))
	r := SetupRouter(cfg, h, nil, zaptest.NewLogger(t))
	return r, uc
}

func TestRouter_CreateUser(t *testing.T) {
	r, uc := setupRouter(t)

	created := &usecase.UserResponse{
		ID:        "a1b2c3d4e5f60718",
		UserIndex: 7,
		Name:      "Alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now().UTC(),
	}
	uc.On("CreateUser", mock.Anything, mock.MatchedBy(func(req usecase.CreateUserRequest) bool {
		return req.Name == "Alice" && req.Email == "alice@example.com"
	})).Return(created, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"Alice","email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp["id"])
	assert.Equal(t, float64(created.UserIndex), resp["user_index"])
}

func TestRouter_GetUser_NotFound(t *testing.T) {
	r, uc := setupRouter(t)

	uc.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: "missing0missing0"}).
		Return(nil, pkgerrors.NewNotFoundError("user", "User not found"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/missing0missing0", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp["error"])
	assert.Equal(t, "User not found", resp["message"])
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "first-steps", resp["service"])
}

func TestRouter_Metrics(t *testing.T) {
	r, _ := setupRouter(t)

	// Generate at least one observation first
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouter_SwaggerUI(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}
