package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"photobook/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockService) GetByID(ctx context.Context, userID string) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*User), args.Error(2)
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.GET("/me", auth.AuthMiddleware(testSecret), h.GetMe)
	return r
}

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"}).
		Return(&User{ID: aliceID, Name: "Ann", Email: "ann@example.com", PasswordHash: "secret-hash", Role: auth.RoleClient}, "a", "r", nil)
	r := newTestRouter(svc)

	w := doJSON(r, "POST", "/auth/register", `{"name":"Ann","email":"ann@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"a"`)
	assert.NotContains(t, w.Body.String(), "secret-hash")

	w = doJSON(r, "POST", "/auth/register", `{"name":"Ann","email":"ann@example.com","password":"short"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/auth/register", `{"name":"Ann","email":"ann@example.com","password":"password123","role":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestHandler_Login(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, LoginRequest{Email: "ann@example.com", Password: "bad"}).
		Return(nil, "", "", ErrInvalidCredentials)
	r := newTestRouter(svc)

	w := doJSON(r, "POST", "/auth/login", `{"email":"ann@example.com","password":"bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestHandler_GetMe(t *testing.T) {
	svc := new(MockService)
	svc.On("GetByID", mock.Anything, aliceID).Return(&User{ID: aliceID, Name: "Ann", Role: auth.RoleClient}, nil)
	r := newTestRouter(svc)

	token, _ := auth.GenerateAccessToken(aliceID, "ann@example.com", auth.RoleClient, testSecret)
	w := doJSON(r, "GET", "/me", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), aliceID)

	w = doJSON(r, "GET", "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_RefreshToken(t *testing.T) {
	svc := new(MockService)
	svc.On("RefreshToken", mock.Anything, "bad-token").Return("", nil, ErrInvalidRefresh)
	r := newTestRouter(svc)

	w := doJSON(r, "POST", "/auth/refresh", `{"refresh_token":"bad-token"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/auth/refresh", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
