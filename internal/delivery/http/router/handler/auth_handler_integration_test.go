package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockroom/internal/delivery/http/middleware"
	"stockroom/internal/delivery/http/validator"
	"stockroom/internal/domain/service"
	"stockroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase is a minimal test double for the handler tests.
type stubAuthUsecase struct {
	mock.Mock
}

func (s *stubAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AccountView, error) {
	args := s.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AccountView), args.Error(1)
}

func (s *stubAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*service.TokenPair, error) {
	args := s.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (s *stubAuthUsecase) RefreshTokens(ctx context.Context, input *usecase.RefreshInput) (*service.TokenPair, error) {
	args := s.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (s *stubAuthUsecase) Logout(ctx context.Context, accountID uuid.UUID) error {
	return s.Called(ctx, accountID).Error(0)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Integration(t *testing.T) {
	uc := new(stubAuthUsecase)
	accountID := uuid.New()
	uc.On("Register", mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(&usecase.AccountView{
			ID:        accountID,
			Email:     "test@example.com",
			Name:      "Test Account",
			CreatedAt: time.Now(),
		}, nil)

	handler := NewAuthHandler(uc)
	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Test Account","email":"test@example.com","password":"password123","confirmPassword":"password123"}`)

	require.NoError(t, handler.Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, accountID.String())
	assert.Contains(t, body, "test@example.com")
	// The projection must never carry credential material.
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "hash")
}

func TestAuthHandler_Register_ConfirmPasswordMismatch(t *testing.T) {
	uc := new(stubAuthUsecase)
	handler := NewAuthHandler(uc)
	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Test Account","email":"test@example.com","password":"password123","confirmPassword":"different123"}`)

	err := handler.Register(c)

	require.Error(t, err)
	uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login_Integration(t *testing.T) {
	uc := new(stubAuthUsecase)
	uc.On("Login", mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(&service.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)

	handler := NewAuthHandler(uc)
	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"test@example.com","password":"password123"}`)

	require.NoError(t, handler.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accessToken")
	assert.Contains(t, rec.Body.String(), "refreshToken")
}

func TestAuthHandler_Refresh_UsesBearerIdentity(t *testing.T) {
	uc := new(stubAuthUsecase)
	accountID := uuid.New()
	uc.On("RefreshTokens", mock.Anything, mock.MatchedBy(func(input *usecase.RefreshInput) bool {
		return input.AccountID == accountID && input.RefreshToken == "presented-refresh"
	})).Return(&service.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

	handler := NewAuthHandler(uc)
	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh",
		`{"refreshToken":"presented-refresh"}`)
	c.Set(middleware.KeyAccountID, accountID)

	require.NoError(t, handler.Refresh(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new-access")
}

func TestAuthHandler_Refresh_WithoutIdentityDenied(t *testing.T) {
	uc := new(stubAuthUsecase)
	handler := NewAuthHandler(uc)
	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh",
		`{"refreshToken":"presented-refresh"}`)

	require.NoError(t, handler.Refresh(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "RefreshTokens", mock.Anything, mock.Anything)
}

func TestAuthHandler_Logout_Integration(t *testing.T) {
	uc := new(stubAuthUsecase)
	accountID := uuid.New()
	uc.On("Logout", mock.Anything, accountID).Return(nil)

	handler := NewAuthHandler(uc)
	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", `{}`)
	c.Set(middleware.KeyAccountID, accountID)

	require.NoError(t, handler.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
}
