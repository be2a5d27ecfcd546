package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"stockroom/internal/domain/entity"
	domainerrors "stockroom/internal/domain/errors"
	"stockroom/internal/domain/repository"
	mockRepo "stockroom/internal/mocks/repository"
	mockSvc "stockroom/internal/mocks/service"
	"stockroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	svc "stockroom/internal/domain/service"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	accountRepo  *mockRepo.MockAccountRepository
	hasher       *mockSvc.MockCredentialHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockCredentialHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       logger,
	})

	return authServiceFixtures{
		service:      service,
		txManager:    txManager,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func hashPtrMatches(expected string) interface{} {
	return mock.MatchedBy(func(hash *string) bool {
		return hash != nil && *hash == expected
	})
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:            "Test Account",
		Email:           "test@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
	accountID := uuid.New()

	fx.hasher.EXPECT().Hash("password123").Return("hashed-password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(ctx context.Context, account *entity.Account) {
			assert.Equal(t, "test@example.com", account.Email)
			assert.Equal(t, "hashed-password", account.PasswordHash)
			assert.Nil(t, account.RefreshTokenHash)
			account.ID = accountID
			account.CreatedAt = time.Now()
		}).
		Return(nil)

	view, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, accountID, view.ID)
	assert.Equal(t, "test@example.com", view.Email)
	assert.Equal(t, "Test Account", view.Name)
}

func TestAuthService_Register_PasswordTooShort(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:            "Test Account",
		Email:           "test@example.com",
		Password:        "short",
		ConfirmPassword: "short",
	}

	view, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	fx.hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestAuthService_Register_PasswordWithWhitespace(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:            "Test Account",
		Email:           "test@example.com",
		Password:        "pass word123",
		ConfirmPassword: "pass word123",
	}

	view, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:            "Test Account",
		Email:           "taken@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}

	fx.hasher.EXPECT().Hash("password123").Return("hashed-password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrEmailAlreadyRegistered)

	view, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:           accountID,
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
	}
	pair := &svc.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)
	fx.hasher.EXPECT().Check("password123", "hashed-password").Return(true)
	fx.tokenService.EXPECT().IssueTokenPair(ctx, accountID, "test@example.com").Return(pair, nil)
	fx.hasher.EXPECT().Hash("refresh-token").Return("refresh-token-hash", nil)
	fx.accountRepo.EXPECT().
		UpdateRefreshTokenHash(ctx, accountID, hashPtrMatches("refresh-token-hash")).
		Return(nil)

	got, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "test@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	fx.accountRepo.EXPECT().
		FindByEmail(ctx, "missing@example.com").
		Return(nil, repository.ErrAccountNotFound)

	got, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "missing@example.com", Password: "password123"})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(account, nil)
	fx.hasher.EXPECT().Check("wrong-password", "hashed-password").Return(false)

	got, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "test@example.com", Password: "wrong-password"})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

// An unknown email and a wrong password must be indistinguishable from
// the caller's side, otherwise login doubles as an account probe.
func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "known@example.com",
		PasswordHash: "hashed-password",
	}

	fx.accountRepo.EXPECT().
		FindByEmail(ctx, "missing@example.com").
		Return(nil, repository.ErrAccountNotFound)
	fx.accountRepo.EXPECT().FindByEmail(ctx, "known@example.com").Return(account, nil)
	fx.hasher.EXPECT().Check("wrong-password", "hashed-password").Return(false)

	_, unknownEmailErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "missing@example.com", Password: "password123"})
	_, wrongPasswordErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "known@example.com", Password: "wrong-password"})

	var appErr1, appErr2 domainerrors.AppError
	require.ErrorAs(t, unknownEmailErr, &appErr1)
	require.ErrorAs(t, wrongPasswordErr, &appErr2)
	assert.Equal(t, appErr1.Message(), appErr2.Message())
	assert.Equal(t, appErr1.HTTPCode(), appErr2.HTTPCode())
	assert.Equal(t, appErr1.ErrorCode(), appErr2.ErrorCode())
}

func TestAuthService_RefreshTokens_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()
	oldHash := "old-refresh-hash"
	account := &entity.Account{
		ID:               accountID,
		Email:            "test@example.com",
		PasswordHash:     "hashed-password",
		RefreshTokenHash: &oldHash,
	}
	pair := &svc.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().LockByID(ctx, accountID).Return(nil)
			mockAccountRepo.EXPECT().FindByID(ctx, accountID).Return(account, nil)
			mockAccountRepo.EXPECT().
				UpdateRefreshTokenHash(ctx, accountID, hashPtrMatches("new-refresh-hash")).
				Return(nil)

			return fn(mockFactory)
		})
	fx.hasher.EXPECT().Check("presented-refresh", oldHash).Return(true)
	fx.tokenService.EXPECT().IssueTokenPair(ctx, accountID, "test@example.com").Return(pair, nil)
	fx.hasher.EXPECT().Hash("new-refresh").Return("new-refresh-hash", nil)

	got, err := fx.service.RefreshTokens(ctx, &usecase.RefreshInput{
		AccountID:    accountID,
		RefreshToken: "presented-refresh",
	})

	require.NoError(t, err)
	assert.Equal(t, pair, got)
}

// A refresh token can be spent exactly once. After rotation the stored
// hash no longer matches the old token, so replaying it is denied.
func TestAuthService_RefreshTokens_ReplayedTokenDenied(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()
	rotatedHash := "rotated-refresh-hash"
	account := &entity.Account{
		ID:               accountID,
		Email:            "test@example.com",
		RefreshTokenHash: &rotatedHash,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().LockByID(ctx, accountID).Return(nil)
			mockAccountRepo.EXPECT().FindByID(ctx, accountID).Return(account, nil)

			return fn(mockFactory)
		})
	fx.hasher.EXPECT().Check("stale-refresh", rotatedHash).Return(false)

	got, err := fx.service.RefreshTokens(ctx, &usecase.RefreshInput{
		AccountID:    accountID,
		RefreshToken: "stale-refresh",
	})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
	fx.tokenService.AssertNotCalled(t, "IssueTokenPair", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_RefreshTokens_NoActiveSession(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:    accountID,
		Email: "test@example.com",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().LockByID(ctx, accountID).Return(nil)
			mockAccountRepo.EXPECT().FindByID(ctx, accountID).Return(account, nil)

			return fn(mockFactory)
		})

	got, err := fx.service.RefreshTokens(ctx, &usecase.RefreshInput{
		AccountID:    accountID,
		RefreshToken: "any-refresh",
	})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
	fx.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}

func TestAuthService_RefreshTokens_AccountGone(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().LockByID(ctx, accountID).Return(repository.ErrAccountNotFound)

			return fn(mockFactory)
		})

	got, err := fx.service.RefreshTokens(ctx, &usecase.RefreshInput{
		AccountID:    accountID,
		RefreshToken: "any-refresh",
	})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrAccessDenied)
}

func TestAuthService_RefreshTokens_IssueFailureKeepsError(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()
	oldHash := "old-refresh-hash"
	account := &entity.Account{
		ID:               accountID,
		Email:            "test@example.com",
		RefreshTokenHash: &oldHash,
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().LockByID(ctx, accountID).Return(nil)
			mockAccountRepo.EXPECT().FindByID(ctx, accountID).Return(account, nil)

			return fn(mockFactory)
		})
	fx.hasher.EXPECT().Check("presented-refresh", oldHash).Return(true)
	fx.tokenService.EXPECT().
		IssueTokenPair(ctx, accountID, "test@example.com").
		Return(nil, errors.New("signing failed"))

	got, err := fx.service.RefreshTokens(ctx, &usecase.RefreshInput{
		AccountID:    accountID,
		RefreshToken: "presented-refresh",
	})

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}

func TestAuthService_Logout_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.accountRepo.EXPECT().
		UpdateRefreshTokenHash(ctx, accountID, (*string)(nil)).
		Return(nil)

	err := fx.service.Logout(ctx, accountID)

	require.NoError(t, err)
}

// Logout is idempotent: clearing an already-clean session, or a session
// for a row that has since vanished, still succeeds.
func TestAuthService_Logout_Idempotent(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.accountRepo.EXPECT().
		UpdateRefreshTokenHash(ctx, accountID, (*string)(nil)).
		Return(nil).
		Twice()

	require.NoError(t, fx.service.Logout(ctx, accountID))
	require.NoError(t, fx.service.Logout(ctx, accountID))
}

func TestAuthService_Logout_AccountGone(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.accountRepo.EXPECT().
		UpdateRefreshTokenHash(ctx, accountID, (*string)(nil)).
		Return(repository.ErrAccountNotFound)

	err := fx.service.Logout(ctx, accountID)

	require.NoError(t, err)
}
