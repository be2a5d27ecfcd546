// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	deliverycontext "stockroom/internal/delivery/context"
	"stockroom/internal/domain/entity"
	domainerrors "stockroom/internal/domain/errors"
	"stockroom/internal/domain/repository"
	"stockroom/internal/domain/service"
	"stockroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const minPasswordLength = 6

// authService implements the AuthUsecase interface. It owns the
// credential lifecycle: register, login, refresh and logout.
type authService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.CredentialHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.CredentialHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account with a hashed password and no active session.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AccountView, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// The binding layer validates the full DTO, including the
	// confirmPassword match; the password policy is re-checked here so
	// the usecase never trusts its caller with credential material.
	if err := validatePassword(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	account := &entity.Account{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		srv.log(ctx).Warn("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create account during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", account.ID))

	// Return the projection, never the entity carrying the hashes.
	return usecase.NewAccountView(account), nil
}

// Login verifies credentials and issues a fresh token pair. The stored
// refresh hash is overwritten only after both tokens have been signed.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*service.TokenPair, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Unknown email and wrong password share one error so the
			// endpoint cannot be used to enumerate accounts.
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	pair, err := srv.tokenService.IssueTokenPair(ctx, account.ID, account.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens during login", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, "failed to issue tokens during login")
	}

	if err := srv.storeRefreshTokenHash(ctx, srv.accountRepo, account.ID, pair.RefreshToken); err != nil {
		srv.log(ctx).Error("Failed to persist refresh token during login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist refresh token during login")
	}

	srv.log(ctx).Debug("Login completed", slog.Any("accountID", account.ID))

	return pair, nil
}

// RefreshTokens exchanges a refresh token for a new pair, rotating the
// stored hash. The whole exchange runs under a row lock so two refresh
// attempts racing on the same account cannot both succeed with the old
// hash.
func (srv *authService) RefreshTokens(ctx context.Context, input *usecase.RefreshInput) (*service.TokenPair, error) {
	srv.log(ctx).Debug("Starting token refresh", slog.Any("accountID", input.AccountID))

	var pair *service.TokenPair
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := accountRepo.LockByID(ctx, input.AccountID); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrAccessDenied, "account not found during refresh")
			}

			return errors.Wrap(err, "failed to lock account for refresh")
		}

		account, err := accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			return errors.Wrap(err, "failed to load account for refresh")
		}

		// No stored hash means the account never logged in or already
		// logged out; a mismatch means the token is forged or was
		// rotated out by an earlier refresh. Both look identical to the
		// caller.
		if !account.HasSession() {
			return errors.Wrap(domainerrors.ErrAccessDenied, "no active session")
		}
		if !srv.hasher.Check(input.RefreshToken, *account.RefreshTokenHash) {
			return errors.Wrap(domainerrors.ErrAccessDenied, "refresh token mismatch")
		}

		issued, err := srv.tokenService.IssueTokenPair(ctx, account.ID, account.Email)
		if err != nil {
			return errors.Wrap(domainerrors.ErrTokenIssueFailed, "failed to issue tokens during refresh")
		}

		// Rotate: overwriting the stored hash invalidates the token
		// that was just presented.
		if err := srv.storeRefreshTokenHash(ctx, accountRepo, account.ID, issued.RefreshToken); err != nil {
			return errors.Wrap(err, "failed to rotate refresh token hash")
		}

		pair = issued

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Token refresh failed", slog.Any("accountID", input.AccountID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Token refresh completed", slog.Any("accountID", input.AccountID))

	return pair, nil
}

// Logout unconditionally clears the stored refresh token hash.
// Logging out an account that has no session is not an error.
func (srv *authService) Logout(ctx context.Context, accountID uuid.UUID) error {
	srv.log(ctx).Info("Logging out", slog.Any("accountID", accountID))

	if err := srv.accountRepo.UpdateRefreshTokenHash(ctx, accountID, nil); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// The bearer was verified, so the account existed moments
			// ago; treat a vanished row as an already-clean session.
			return nil
		}
		srv.log(ctx).Error("Failed to clear refresh token hash", slog.Any("accountID", accountID), slog.Any("error", err))

		return errors.Wrap(err, "failed to clear refresh token hash")
	}

	return nil
}

// storeRefreshTokenHash hashes the raw refresh token and persists the
// digest onto the account, overwriting any prior session.
func (srv *authService) storeRefreshTokenHash(ctx context.Context, accountRepo repository.AccountRepository, accountID uuid.UUID, refreshToken string) error {
	hash, err := srv.hasher.Hash(refreshToken)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash refresh token")
	}

	return accountRepo.UpdateRefreshTokenHash(ctx, accountID, &hash)
}

// validatePassword enforces the password policy: at least six
// characters, no whitespace anywhere.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domainerrors.ErrValidationFailed.WrapMessage("password must be at least 6 characters long")
	}
	if strings.IndexFunc(password, unicode.IsSpace) >= 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("password cannot contain spaces")
	}

	return nil
}
