package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/notifier"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenBytes is the entropy of a password reset token before hex
// encoding.
const resetTokenBytes = 20

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, the JWT token
// lifecycle and password recovery using a UserRepository for persistence
// and bcrypt for password hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// notifier delivers password reset links out of band.
	notifier notifier.Notifier

	validator validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	// It also keys the digest of stored reset tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	resetTokenDuration time.Duration
	bcryptCost         int

	// now is replaced in tests.
	now func() time.Time

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(
	userRepository store.UserRepository,
	notifier notifier.Notifier,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &authService{
		userRepository:     userRepository,
		notifier:           notifier,
		validator:          validator,
		tokenSignKey:       cfg.TokenSignKey,
		tokenIssuer:        cfg.TokenIssuer,
		tokenDuration:      cfg.TokenDuration,
		resetTokenDuration: cfg.ResetTokenDuration,
		bcryptCost:         cost,
		now:                time.Now,
		logger:             logger,
	}
}

// Register creates a new member account.
//
// Returns the persisted user or:
//   - [validators.ValidationErrors] if the payload is invalid.
//   - [store.ErrEmailAlreadyExists] if the email is taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.Create(ctx, models.User{
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.RoleMember,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return user, nil
}

// Login authenticates an existing user by email and password.
//
// An unknown email, a wrong password and a deactivated account all yield
// [ErrInvalidCredentials] so that callers cannot probe for accounts.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Info().Str("user_id", user.ID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}

	if !user.Active {
		log.Info().Str("user_id", user.ID).Msg("login attempt on deactivated account")
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, user.Role, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// Authenticate parses tokenString and reloads its subject. Role and
// activation state always come from storage, never from the claims.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	token, err := a.ParseToken(ctx, tokenString)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrTokenIsExpiredOrInvalid
		}
		return models.User{}, fmt.Errorf("error loading token subject: %w", err)
	}

	if !user.Active {
		return models.User{}, ErrUserInactive
	}

	return user, nil
}

func (a *authService) UpdateProfile(ctx context.Context, identity models.User, req models.ProfileUpdate) (models.User, error) {
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.UpdateProfile(ctx, identity.ID, req)
	if err != nil {
		return models.User{}, fmt.Errorf("error updating profile: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password before storing the new one.
func (a *authService) ChangePassword(ctx context.Context, identity models.User, req models.PasswordChangeRequest) (models.User, error) {
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.FindByID(ctx, identity.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("error loading user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return models.User{}, ErrWrongPassword
	}

	hash, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return models.User{}, err
	}

	if err = a.userRepository.UpdatePassword(ctx, user.ID, hash); err != nil {
		return models.User{}, fmt.Errorf("error updating password: %w", err)
	}
	user.PasswordHash = hash

	return user, nil
}

// ForgotPassword stores the keyed digest of a fresh reset token and hands
// the link to the notifier. The raw token never leaves this function
// except inside the event. When delivery fails the token is cleared.
func (a *authService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest, resetURLBase string) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return err
	}

	user, err := a.userRepository.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("user search by email failed: %w", err)
	}

	token, err := utils.RandomToken(resetTokenBytes)
	if err != nil {
		return err
	}

	expiresAt := a.now().Add(a.resetTokenDuration)
	if err = a.userRepository.SetResetToken(ctx, user.ID, utils.HashString(token, a.tokenSignKey), expiresAt); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	err = a.notifier.NotifyPasswordReset(ctx, models.PasswordResetEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.FullName(),
		ResetURL:  strings.TrimRight(resetURLBase, "/") + "/" + token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("password reset link was not delivered")
		if clearErr := a.userRepository.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Err(clearErr).Str("user_id", user.ID).Msg("error clearing reset token")
		}
		return fmt.Errorf("%w: %w", ErrResetNotDelivered, err)
	}

	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset
// token. The token is single use.
func (a *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (models.User, error) {
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.FindByResetToken(ctx, utils.HashString(req.Token, a.tokenSignKey), a.now())
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidResetToken
		}
		return models.User{}, fmt.Errorf("error looking up reset token: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	if err = a.userRepository.UpdatePassword(ctx, user.ID, hash); err != nil {
		return models.User{}, fmt.Errorf("error updating password: %w", err)
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil

	return user, nil
}

func (a *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}
