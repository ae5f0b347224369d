package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/mock"
	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSignKey  = "test-sign-key"
	testIssuer   = "cotisations-test"
	testPassword = "secret1"
)

func newTestAuthSvc(t *testing.T) (service.AuthService, *mock.MockUserRepository, *mock.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)

	users := mock.NewMockUserRepository(ctrl)
	notify := mock.NewMockNotifier(ctrl)

	cfg := config.App{
		TokenSignKey:       testSignKey,
		TokenIssuer:        testIssuer,
		TokenDuration:      time.Hour,
		ResetTokenDuration: 10 * time.Minute,
		BcryptCost:         bcrypt.MinCost,
	}

	svc := service.NewAuthService(users, notify, validators.NewRequestValidator(), cfg, logger.Nop())
	return svc, users, notify
}

func withPassword(t *testing.T, u models.User, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u.PasswordHash = string(hash)
	return u
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "Ada", u.Name)
			assert.Equal(t, models.RoleMember, u.Role)
			assert.True(t, u.Active)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(testPassword)))
			u.ID = memberID
			return u, nil
		},
	)

	user, err := svc.Register(ctx, models.RegisterRequest{
		Name: " Ada ", Surname: "Lovelace", Email: "ada@example.com",
		Password: testPassword, Phone: "0123456789",
	})

	require.NoError(t, err)
	assert.Equal(t, memberID, user.ID)
}

func TestAuthService_Register_InvalidPayload(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "ada@"})

	assert.ErrorIs(t, err, validators.ErrValidation)
}

func TestAuthService_Register_PasswordOverBcryptLimit(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Ada", Surname: "Lovelace", Email: "ada@example.com",
		Password: strings.Repeat("a", 73), Phone: "0123456789",
	})

	require.ErrorIs(t, err, validators.ErrValidation)
	var verrs validators.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, validators.FieldPassword, verrs[0].Field)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)

	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Ada", Surname: "Lovelace", Email: "ada@example.com",
		Password: testPassword, Phone: "0123456789",
	})

	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	inactive := withPassword(t, member, testPassword)
	inactive.Active = false

	tests := []struct {
		name     string
		found    models.User
		findErr  error
		password string
		wantErr  error
	}{
		{name: "success", found: withPassword(t, member, testPassword), password: testPassword},
		{name: "unknown email", findErr: store.ErrUserNotFound, password: testPassword, wantErr: service.ErrInvalidCredentials},
		{name: "wrong password", found: withPassword(t, member, testPassword), password: "nope-nope", wantErr: service.ErrInvalidCredentials},
		{name: "deactivated account", found: inactive, password: testPassword, wantErr: service.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newTestAuthSvc(t)
			users.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(tt.found, tt.findErr)

			user, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: tt.password})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, memberID, user.ID)
		})
	}
}

func TestAuthService_Login_StorageFailure(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	boom := errors.New("connection reset")
	users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, boom)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@example.com", Password: testPassword})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestAuthService_CreateTokenThenAuthenticate(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, member)
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	users.EXPECT().FindByID(ctx, memberID).Return(member, nil)

	user, err := svc.Authenticate(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, member, user)
}

func TestAuthService_Authenticate_Failures(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, service.ErrTokenIsExpiredOrInvalid)

	token, err := svc.CreateToken(ctx, member)
	require.NoError(t, err)

	users.EXPECT().FindByID(ctx, memberID).Return(models.User{}, store.ErrUserNotFound)
	_, err = svc.Authenticate(ctx, token.SignedString)
	assert.ErrorIs(t, err, service.ErrTokenIsExpiredOrInvalid)

	inactive := member
	inactive.Active = false
	users.EXPECT().FindByID(ctx, memberID).Return(inactive, nil)
	_, err = svc.Authenticate(ctx, token.SignedString)
	assert.ErrorIs(t, err, service.ErrUserInactive)
}

func TestAuthService_ParseToken_WrongIssuer(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	foreign, err := utils.GenerateJWTToken("someone-else", memberID, models.RoleAdmin, time.Hour, testSignKey)
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), foreign.SignedString)
	assert.ErrorIs(t, err, service.ErrTokenIsExpiredOrInvalid)
}

// ── Profile and password ─────────────────────────────────────────────────────

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	update := models.ProfileUpdate{Phone: "0612345678"}

	users.EXPECT().UpdateProfile(gomock.Any(), memberID, update).Return(member, nil)

	_, err := svc.UpdateProfile(context.Background(), member, update)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), member, models.ProfileUpdate{Phone: "12"})
	assert.ErrorIs(t, err, validators.ErrValidation)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	stored := withPassword(t, member, testPassword)

	users.EXPECT().FindByID(gomock.Any(), memberID).Return(stored, nil)
	users.EXPECT().UpdatePassword(gomock.Any(), memberID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, hash string) error {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new")))
			return nil
		},
	)

	_, err := svc.ChangePassword(context.Background(), member, models.PasswordChangeRequest{
		CurrentPassword: testPassword, NewPassword: "brand-new",
	})
	require.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)

	users.EXPECT().FindByID(gomock.Any(), memberID).Return(withPassword(t, member, testPassword), nil)

	_, err := svc.ChangePassword(context.Background(), member, models.PasswordChangeRequest{
		CurrentPassword: "guess-again", NewPassword: "brand-new",
	})
	assert.ErrorIs(t, err, service.ErrWrongPassword)
}

// ── Password reset ───────────────────────────────────────────────────────────

func TestAuthService_ForgotPassword_DeliversLinkForStoredDigest(t *testing.T) {
	svc, users, notify := newTestAuthSvc(t)
	ctx := context.Background()
	base := "https://dues.example.com/api/v1/auth/resetpassword/"

	var storedHash string
	users.EXPECT().FindByEmail(ctx, "ada@example.com").Return(member, nil)
	users.EXPECT().SetResetToken(ctx, memberID, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, hash string, expire time.Time) error {
			storedHash = hash
			assert.WithinDuration(t, time.Now().Add(10*time.Minute), expire, time.Minute)
			return nil
		},
	)
	notify.EXPECT().NotifyPasswordReset(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event models.PasswordResetEvent) error {
			require.True(t, strings.HasPrefix(event.ResetURL, base))
			token := strings.TrimPrefix(event.ResetURL, base)

			assert.NotEmpty(t, token)
			assert.NotEqual(t, token, storedHash)
			assert.Equal(t, utils.HashString(token, testSignKey), storedHash)
			assert.Equal(t, "Ada Lovelace", event.Name)
			return nil
		},
	)

	require.NoError(t, svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "ada@example.com"}, base))
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "nobody@example.com"}, "http://x")

	assert.ErrorIs(t, err, service.ErrEmailNotFound)
}

func TestAuthService_ForgotPassword_DeliveryFailureClearsToken(t *testing.T) {
	svc, users, notify := newTestAuthSvc(t)

	gomock.InOrder(
		users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(member, nil),
		users.EXPECT().SetResetToken(gomock.Any(), memberID, gomock.Any(), gomock.Any()).Return(nil),
		notify.EXPECT().NotifyPasswordReset(gomock.Any(), gomock.Any()).Return(errors.New("broker down")),
		users.EXPECT().ClearResetToken(gomock.Any(), memberID).Return(nil),
	)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ada@example.com"}, "http://x")

	assert.ErrorIs(t, err, service.ErrResetNotDelivered)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)

	users.EXPECT().FindByResetToken(gomock.Any(), utils.HashString("raw-token", testSignKey), gomock.Any()).Return(member, nil)
	users.EXPECT().UpdatePassword(gomock.Any(), memberID, gomock.Any()).Return(nil)

	user, err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "raw-token", Password: "brand-new"})

	require.NoError(t, err)
	assert.Nil(t, user.ResetPasswordToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("brand-new")))
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	users.EXPECT().FindByResetToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "stale", Password: "brand-new"})

	assert.ErrorIs(t, err, service.ErrInvalidResetToken)
}
