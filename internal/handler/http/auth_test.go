package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sessionCookie(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	for _, c := range (&http.Response{Header: header}).Cookies() {
		if c.Name == tokenCookie {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", tokenCookie)
	return nil
}

// ── register / login ──

func TestRegister_IssuesTokenAndCookie(t *testing.T) {
	h, mocks := newTestHandler(t)
	req := models.RegisterRequest{Name: "Ada", Surname: "Lovelace", Email: "ada@example.com", Password: "secret1", Phone: "0123456789"}

	gomock.InOrder(
		mocks.auth.EXPECT().Register(gomock.Any(), req).Return(member, nil),
		mocks.auth.EXPECT().CreateToken(gomock.Any(), member).Return(models.Token{SignedString: "signed.jwt"}, nil),
	)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/register", "", req)

	require.Equal(t, http.StatusCreated, rr.Code)
	env := decode(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "signed.jwt", env.Token)

	var user models.User
	decodeData(t, env, &user)
	assert.Equal(t, memberID, user.ID)
	assert.NotContains(t, rr.Body.String(), "password")

	cookie := sessionCookie(t, rr.Header())
	assert.Equal(t, "signed.jwt", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{Email: "ada@example.com"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, store.ErrEmailAlreadyExists.Error(), decode(t, rr).Error)
}

func TestLogin_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(m testServices)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: models.LoginRequest{Email: "ada@example.com", Password: "secret1"},
			setup: func(m testServices) {
				m.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(member, nil)
				m.auth.EXPECT().CreateToken(gomock.Any(), member).Return(models.Token{SignedString: "signed.jwt"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong credentials",
			body: models.LoginRequest{Email: "ada@example.com", Password: "nope"},
			setup: func(m testServices) {
				m.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{}, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid credentials",
		},
		{
			name:       "malformed json",
			body:       strings.NewReader(`{"email":`),
			setup:      func(testServices) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON was passed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mocks := newTestHandler(t)
			tt.setup(mocks)

			rr := serve(t, h, http.MethodPost, "/api/v1/auth/login", "", tt.body)

			require.Equal(t, tt.wantStatus, rr.Code)
			env := decode(t, rr)
			assert.Equal(t, tt.wantError, env.Error)
			assert.Equal(t, tt.wantError == "", env.Success)
		})
	}
}

func TestLogin_SecureCookieInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.App.Environment = config.EnvProduction
	h, mocks := newTestHandlerWithConfig(t, cfg)
	mocks.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(member, nil)
	mocks.auth.EXPECT().CreateToken(gomock.Any(), member).Return(models.Token{SignedString: "signed.jwt"}, nil)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, sessionCookie(t, rr.Header()).Secure)
}

// ── session ──

func TestLogout_ReplacesCookie(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.signedIn()

	rr := serve(t, h, http.MethodGet, "/api/v1/auth/logout", memberToken, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode(t, rr).Success)
	assert.Equal(t, loggedOutToken, sessionCookie(t, rr.Header()).Value)
}

func TestMe_ReturnsIdentity(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.signedIn()

	rr := serve(t, h, http.MethodGet, "/api/v1/auth/me", adminToken, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var user models.User
	decodeData(t, decode(t, rr), &user)
	assert.Equal(t, admin.ID, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUpdateDetails(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.signedIn()

	update := models.ProfileUpdate{Phone: "0699999999"}
	updated := member
	updated.Phone = update.Phone
	mocks.auth.EXPECT().UpdateProfile(gomock.Any(), member, update).Return(updated, nil)

	rr := serve(t, h, http.MethodPut, "/api/v1/auth/updatedetails", memberToken, update)

	require.Equal(t, http.StatusOK, rr.Code)
	var user models.User
	decodeData(t, decode(t, rr), &user)
	assert.Equal(t, "0699999999", user.Phone)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.signedIn()
	mocks.auth.EXPECT().ChangePassword(gomock.Any(), member, gomock.Any()).Return(models.User{}, service.ErrWrongPassword)

	rr := serve(t, h, http.MethodPut, "/api/v1/auth/updatepassword", memberToken,
		models.PasswordChangeRequest{CurrentPassword: "bad", NewPassword: "secret2"})

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "password is incorrect", decode(t, rr).Error)
}

func TestUpdatePassword_IssuesNewToken(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.signedIn()
	mocks.auth.EXPECT().ChangePassword(gomock.Any(), member, gomock.Any()).Return(member, nil)
	mocks.auth.EXPECT().CreateToken(gomock.Any(), member).Return(models.Token{SignedString: "fresh.jwt"}, nil)

	rr := serve(t, h, http.MethodPut, "/api/v1/auth/updatepassword", memberToken,
		models.PasswordChangeRequest{CurrentPassword: "secret1", NewPassword: "secret2"})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "fresh.jwt", decode(t, rr).Token)
}

// ── password recovery ──

func TestForgotPassword_DoesNotEchoToken(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().
		ForgotPassword(gomock.Any(), models.ForgotPasswordRequest{Email: "ada@example.com"}, "https://dues.example.org/api/v1/auth/resetpassword").
		Return(nil)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/forgotpassword", "", models.ForgotPasswordRequest{Email: "ada@example.com"})

	require.Equal(t, http.StatusOK, rr.Code)
	env := decode(t, rr)
	assert.True(t, env.Success)
	assert.Empty(t, env.Token)
	assert.JSONEq(t, `"Email sent"`, string(env.Data))
}

func TestForgotPassword_IgnoresRequestHost(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().
		ForgotPassword(gomock.Any(), gomock.Any(), "https://dues.example.org/api/v1/auth/resetpassword").
		Return(nil)

	body, err := json.Marshal(models.ForgotPasswordRequest{Email: "ada@example.com"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgotpassword", bytes.NewReader(body))
	req.Host = "evil.example"
	req.Header.Set("X-Forwarded-Host", "evil.example")
	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestForgotPassword_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "unknown email", err: service.ErrEmailNotFound, wantStatus: http.StatusNotFound, wantError: "there is no user with that email"},
		{name: "delivery failed", err: service.ErrResetNotDelivered, wantStatus: http.StatusInternalServerError, wantError: "email could not be sent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mocks := newTestHandler(t)
			mocks.auth.EXPECT().ForgotPassword(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.err)

			rr := serve(t, h, http.MethodPost, "/api/v1/auth/forgotpassword", "", models.ForgotPasswordRequest{Email: "x@example.com"})

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantError, decode(t, rr).Error)
		})
	}
}

func TestResetPassword_TokenFromPath(t *testing.T) {
	h, mocks := newTestHandler(t)
	gomock.InOrder(
		mocks.auth.EXPECT().
			ResetPassword(gomock.Any(), models.ResetPasswordRequest{Token: "abc123", Password: "secret2"}).
			Return(member, nil),
		mocks.auth.EXPECT().CreateToken(gomock.Any(), member).Return(models.Token{SignedString: "signed.jwt"}, nil),
	)

	rr := serve(t, h, http.MethodPut, "/api/v1/auth/resetpassword/abc123", "", map[string]string{"password": "secret2"})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "signed.jwt", decode(t, rr).Token)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().ResetPassword(gomock.Any(), gomock.Any()).Return(models.User{}, service.ErrInvalidResetToken)

	rr := serve(t, h, http.MethodPut, "/api/v1/auth/resetpassword/expired", "", map[string]string{"password": "secret2"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid token", decode(t, rr).Error)
}
