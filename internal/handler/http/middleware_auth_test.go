package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── tokenFromRequest ──

func TestTokenFromRequest_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		cookie    string
		wantToken string
		wantErr   error
	}{
		{name: "bearer header", header: "Bearer abc.def.ghi", wantToken: "abc.def.ghi"},
		{name: "cookie", cookie: "cookie-token", wantToken: "cookie-token"},
		{name: "header wins over cookie", header: "Bearer header-token", cookie: "cookie-token", wantToken: "header-token"},
		{name: "bearer without token", header: "Bearer", wantErr: ErrMissingToken},
		{name: "non bearer scheme falls back to cookie", header: "Basic dXNlcjpwYXNz", cookie: "cookie-token", wantToken: "cookie-token"},
		{name: "logged out cookie", cookie: loggedOutToken, wantErr: ErrMissingToken},
		{name: "nothing", wantErr: ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: tokenCookie, Value: tt.cookie})
			}

			token, err := tokenFromRequest(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ── authenticate ──

func runAuthenticate(h *Handler, req *http.Request) (*httptest.ResponseRecorder, *models.User) {
	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := utils.GetIdentityFromContext(r.Context())
		if ok {
			seen = &identity
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	h.authenticate(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestAuthenticate_AttachesIdentity(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().Authenticate(gomock.Any(), "valid").Return(member, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rr, seen := runAuthenticate(h, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, member, *seen)
}

func TestAuthenticate_AcceptsCookie(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.auth.EXPECT().Authenticate(gomock.Any(), "from-cookie").Return(admin, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "from-cookie"})
	rr, seen := runAuthenticate(h, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, adminID, seen.ID)
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "invalid token", err: service.ErrTokenIsExpiredOrInvalid, message: "not authorized to access this route"},
		{name: "deactivated user", err: service.ErrUserInactive, message: "user account is deactivated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mocks := newTestHandler(t)
			mocks.auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(models.User{}, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rr, seen := runAuthenticate(h, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Nil(t, seen)
			assert.Equal(t, tt.message, decode(t, rr).Error)
		})
	}
}

func TestAuthenticate_MissingTokenSkipsService(t *testing.T) {
	h, _ := newTestHandler(t)

	rr, seen := runAuthenticate(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, seen)
}

// ── authorize ──

func TestAuthorize_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		identity   *models.User
		wantStatus int
	}{
		{name: "admin", identity: &admin, wantStatus: http.StatusNoContent},
		{name: "super admin", identity: &models.User{ID: adminID, Role: models.RoleSuperAdmin}, wantStatus: http.StatusNoContent},
		{name: "member", identity: &member, wantStatus: http.StatusForbidden},
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.identity != nil {
				req = req.WithContext(utils.WithIdentity(req.Context(), *tt.identity))
			}
			rr := httptest.NewRecorder()
			h.authorize(adminRoles...)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
