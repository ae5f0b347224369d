package http

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/models"
)

const (
	tokenCookie = "token"
	// loggedOutToken is the cookie value left behind by logout.
	loggedOutToken = "none"
)

// adminRoles may access the administrative routes.
var adminRoles = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}

// authenticate resolves the caller from a bearer token, falling back to
// the session cookie when no bearer header is sent. The current user is
// reloaded from storage and attached to the request context; missing,
// invalid or expired tokens and deactivated users get 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("authentication failed")
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithIdentity(ctx, user)))
	})
}

// authorize admits callers whose role is one of roles. It must run after
// authenticate.
func (h *Handler) authorize(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				writeError(w, r, ErrMissingToken)
				return
			}

			if !slices.Contains(roles, identity.Role) {
				message := fmt.Sprintf("user role %s is not authorized to access this route", identity.Role)
				writeErrorMessage(w, r, message, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest extracts the raw token from an "Authorization: Bearer"
// header or, when absent, from the session cookie.
func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer") {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return "", ErrMissingToken
		}
		return token, nil
	}

	cookie, err := r.Cookie(tokenCookie)
	if err != nil || cookie.Value == "" || cookie.Value == loggedOutToken {
		return "", ErrMissingToken
	}
	return cookie.Value, nil
}
