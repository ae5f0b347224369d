package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeCase struct {
	method string
	path   string
}

// protectedRoutes must all exist and reject anonymous callers.
var protectedRoutes = []routeCase{
	// auth
	{http.MethodGet, "/api/v1/auth/logout"},
	{http.MethodGet, "/api/v1/auth/me"},
	{http.MethodPut, "/api/v1/auth/updatedetails"},
	{http.MethodPut, "/api/v1/auth/updatepassword"},
	// cotisations
	{http.MethodGet, "/api/v1/cotisations"},
	{http.MethodPost, "/api/v1/cotisations"},
	{http.MethodGet, "/api/v1/cotisations/" + cotisID},
	{http.MethodPut, "/api/v1/cotisations/" + cotisID},
	{http.MethodDelete, "/api/v1/cotisations/" + cotisID},
	{http.MethodPatch, "/api/v1/cotisations/" + cotisID + "/status"},
	{http.MethodGet, "/api/v1/cotisations/member/" + memberID},
	{http.MethodGet, "/api/v1/cotisations/period/March/2024"},
	{http.MethodPost, "/api/v1/cotisations/report"},
	// groups
	{http.MethodGet, "/api/v1/groups"},
	{http.MethodPost, "/api/v1/groups"},
	{http.MethodGet, "/api/v1/groups/" + groupID},
	{http.MethodPut, "/api/v1/groups/" + groupID},
	{http.MethodDelete, "/api/v1/groups/" + groupID},
	{http.MethodPut, "/api/v1/groups/" + groupID + "/members/" + memberID},
	{http.MethodDelete, "/api/v1/groups/" + groupID + "/members/" + memberID},
	{http.MethodGet, "/api/v1/groups/member/" + memberID},
	// transactions
	{http.MethodGet, "/api/v1/transactions"},
	{http.MethodPost, "/api/v1/transactions"},
	{http.MethodGet, "/api/v1/transactions/" + txID},
	{http.MethodPut, "/api/v1/transactions/" + txID},
	{http.MethodDelete, "/api/v1/transactions/" + txID},
	{http.MethodPost, "/api/v1/transactions/" + txID + "/attachment"},
	{http.MethodGet, "/api/v1/transactions/member/" + memberID},
	{http.MethodGet, "/api/v1/transactions/group/" + groupID},
	{http.MethodPost, "/api/v1/transactions/report"},
}

// adminRoutes reject authenticated members.
var adminRoutes = []routeCase{
	{http.MethodGet, "/api/v1/cotisations"},
	{http.MethodPatch, "/api/v1/cotisations/" + cotisID + "/status"},
	{http.MethodGet, "/api/v1/cotisations/period/March/2024"},
	{http.MethodPost, "/api/v1/cotisations/report"},
	{http.MethodPost, "/api/v1/groups"},
	{http.MethodPut, "/api/v1/groups/" + groupID},
	{http.MethodDelete, "/api/v1/groups/" + groupID},
	{http.MethodPut, "/api/v1/groups/" + groupID + "/members/" + memberID},
	{http.MethodGet, "/api/v1/transactions"},
	{http.MethodPost, "/api/v1/transactions"},
	{http.MethodPut, "/api/v1/transactions/" + txID},
	{http.MethodDelete, "/api/v1/transactions/" + txID},
	{http.MethodPost, "/api/v1/transactions/" + txID + "/attachment"},
	{http.MethodPost, "/api/v1/transactions/report"},
}

func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, rc := range protectedRoutes {
		t.Run(rc.method+" "+rc.path, func(t *testing.T) {
			rr := serve(t, h, rc.method, rc.path, "", nil)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			env := decode(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, "not authorized to access this route", env.Error)
		})
	}
}

func TestInit_AdminRoutesRejectMembers(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.signedIn()

	for _, rc := range adminRoutes {
		t.Run(rc.method+" "+rc.path, func(t *testing.T) {
			rr := serve(t, h, rc.method, rc.path, memberToken, nil)

			require.Equal(t, http.StatusForbidden, rr.Code)
			assert.Equal(t, "user role member is not authorized to access this route", decode(t, rr).Error)
		})
	}
}

func TestInit_UnknownRoutes(t *testing.T) {
	tests := []routeCase{
		{http.MethodGet, "/api/v1/unknown"},
		{http.MethodGet, "/api/v2/cotisations"},
		{http.MethodPatch, "/api/v1/version"},
		{http.MethodDelete, "/api/v1/auth/login"},
	}

	h, _ := newTestHandler(t)
	for _, rc := range tests {
		t.Run(rc.method+" "+rc.path, func(t *testing.T) {
			rr := serve(t, h, rc.method, rc.path, "", nil)

			require.Equal(t, http.StatusNotFound, rr.Code)
			env := decode(t, rr)
			assert.False(t, env.Success)
			assert.Equal(t, "route not found", env.Error)
		})
	}
}

func TestInit_EchoesTraceID(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := serve(t, h, http.MethodGet, "/", "", nil)

	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}
