package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seguikro/cotisations/internal/attachment"
	"github.com/seguikro/cotisations/internal/policy"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: validators.ValidationErrors{{Field: "email", Message: "bad"}}, wantStatus: http.StatusBadRequest},
		{name: "invalid json", err: fmt.Errorf("%w: eof", ErrInvalidJSON), wantStatus: http.StatusBadRequest},
		{name: "conflict", err: fmt.Errorf("error creating user: %w", store.ErrEmailAlreadyExists), wantStatus: http.StatusBadRequest},
		{name: "not pending", err: service.ErrCotisationNotPending, wantStatus: http.StatusBadRequest},
		{name: "cotisation already linked", err: service.ErrCotisationLinked, wantStatus: http.StatusBadRequest},
		{name: "bad credentials", err: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: policy.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", store.ErrGroupNotFound), wantStatus: http.StatusNotFound},
		{name: "query not found", err: query.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "attachments disabled", err: attachment.ErrAttachmentsDisabled, wantStatus: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusFromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "sentinel hides wrapping", err: fmt.Errorf("error updating user: %w", store.ErrUserNotFound), want: "user not found"},
		{name: "detailed keeps wrapping", err: fmt.Errorf("%w: colour", query.ErrUnknownField), want: "unknown field: colour"},
		{name: "internal", err: errors.New("pq: connection refused"), want: "server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, target := statusFromError(tt.err)
			assert.Equal(t, tt.want, publicMessage(tt.err, target))
		})
	}
}

func TestWriteError_ListsInvalidFields(t *testing.T) {
	err := validators.ValidationErrors{
		{Field: "email", Message: "please add a valid email"},
		{Field: "password", Message: "password must be at least 6 characters"},
	}

	rr := httptest.NewRecorder()
	writeError(rr, httptest.NewRequest(http.MethodPost, "/", nil), err)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decode(t, rr)
	assert.False(t, env.Success)
	assert.Equal(t, "please add a valid email, password must be at least 6 characters", env.Error)
	assert.Equal(t, []models.FieldError(err), env.Errors)
}
