package http

import (
	"errors"
	"net/http"

	"github.com/seguikro/cotisations/internal/attachment"
	"github.com/seguikro/cotisations/internal/policy"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/service"
	"github.com/seguikro/cotisations/internal/store"
	"github.com/seguikro/cotisations/internal/validators"
)

var errorStatusMap = map[error]int{
	validators.ErrValidation:           http.StatusBadRequest,
	ErrInvalidJSON:                     http.StatusBadRequest,
	ErrMissingFile:                     http.StatusBadRequest,
	service.ErrCotisationNotPending:    http.StatusBadRequest,
	service.ErrCotisationLinked:        http.StatusBadRequest,
	service.ErrCannotRemoveOwner:       http.StatusBadRequest,
	service.ErrInvalidResetToken:       http.StatusBadRequest,
	service.ErrInvalidPeriod:           http.StatusBadRequest,
	query.ErrUnknownField:              http.StatusBadRequest,
	query.ErrUnknownOperator:           http.StatusBadRequest,
	query.ErrInvalidValue:              http.StatusBadRequest,
	attachment.ErrUnsupportedFile:      http.StatusBadRequest,
	attachment.ErrFileTooLarge:         http.StatusBadRequest,
	store.ErrReferenceNotFound:         http.StatusBadRequest,
	store.ErrConstraintViolation:       http.StatusBadRequest,
	store.ErrEmailAlreadyExists:        http.StatusBadRequest,
	store.ErrGroupNameAlreadyExists:    http.StatusBadRequest,
	store.ErrCotisationAlreadyExists:   http.StatusBadRequest,
	store.ErrAlreadyGroupMember:        http.StatusBadRequest,
	store.ErrNotGroupMember:            http.StatusBadRequest,
	store.ErrDuplicateValue:            http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrUserInactive:            http.StatusUnauthorized,
	ErrMissingToken:                    http.StatusUnauthorized,

	policy.ErrForbidden: http.StatusForbidden,

	store.ErrUserNotFound:        http.StatusNotFound,
	store.ErrGroupNotFound:       http.StatusNotFound,
	store.ErrCotisationNotFound:  http.StatusNotFound,
	store.ErrTransactionNotFound: http.StatusNotFound,
	query.ErrNotFound:            http.StatusNotFound,
	service.ErrEmailNotFound:     http.StatusNotFound,
	ErrRouteNotFound:             http.StatusNotFound,

	service.ErrResetNotDelivered:      http.StatusInternalServerError,
	attachment.ErrAttachmentsDisabled: http.StatusServiceUnavailable,
}

// detailedErrors keep their wrapped message in responses since the
// wrapping names the offending value.
var detailedErrors = []error{
	query.ErrUnknownField,
	query.ErrUnknownOperator,
	query.ErrInvalidValue,
	service.ErrInvalidPeriod,
	store.ErrCotisationAlreadyExists,
	attachment.ErrFileTooLarge,
}

// statusFromError returns the HTTP status for err together with the
// sentinel it matched. Unknown errors yield 500 and a nil sentinel.
func statusFromError(err error) (int, error) {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status, target
		}
	}
	return http.StatusInternalServerError, nil
}

// publicMessage is the client-facing text of err. Internal failures are
// never described beyond "server error".
func publicMessage(err, target error) string {
	if target == nil {
		return "server error"
	}
	for _, detailed := range detailedErrors {
		if target == detailed {
			return err.Error()
		}
	}
	return target.Error()
}
