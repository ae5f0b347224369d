package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/internal/validators"
	"github.com/seguikro/cotisations/models"
)

func writeData(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, models.Response{Success: true, Data: data}, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

// writeList writes an unpaginated result with its count.
func writeList(w http.ResponseWriter, r *http.Request, docs []query.Document) {
	if docs == nil {
		docs = []query.Document{}
	}
	count := len(docs)
	if _, err := utils.WriteJSON(w, models.Response{Success: true, Count: &count, Data: docs}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

func writePage(w http.ResponseWriter, r *http.Request, page query.Page) {
	count := len(page.Documents)
	resp := models.Response{
		Success:    true,
		Count:      &count,
		Pagination: &page.Pagination,
		Data:       page.Documents,
	}
	if _, err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

// writeError maps err to its status and writes the failure envelope.
// Validation failures list every invalid field.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status, target := statusFromError(err)
	resp := models.ErrorResponse{Error: publicMessage(err, target)}

	var verrs validators.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = verrs.Error()
		resp.Errors = verrs.Fields()
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	if _, werr := utils.WriteJSON(w, resp, status); werr != nil {
		log.Err(werr).Msg("error writing response")
	}
}

// writeErrorMessage writes a failure envelope with a fixed message.
func writeErrorMessage(w http.ResponseWriter, r *http.Request, message string, status int) {
	if _, err := utils.WriteJSON(w, models.ErrorResponse{Error: message}, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that validation reports the missing fields.
func decodeJSON(r *http.Request, dst any) error {
	if err := utils.ReadJSON(r, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, ErrRouteNotFound)
}

// identityFrom returns the caller attached by authenticate. Routes
// behind authenticate always have one; elsewhere the zero user is
// returned and every policy check denies it.
func identityFrom(r *http.Request) models.User {
	identity, _ := utils.GetIdentityFromContext(r.Context())
	return identity
}
