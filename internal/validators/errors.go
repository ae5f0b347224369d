package validators

import (
	"errors"
	"strings"

	"github.com/seguikro/cotisations/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// ErrValidation matches every [ValidationErrors] value.
	ErrValidation = errors.New("validation failed")
)

// ValidationErrors collects the field-level failures of one request.
type ValidationErrors []models.FieldError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, ", ")
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns the collected errors for the response envelope.
func (e ValidationErrors) Fields() []models.FieldError {
	return e
}
