package usecase

import (
	"strings"

	"go-cvnetwork-backend/pkg/apperror"
	"go-cvnetwork-backend/pkg/validation"
)

// invalidInput turns a validator error into a 400 with field-level messages
// instead of the raw struct-tag dump.
func invalidInput(err error) error {
	return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
}
