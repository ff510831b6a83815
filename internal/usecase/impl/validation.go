// Package impl contains the implementation of the application's business logic.
package impl

import (
	"log/slog"
	"strconv"

	domainerrors "ormlab/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the struct tags of an input DTO.
func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return logger
}

func formatID(id int64) string {
	return "id " + strconv.FormatInt(id, 10)
}
