package gormstore

import (
	"strings"

	"ormlab/internal/errors"

	"gorm.io/gorm"
)

// The gorm sentinels are produced when the dialector translates driver
// errors. Drivers without a translator are matched on their message and SQLSTATE.

func IsUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func IsForeignKeyConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "23503")
}

func IsNotNullConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "null value") ||
		strings.Contains(msg, "not null constraint") ||
		strings.Contains(msg, "23502")
}

func IsCheckConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "check constraint") ||
		strings.Contains(msg, "23514")
}
