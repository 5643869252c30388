package db

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes the repositories react to.
const (
	CodeUniqueViolation     pq.ErrorCode = "23505"
	CodeForeignKeyViolation pq.ErrorCode = "23503"
	CodeCheckViolation      pq.ErrorCode = "23514"
	CodeExclusionViolation  pq.ErrorCode = "23P01"
)

// ConstraintViolation reports whether err is a postgres error with the given
// SQLSTATE. When constraint is non-empty the constraint name must match too.
func ConstraintViolation(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != code {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func IsUniqueViolation(err error) bool {
	return ConstraintViolation(err, CodeUniqueViolation, "")
}

func IsForeignKeyViolation(err error) bool {
	return ConstraintViolation(err, CodeForeignKeyViolation, "")
}
