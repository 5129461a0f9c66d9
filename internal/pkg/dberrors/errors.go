package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the registrar reacts to
const (
	CodeUniqueViolation     = "23505"
	CodeConnectionException = "08000"
	CodeConnectionFailure   = "08006"
)

// Constraint names created by the registrar migrations
const (
	StudentIDConstraint = "students_student_id_key"
	SubjectIDConstraint = "subjects_subject_id_key"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsConnectionError reports a lost or refused server connection
func IsConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == CodeConnectionException || pgErr.Code == CodeConnectionFailure
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
