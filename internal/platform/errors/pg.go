package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the repos can hit
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrQueryCanceled             = "57014"
	pgErrCannotConnectNow          = "57P03"
	pgErrReadOnlySQLTransaction    = "25006"
)

// pgCode maps err to an ErrorCode; anything unrecognized is ErrorCodeDB
func pgCode(err error) ErrorCode {
	if stderrs.Is(err, context.DeadlineExceeded) {
		return ErrorCodeUnavailable
	}
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeDB
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return ErrorCodeDuplicateKey
	case pgErrForeignKeyViolation, pgErrStringDataRightTruncation, pgErrInvalidTextRepresentation:
		return ErrorCodeInvalidArgument
	case pgErrNotNullViolation, pgErrCheckViolation:
		return ErrorCodeValidation
	case pgErrQueryCanceled, pgErrCannotConnectNow, pgErrReadOnlySQLTransaction:
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// FromPostgres wraps a driver error with its mapped code and msg; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, pgCode(err), msg)
}

// FromPostgresWithField is FromPostgres plus the offending column when postgres names one
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	var pgErr *pgconn.PgError
	if out == nil || !stderrs.As(err, &pgErr) {
		return out
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(out, col)
	}
	return out
}
