package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestFromPostgres_Codes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, ErrorCodeDuplicateKey},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrorCodeInvalidArgument},
		{"bad uuid text", &pgconn.PgError{Code: "22P02"}, ErrorCodeInvalidArgument},
		{"truncation", &pgconn.PgError{Code: "22001"}, ErrorCodeInvalidArgument},
		{"not null", &pgconn.PgError{Code: "23502"}, ErrorCodeValidation},
		{"check", &pgconn.PgError{Code: "23514"}, ErrorCodeValidation},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, ErrorCodeUnavailable},
		{"starting up", &pgconn.PgError{Code: "57P03"}, ErrorCodeUnavailable},
		{"read only", &pgconn.PgError{Code: "25006"}, ErrorCodeUnavailable},
		{"other sqlstate", &pgconn.PgError{Code: "42P01"}, ErrorCodeDB},
		{"wrapped pg error", fmt.Errorf("scan: %w", &pgconn.PgError{Code: "23505"}), ErrorCodeDuplicateKey},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorCodeUnavailable},
		{"plain error", stderrs.New("conn reset"), ErrorCodeDB},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := FromPostgres(tc.err, "insert chart")
			assert.Equal(t, tc.want, CodeOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFromPostgres_Nil(t *testing.T) {
	assert.NoError(t, FromPostgres(nil, "x"))
	assert.NoError(t, FromPostgresWithField(nil, "x"))
}

func TestFromPostgresWithField(t *testing.T) {
	err := FromPostgresWithField(&pgconn.PgError{Code: "23502", ColumnName: "dataset"}, "insert chart")
	assert.Equal(t, ErrorCodeValidation, CodeOf(err))
	assert.Equal(t, "dataset", WireFrom(err).Field)

	err = FromPostgresWithField(&pgconn.PgError{Code: "23505", ConstraintName: "charts_pkey"}, "insert chart")
	assert.Equal(t, ErrorCodeDuplicateKey, CodeOf(err))
	assert.Empty(t, WireFrom(err).Field)

	err = FromPostgresWithField(stderrs.New("conn reset"), "insert chart")
	assert.Equal(t, ErrorCodeDB, CodeOf(err))
}
