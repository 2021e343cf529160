package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrUnavailable, true},
		{"wrapped sentinel", fmt.Errorf("failed to get statistics: %w", ErrUnavailable), true},
		{"conn done", sql.ErrConnDone, true},
		{"net error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"closed pool", errors.New("closed pool"), true},
		{"closed sqlite handle", errors.New("sql: database is closed"), true},
		{"query error", errors.New("syntax error at or near SELECT"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUnavailable(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("tags connectivity errors", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "08001"}
		err := classify(cause)
		assert.ErrorIs(t, err, ErrUnavailable)

		var pgErr *pgconn.PgError
		assert.ErrorAs(t, err, &pgErr)
	})

	t.Run("leaves query errors alone", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "42P01"}
		assert.Same(t, error(cause), classify(cause))
	})

	t.Run("does not double wrap", func(t *testing.T) {
		err := fmt.Errorf("%w: boom", ErrUnavailable)
		assert.Equal(t, err, classify(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classify(nil))
	})
}
