package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name   string
		err    error
		want   ErrorClassification
		unique bool
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("x"), want: NonRetryable},
		{name: "connection failure", err: pgError(pgerrcode.ConnectionFailure), want: Retryable},
		{name: "serialization failure", err: pgError(pgerrcode.SerializationFailure), want: Retryable},
		{name: "deadlock", err: pgError(pgerrcode.DeadlockDetected), want: Retryable},
		{name: "cannot connect now", err: pgError(pgerrcode.CannotConnectNow), want: Retryable},
		{name: "wrapped retryable", err: fmt.Errorf("ctx: %w", pgError(pgerrcode.ConnectionException)), want: Retryable},
		{name: "unique violation", err: pgError(pgerrcode.UniqueViolation), want: NonRetryable, unique: true},
		{name: "syntax error", err: pgError(pgerrcode.SyntaxError), want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.unique, c.IsUniqueViolation(tt.err))
		})
	}
}

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name   string
		err    error
		want   ErrorClassification
		unique bool
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("x"), want: NonRetryable},
		{name: "busy", err: sqliteError(sqlite3.ErrBusy, 0), want: Retryable},
		{name: "locked", err: sqliteError(sqlite3.ErrLocked, 0), want: Retryable},
		{name: "wrapped busy", err: fmt.Errorf("%w: %w", ErrScanningRow, sqliteError(sqlite3.ErrBusy, 0)), want: Retryable},
		{name: "unique", err: sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintUnique), want: NonRetryable, unique: true},
		{name: "not null", err: sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintNotNull), want: NonRetryable},
		{name: "io error", err: sqliteError(sqlite3.ErrIoErr, 0), want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.unique, c.IsUniqueViolation(tt.err))
		})
	}
}
