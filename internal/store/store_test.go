package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/vaultscribe/internal/logger"
)

// newMockDB returns a SQLite-flavoured *DB over sqlmock with one retry and
// a short timeout.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &DB{
		DB:                 conn,
		driver:             "sqlite3",
		builder:            sq.StatementBuilder.PlaceholderFormat(sq.Question),
		errorClassificator: NewSQLiteErrorClassifier(),
		queryTimeout:       time.Second,
		maxRetries:         1,
		logger:             logger.Nop(),
	}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func sqliteError(code sqlite3.ErrNo, extended sqlite3.ErrNoExtended) error {
	return sqlite3.Error{Code: code, ExtendedCode: extended}
}
