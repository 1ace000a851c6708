package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const addTOTPSecretVersion = 2

// addTOTPSecretSQLite adds accounts.totp_secret unless it is already
// present. SQLite has no ADD COLUMN IF NOT EXISTS, and databases created by
// early releases may carry the column without a goose version table.
func addTOTPSecretSQLite() *goose.Migration {
	return goose.NewGoMigration(
		addTOTPSecretVersion,
		&goose.GoFunc{RunTx: upAddTOTPSecret},
		&goose.GoFunc{RunTx: downAddTOTPSecret},
	)
}

func upAddTOTPSecret(ctx context.Context, tx *sql.Tx) error {
	exists, err := hasColumn(ctx, tx, "accounts", "totp_secret")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `ALTER TABLE accounts ADD COLUMN totp_secret TEXT`); err != nil {
		return fmt.Errorf("add totp_secret column: %w", err)
	}
	return nil
}

func downAddTOTPSecret(ctx context.Context, tx *sql.Tx) error {
	exists, err := hasColumn(ctx, tx, "accounts", "totp_secret")
	if err != nil || !exists {
		return err
	}

	if _, err := tx.ExecContext(ctx, `ALTER TABLE accounts DROP COLUMN totp_secret`); err != nil {
		return fmt.Errorf("drop totp_secret column: %w", err)
	}
	return nil
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect table %s: %w", table, err)
	}
	return n > 0, nil
}
