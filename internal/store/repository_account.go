package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/models"
)

var accountColumns = []string{"id", "email", "password_hash", "totp_secret"}

// accountRepository is the database/sql implementation of
// [AccountRepository] for both SQLite and PostgreSQL.
//
// All methods obtain a context-scoped logger via [logger.FromContext] so
// that failures are traced together with the request that caused them.
type accountRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAccountRepository constructs an [AccountRepository] backed by db.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema implements [AccountRepository] by running the embedded
// migrations.
func (r *accountRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.Migrate(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.EnsureSchema").Msg("migration failed")
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// FindByEmail implements [AccountRepository].
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(accountColumns...).
		From(models.Account{}.TableName()).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.FindByEmail").Msg("failed to build query")
		return models.Account{}, fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	var account models.Account
	err = r.db.do(ctx, "*accountRepository.FindByEmail", func(ctx context.Context) error {
		row := r.db.QueryRowContext(ctx, query, args...)
		if scanErr := scanAccount(row, &account); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			log.Err(err).Str("func", "*accountRepository.FindByEmail").Msg("error finding account")
		}
		return models.Account{}, unavailable(err, ErrAccountNotFound)
	}

	return account, nil
}

// Insert implements [AccountRepository].
func (r *accountRepository) Insert(ctx context.Context, email, passwordHash, totpSecret string) (models.Account, error) {
	log := logger.FromContext(ctx)

	account := models.Account{
		Email:        email,
		PasswordHash: passwordHash,
		TOTPSecret:   &totpSecret,
	}

	query, args, err := r.db.builder.
		Insert(account.TableName()).
		Columns("email", "password_hash", "totp_secret").
		Values(email, passwordHash, totpSecret).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.Insert").Msg("failed to build query")
		return models.Account{}, fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	err = r.db.do(ctx, "*accountRepository.Insert", func(ctx context.Context) error {
		if scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(&account.ID); scanErr != nil {
			if r.db.errorClassificator.IsUniqueViolation(scanErr) {
				return ErrDuplicateAccount
			}
			return scanErr
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.Insert").Msg("error inserting account")
		return models.Account{}, unavailable(err, ErrDuplicateAccount)
	}

	log.Info().Str("func", "*accountRepository.Insert").Int64("account_id", account.ID).Msg("account created")
	return account, nil
}

// UpdatePasswordHash implements [AccountRepository].
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, email, newHash string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.Account{}.TableName()).
		Set("password_hash", newHash).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdatePasswordHash").Msg("failed to build query")
		return fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	err = r.db.do(ctx, "*accountRepository.UpdatePasswordHash", func(ctx context.Context) error {
		res, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return raErr
		}
		if affected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdatePasswordHash").Msg("error updating password hash")
		return unavailable(err, ErrAccountNotFound)
	}

	return nil
}

// List implements [AccountRepository].
func (r *accountRepository) List(ctx context.Context) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(accountColumns...).
		From(models.Account{}.TableName()).
		OrderBy("id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.List").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	var accounts []models.Account
	err = r.db.do(ctx, "*accountRepository.List", func(ctx context.Context) error {
		accounts = accounts[:0]

		rows, queryErr := r.db.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
		}
		defer rows.Close()

		for rows.Next() {
			var account models.Account
			if scanErr := scanAccount(rows, &account); scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
			}
			accounts = append(accounts, account)
		}
		return rows.Err()
	})
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.List").Msg("error listing accounts")
		return nil, unavailable(err)
	}

	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, account *models.Account) error {
	var secret sql.NullString
	if err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &secret); err != nil {
		return err
	}
	account.TOTPSecret = nil
	if secret.Valid {
		s := secret.String
		account.TOTPSecret = &s
	}
	return nil
}
