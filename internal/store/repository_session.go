package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/models"
)

// sessionRepository is the database/sql implementation of
// [SessionRepository]. Expiry is stored as unix seconds so the comparison
// works the same on every dialect.
type sessionRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) Create(ctx context.Context, accountID int64, token string, expiresAt time.Time) (models.Session, error) {
	log := logger.FromContext(ctx)

	session := models.Session{
		AccountID: accountID,
		Token:     token,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0).UTC(),
	}

	query, args, err := r.db.builder.
		Insert(session.TableName()).
		Columns("account_id", "token", "expires_at").
		Values(accountID, token, expiresAt.Unix()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Create").Msg("failed to build query")
		return models.Session{}, fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	err = r.db.do(ctx, "*sessionRepository.Create", func(ctx context.Context) error {
		if scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(&session.ID); scanErr != nil {
			if r.db.errorClassificator.IsUniqueViolation(scanErr) {
				return ErrDuplicateSessionToken
			}
			return scanErr
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Create").Int64("account_id", accountID).Msg("error creating session")
		return models.Session{}, unavailable(err, ErrDuplicateSessionToken)
	}

	return session, nil
}

func (r *sessionRepository) FindValid(ctx context.Context, token string, now time.Time) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("a.id", "a.email", "a.password_hash", "a.totp_secret").
		From("sessions s").
		Join("accounts a ON a.id = s.account_id").
		Where(sq.Eq{"s.token": token}).
		Where(sq.Gt{"s.expires_at": now.Unix()}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.FindValid").Msg("failed to build query")
		return models.Account{}, fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	var account models.Account
	err = r.db.do(ctx, "*sessionRepository.FindValid", func(ctx context.Context) error {
		if scanErr := scanAccount(r.db.QueryRowContext(ctx, query, args...), &account); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			log.Err(err).Str("func", "*sessionRepository.FindValid").Msg("error validating session")
		}
		return models.Account{}, unavailable(err, ErrSessionNotFound)
	}

	return account, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Delete").Msg("failed to build query")
		return fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, "*sessionRepository.Delete", query, args)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Delete").Msg("error deleting session")
		return unavailable(err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.LtOrEq{"expires_at": now.Unix()}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpired").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w: %w", ErrStoreUnavailable, ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, "*sessionRepository.DeleteExpired", query, args)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpired").Msg("error purging sessions")
		return 0, unavailable(err)
	}

	log.Info().Str("func", "*sessionRepository.DeleteExpired").Int64("deleted", affected).Msg("expired sessions purged")
	return affected, nil
}

func (r *sessionRepository) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	var affected int64
	err := r.db.do(ctx, op, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}
