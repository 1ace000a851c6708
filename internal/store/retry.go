package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/vaultscribe/internal/logger"
)

const retryBaseDelay = 50 * time.Millisecond

// do runs fn under the configured query timeout, retrying it with
// exponential backoff while the classifier reports the failure as transient.
func (db *DB) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if db.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.queryTimeout)
		defer cancel()
	}

	backoff := retry.WithMaxRetries(db.maxRetries, retry.NewExponential(retryBaseDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if db.errorClassificator.Classify(err) == Retryable {
			logger.FromContext(ctx).Warn().Err(err).
				Str("func", op).
				Int("attempt", attempt).
				Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

// unavailable passes the domain errors through and wraps everything else
// with [ErrStoreUnavailable].
func unavailable(err error, domain ...error) error {
	if err == nil {
		return nil
	}
	for _, d := range domain {
		if errors.Is(err, d) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
