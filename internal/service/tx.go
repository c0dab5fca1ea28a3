package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"bancapdv/internal/apperr"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode, in-memory repositories).
//
// Transient failures — serialization conflicts, deadlocks, dropped
// connections — are retried a bounded number of times with fibonacci backoff;
// retrying a whole transaction is safe because a failed one rolls back.
// When retries are exhausted the error surfaces as ErrPersistenciaIndisponivel.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		txErr := db.WithContext(ctx).Transaction(fn)
		if isTransient(txErr) {
			return retry.RetryableError(txErr)
		}
		return txErr
	})
	if isTransient(err) {
		return fmt.Errorf("%w: %v", apperr.ErrPersistenciaIndisponivel, err)
	}
	return err
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected ||
			pgerrcode.IsConnectionException(pgErr.Code)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
