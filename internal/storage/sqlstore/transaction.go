package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ballalhossaintalukder/supertokens-core/internal/dbx"
	"github.com/Ballalhossaintalukder/supertokens-core/internal/storage"
)

// RunInTransaction executes fn as one atomic unit of work with bounded
// retry on transient conflicts. When the context already carries an open
// transaction, fn joins it: no new transaction, no retry, and the
// outermost call decides commit or rollback.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) error {
	if tx := dbx.TxFromContext(ctx); tx != nil {
		return fn(ctx, tx)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !s.retryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w (%d attempts): %w", storage.ErrTxRetryLimit, s.maxRetries+1, lastErr)
}

// runOnce begins a transaction, runs fn with a transactional handle, and
// commits on success or rolls back on error/panic. Panics are rethrown.
func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, h dbx.DBTX) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(dbx.ContextWithTx(ctx, tx), tx)
	return err
}

func (s *Store) retryable(err error) bool {
	return errors.Is(err, storage.ErrTxConflict) || s.dialect.IsRetryable(err)
}
