package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// PostgreSQL SQLSTATE codes the engine cares about.
const (
	pqCodeLockNotAvailable    = "55P03"
	pqCodeSerializationFail   = "40001"
	pqCodeDeadlockDetected    = "40P01"
	pqCodeUniqueViolation     = "23505"
	pqCodeForeignKeyViolation = "23503"
)

// classifyError maps driver-level lock contention onto the engine's
// retryable conflict error; everything else passes through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqCodeLockNotAvailable, pqCodeSerializationFail, pqCodeDeadlockDetected:
			return fmt.Errorf("%w: %v", models.ErrConcurrencyConflict, err)
		}
	}
	return err
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pqCodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// beginWithLockTimeout starts a transaction and bounds how long its row
// locks may wait, so one request cannot block another indefinitely on
// the same seat or wallet row. The timeout applies for the transaction
// only (SET LOCAL).
func beginWithLockTimeout(db *sqlx.DB, lockTimeout time.Duration) (*sqlx.Tx, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	return tx, nil
}
