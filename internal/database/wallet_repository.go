package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// WalletRepository is the wallet ledger. Every balance change locks the
// wallet row first and writes an immutable transaction record in the
// same database transaction, so the balance always equals the sum of
// its transaction history.
type WalletRepository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *sqlx.DB, lockTimeout time.Duration) *WalletRepository {
	return &WalletRepository{db: db, lockTimeout: lockTimeout}
}

// ============================================================================
// READS
// ============================================================================

// GetByUserID fetches the user's wallet.
func (r *WalletRepository) GetByUserID(userID int64) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Get(&wallet, `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to fetch wallet: %w", err)
	}
	return &wallet, nil
}

// GetBalance returns the wallet's current balance.
func (r *WalletRepository) GetBalance(userID int64) (float64, error) {
	wallet, err := r.GetByUserID(userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// ListTransactions returns the wallet's history, newest first.
func (r *WalletRepository) ListTransactions(userID int64, limit int) ([]models.Transaction, error) {
	wallet, err := r.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	var transactions []models.Transaction
	err = r.db.Select(&transactions, `
		SELECT id, wallet_id, type, amount, description, booking_id, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, wallet.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// ============================================================================
// BALANCE CHANGES
// ============================================================================

// Debit withdraws amount from the user's wallet, failing with
// ErrInsufficientBalance when the balance cannot cover it. The balance
// check and the withdrawal happen under a row lock so concurrent debits
// serialize and the balance can never go negative.
func (r *WalletRepository) Debit(userID int64, amount float64, description string, bookingID *int64) (float64, error) {
	tx, err := beginWithLockTimeout(r.db, r.lockTimeout)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	balance, err := r.debitTx(tx, userID, amount, description, bookingID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, classifyError(fmt.Errorf("failed to commit debit: %w", err))
	}
	return balance, nil
}

// Credit deposits amount into the user's wallet.
func (r *WalletRepository) Credit(userID int64, amount float64, description string, bookingID *int64) (float64, error) {
	tx, err := beginWithLockTimeout(r.db, r.lockTimeout)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	balance, err := r.creditTx(tx, userID, amount, description, bookingID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, classifyError(fmt.Errorf("failed to commit credit: %w", err))
	}
	return balance, nil
}

// ============================================================================
// TRANSACTION-SCOPED OPERATIONS
// ============================================================================

// lockWalletTx fetches the wallet row FOR UPDATE, serializing every
// concurrent balance change on the same wallet.
func (r *WalletRepository) lockWalletTx(tx *sqlx.Tx, userID int64) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Get(&wallet, `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets WHERE user_id = $1
		FOR UPDATE`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrWalletNotFound
		}
		return nil, classifyError(fmt.Errorf("failed to lock wallet: %w", err))
	}
	return &wallet, nil
}

func (r *WalletRepository) debitTx(tx *sqlx.Tx, userID int64, amount float64, description string, bookingID *int64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %.2f", amount)
	}

	wallet, err := r.lockWalletTx(tx, userID)
	if err != nil {
		return 0, err
	}
	if wallet.Balance < amount {
		return 0, fmt.Errorf("%w: balance %.2f, required %.2f",
			models.ErrInsufficientBalance, wallet.Balance, amount)
	}

	newBalance := wallet.Balance - amount
	if err := r.applyBalanceTx(tx, wallet.ID, newBalance, models.TransactionTypeDebit, amount, description, bookingID); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *WalletRepository) creditTx(tx *sqlx.Tx, userID int64, amount float64, description string, bookingID *int64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %.2f", amount)
	}

	wallet, err := r.lockWalletTx(tx, userID)
	if err != nil {
		return 0, err
	}

	newBalance := wallet.Balance + amount
	if err := r.applyBalanceTx(tx, wallet.ID, newBalance, models.TransactionTypeCredit, amount, description, bookingID); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// applyBalanceTx writes the new balance and its paired transaction
// record. The two always commit or roll back together.
func (r *WalletRepository) applyBalanceTx(tx *sqlx.Tx, walletID int64, newBalance float64, txType models.TransactionType, amount float64, description string, bookingID *int64) error {
	if _, err := tx.Exec(`
		UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, walletID); err != nil {
		return classifyError(fmt.Errorf("failed to update balance: %w", err))
	}

	if _, err := tx.Exec(`
		INSERT INTO wallet_transactions (wallet_id, type, amount, description, booking_id)
		VALUES ($1, $2, $3, $4, $5)`,
		walletID, txType, amount, description, bookingID); err != nil {
		return classifyError(fmt.Errorf("failed to record transaction: %w", err))
	}
	return nil
}

// ============================================================================
// PROVISIONING
// ============================================================================

// CreateWallet provisions a zero-balance wallet for a new user. The
// unique constraint on user_id keeps it one wallet per user.
func (r *WalletRepository) CreateWallet(userID int64) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Get(&wallet, `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		RETURNING id, user_id, balance, created_at, updated_at`, userID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return r.GetByUserID(userID)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return &wallet, nil
}
