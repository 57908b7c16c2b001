package models

import (
	"time"
)

// TransactionType represents the direction of a wallet transaction
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Wallet holds a user's prepaid balance. Exactly one wallet exists per
// user and its balance never goes below zero: every change goes through
// the wallet repository's serialized debit/credit operations.
type Wallet struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Balance   float64   `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is an immutable, append-only record paired with exactly one
// balance change. BookingID links debits and refunds to their booking.
type Transaction struct {
	ID          int64           `json:"id" db:"id"`
	WalletID    int64           `json:"wallet_id" db:"wallet_id"`
	Type        TransactionType `json:"type" db:"type"`
	Amount      float64         `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	BookingID   *int64          `json:"booking_id,omitempty" db:"booking_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TopUpRequest credits the caller's wallet
type TopUpRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// WalletBalanceResponse is the read-only balance snapshot
type WalletBalanceResponse struct {
	Balance float64 `json:"balance"`
}
