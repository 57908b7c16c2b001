package services

import (
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/database"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// WalletService exposes the wallet ledger to callers: top-ups, balance
// reads and transaction history. Debits happen only inside the booking
// transaction and are not reachable from here.
type WalletService struct {
	walletRepo *database.WalletRepository
	logger     *logrus.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(walletRepo *database.WalletRepository, logger *logrus.Logger) *WalletService {
	return &WalletService{walletRepo: walletRepo, logger: logger}
}

// GetBalance returns the user's current wallet balance.
func (s *WalletService) GetBalance(userID int64) (*models.WalletBalanceResponse, error) {
	balance, err := s.walletRepo.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	return &models.WalletBalanceResponse{Balance: balance}, nil
}

// TopUp credits the user's wallet and returns the new balance.
func (s *WalletService) TopUp(userID int64, req *models.TopUpRequest) (*models.WalletBalanceResponse, error) {
	balance, err := s.walletRepo.Credit(userID, req.Amount, "Wallet top-up", nil)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Top-up failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  req.Amount,
		"balance": balance,
	}).Info("Wallet topped up")

	return &models.WalletBalanceResponse{Balance: balance}, nil
}

// ListTransactions returns the user's wallet history, newest first.
func (s *WalletService) ListTransactions(userID int64, limit int) ([]models.Transaction, error) {
	return s.walletRepo.ListTransactions(userID, limit)
}
