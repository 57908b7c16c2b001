package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/middleware"
	"github.com/swiftbus/bus-booking-backend/internal/models"
	"github.com/swiftbus/bus-booking-backend/internal/services"
)

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletService *services.WalletService
	logger        *logrus.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *services.WalletService, logger *logrus.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, logger: logger}
}

// GetBalance returns the authenticated user's wallet balance
// @Summary Get wallet balance
// @Tags Wallet
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.WalletBalanceResponse
// @Router /wallet/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	balance, err := h.walletService.GetBalance(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// TopUp credits the authenticated user's wallet
// @Summary Top up wallet
// @Tags Wallet
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.TopUpRequest true "Top-up amount"
// @Success 200 {object} models.WalletBalanceResponse
// @Router /wallet/topup [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	balance, err := h.walletService.TopUp(user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// ListTransactions returns the authenticated user's wallet history
// @Summary List wallet transactions
// @Tags Wallet
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param limit query int false "Maximum rows to return" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	transactions, err := h.walletService.ListTransactions(user.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}
