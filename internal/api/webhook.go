package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Timestamp parsing

	"bank_portal/internal/cache"
	"bank_portal/internal/domain"
	"bank_portal/internal/store"

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal-safe amounts

	"github.com/sirupsen/logrus" // Logging library
)

// AccountUpdateRequest is the snapshot the core-banking system pushes
type AccountUpdateRequest struct {
	OwnerCIF     string `json:"owner_cif"`
	Balance      string `json:"balance" binding:"required"`
	Principal    string `json:"principal"`
	OpeningDate  string `json:"opening_date"`  // YYYY-MM-DD
	MaturityDate string `json:"maturity_date"` // YYYY-MM-DD
}

// UpdateAccountsHandler ingests an account snapshot pushed by the
// core-banking webhook and replaces the stored row
func UpdateAccountsHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountNumber := c.Param("account_number")
		var req AccountUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Balances are stored as decimal strings; reject anything that
		// doesn't parse
		if _, err := decimal.NewFromString(req.Balance); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid balance"})
			return
		}
		if req.Principal != "" {
			if _, err := decimal.NewFromString(req.Principal); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid principal"})
				return
			}
		}
		account := domain.Account{
			AccountNumber: accountNumber,
			OwnerCIF:      req.OwnerCIF,
			Balance:       req.Balance,
			Principal:     req.Principal,
		}
		if t, err := time.Parse(dateLayout, req.OpeningDate); err == nil {
			account.OpeningDate = t
		}
		if t, err := time.Parse(dateLayout, req.MaturityDate); err == nil {
			account.MaturityDate = t
		}
		if err := st.UpsertAccount(c.Request.Context(), &account); err != nil {
			logrus.WithFields(logrus.Fields{
				"account": accountNumber,
				"error":   err.Error(),
			}).Error("Account update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
			return
		}
		// The cached dashboard may reference the replaced snapshot
		_ = cache.Invalidate(context.Background(), rdb, cache.CustomerDashboardKey(accountNumber))
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
	}
}

// MiniStatementRequest carries transactions pushed for one account
type MiniStatementRequest struct {
	Transactions []struct {
		Timestamp time.Time `json:"timestamp" binding:"required"`
		Amount    string    `json:"amount" binding:"required"`
	} `json:"transactions" binding:"required"`
}

// MiniStatementHandler appends pushed transactions for an account. Rows are
// append-only; the webhook never rewrites history.
func MiniStatementHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountNumber := c.Param("account_number")
		var req MiniStatementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ctx := c.Request.Context()
		if _, err := st.GetAccount(ctx, accountNumber); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		// Parse the whole batch before touching the store so a malformed
		// amount rejects the request without persisting a partial statement
		txs := make([]domain.Transaction, 0, len(req.Transactions))
		for _, item := range req.Transactions {
			amount, err := decimal.NewFromString(item.Amount)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
				return
			}
			txs = append(txs, domain.Transaction{
				Timestamp:     item.Timestamp,
				Amount:        amount,
				AccountNumber: accountNumber,
			})
		}
		for i := range txs {
			if err := st.CreateTransaction(ctx, &txs[i]); err != nil {
				logrus.WithFields(logrus.Fields{
					"account": accountNumber,
					"error":   err.Error(),
				}).Error("Mini statement ingestion failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transactions"})
				return
			}
		}
		// The spending chart for this account is now stale
		_ = cache.Invalidate(context.Background(), rdb, cache.CustomerDashboardKey(accountNumber))
		c.JSON(http.StatusOK, gin.H{"message": "OK", "ingested": len(req.Transactions)})
	}
}
