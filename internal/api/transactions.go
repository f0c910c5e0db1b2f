package api

import (
	"context"  // Context for cache invalidation
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes

	"fintrack/internal/domain"     // Importing domain models
	"fintrack/internal/middleware" // Authenticated user lookup
	"fintrack/internal/repository" // Transaction repository
	"fintrack/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// CreateTransactionRequest represents a new ledger entry
type CreateTransactionRequest struct {
	UserID      string           `json:"user_id" binding:"required"`      // Owner of the entry
	Description string           `json:"description"`                     // Free text, defaults to empty
	Amount      *decimal.Decimal `json:"amount" binding:"required"`       // Amount, number or numeric string
	Type        string           `json:"type" binding:"required"`         // income or expense
	Category    string           `json:"category" binding:"required"`     // One of the fixed categories
	Date        string           `json:"date" binding:"required,isodate"` // Calendar date YYYY-MM-DD
}

// UpdateTransactionRequest carries the editable fields; at least one must be set
type UpdateTransactionRequest struct {
	Description *string          `json:"description"` // New description
	Amount      *decimal.Decimal `json:"amount"`      // New amount
}

// authorize rejects access to another user's data when auth is enabled.
// An absent user id is left to parameter validation.
func authorize(c *gin.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if owner, ok := middleware.AuthenticatedUser(c); ok && owner != userID {
		return errForbidden
	}
	return nil
}

// invalidateSummaries moves the user to a fresh cache version and drops the old entries
func invalidateSummaries(ctx context.Context, rdb *redis.Client, userID string) {
	if err := utils.BumpSummaryVersion(ctx, rdb, userID); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // Owner of the stale entries
			"error":   err.Error(), // Error message
		}).Warn("Failed to bump summary cache version")
	}
	if err := utils.DeleteCachePrefix(ctx, rdb, utils.SummaryPrefix(userID)); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // Owner of the stale entries
			"error":   err.Error(), // Error message
		}).Warn("Failed to invalidate summary cache")
	}
}

// GetTransactionHandler returns a single transaction by id
func GetTransactionHandler(repo *repository.TransactionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		// Absent transactions are an empty object, not an error payload
		if tx == nil {
			c.JSON(http.StatusNotFound, gin.H{})
			return
		}
		if err := authorize(c, tx.UserID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// CreateTransactionHandler records a new transaction for a user
func CreateTransactionHandler(repo *repository.TransactionRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, req.UserID); err != nil {
			writeError(c, err)
			return
		}
		tx, err := repo.Create(c.Request.Context(), repository.CreateParams{
			UserID:      req.UserID,
			Type:        req.Type,
			Amount:      *req.Amount,
			Category:    req.Category,
			Date:        req.Date,
			Description: req.Description,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		// Log the new entry with context
		logrus.WithFields(logrus.Fields{
			"user_id":        tx.UserID,          // Owner
			"transaction_id": tx.ID,              // New id
			"amount":         tx.Amount.String(), // Amount
			"type":           tx.Type,            // income or expense
		}).Info("Transaction created")
		invalidateSummaries(c.Request.Context(), rdb, tx.UserID)
		c.JSON(http.StatusCreated, tx)
	}
}

// UpdateTransactionHandler edits the description and/or amount of a transaction
func UpdateTransactionHandler(repo *repository.TransactionRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if req.Description == nil && req.Amount == nil {
			writeError(c, fmt.Errorf("%w: description or amount", domain.ErrMissingParameter))
			return
		}
		ctx := c.Request.Context()
		id := c.Param("id")
		existing, err := repo.Get(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		if existing == nil {
			writeError(c, domain.ErrNotFound)
			return
		}
		if err := authorize(c, existing.UserID); err != nil {
			writeError(c, err)
			return
		}
		tx, err := repo.Update(ctx, id, req.Description, req.Amount)
		if err != nil {
			writeError(c, err)
			return
		}
		// Deleted between the read and the write
		if tx == nil {
			writeError(c, domain.ErrNotFound)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        tx.UserID,
			"transaction_id": tx.ID,
			"amount":         tx.Amount.String(),
			"type":           tx.Type,
		}).Info("Transaction updated")
		invalidateSummaries(ctx, rdb, tx.UserID)
		c.JSON(http.StatusOK, tx)
	}
}

// DeleteTransactionHandler removes a transaction given as a path or query id
func DeleteTransactionHandler(repo *repository.TransactionRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			id = c.Query("id")
		}
		if id == "" {
			writeError(c, fmt.Errorf("%w: id", domain.ErrMissingParameter))
			return
		}
		ctx := c.Request.Context()
		existing, err := repo.Get(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		if existing == nil {
			writeError(c, domain.ErrNotFound)
			return
		}
		if err := authorize(c, existing.UserID); err != nil {
			writeError(c, err)
			return
		}
		deleted, err := repo.Delete(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		if !deleted {
			writeError(c, domain.ErrNotFound)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        existing.UserID,
			"transaction_id": existing.ID,
			"amount":         existing.Amount.String(),
			"type":           existing.Type,
		}).Info("Transaction deleted")
		invalidateSummaries(ctx, rdb, existing.UserID)
		c.Status(http.StatusNoContent)
	}
}
