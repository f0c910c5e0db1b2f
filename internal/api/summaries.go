package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strings"  // Cache key building
	"time"     // Time durations

	"fintrack/internal/domain"  // Importing domain models
	"fintrack/internal/summary" // Aggregation engine
	"fintrack/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // Content types
	"github.com/redis/go-redis/v9"     // Redis client
	"github.com/sirupsen/logrus"       // Logging library
)

// SummaryCache stores aggregation responses per user; a nil Client disables it
type SummaryCache struct {
	Client *redis.Client // Redis client
	TTL    time.Duration // Lifetime of a cached response
}

// MonthlyRequest asks for one total per day of the month containing QueryDate
type MonthlyRequest struct {
	UserID    string `json:"user_id"`                                // Owner
	QueryDate string `json:"query_date" binding:"omitempty,isodate"` // Any day of the month
	Type      string `json:"type"`                                   // income or expense
}

// ByDateQuery selects transactions on one exact date
type ByDateQuery struct {
	UserID    string `form:"user_id"`                                // Owner
	QueryDate string `form:"query_date" binding:"omitempty,isodate"` // Exact date
	Type      string `form:"type"`                                   // income or expense
}

// SummaryByDatesRequest asks for one sum per listed date
type SummaryByDatesRequest struct {
	UserID     string   `json:"user_id"`                                      // Owner
	QueryDates []string `json:"query_dates" binding:"omitempty,dive,isodate"` // Dates in output order
	Type       string   `json:"type"`                                         // income or expense
}

// RecordsByDatesRequest asks for the category's transactions on each listed date
type RecordsByDatesRequest struct {
	UserID     string   `json:"user_id" form:"user_id"`                                          // Owner
	QueryDates []string `json:"query_dates" form:"query_dates" binding:"omitempty,dive,isodate"` // Dates in output order
	Category   string   `json:"category" form:"category"`                                        // Category to list
}

// CategoryDatesRequest spans a category x date grid
type CategoryDatesRequest struct {
	UserID     string   `json:"user_id"`                                      // Owner
	QueryDates []string `json:"query_dates" binding:"omitempty,dive,isodate"` // Dates of the grid
	Categories []string `json:"categories"`                                   // Categories in output order
}

// serveCached answers from the user's summary cache or computes and stores the result.
// Keys carry the user's cache version so a result computed before a mutation
// is written under a version that is no longer read.
func serveCached[T any](c *gin.Context, cache SummaryCache, userID, op string, params []string, compute func(ctx context.Context) (T, error)) {
	ctx := c.Request.Context()
	version, err := utils.SummaryVersion(ctx, cache.Client, userID)
	if err != nil {
		// Without a version there is no safe key; answer uncached
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Summary cache version read failed")
		out, err := compute(ctx)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("X-Cache", "BYPASS")
		c.JSON(http.StatusOK, out)
		return
	}
	key := utils.SummaryKey(userID, version, op, params...)

	var cached T
	found, err := utils.GetCache(ctx, cache.Client, key, &cached)
	if err != nil {
		// A broken cache must not fail reads; drop the entry so it is rebuilt
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Summary cache read failed")
		_ = utils.DeleteCache(ctx, cache.Client, key)
	}
	if found {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, cached)
		return
	}
	out, err := compute(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := utils.SetCache(ctx, cache.Client, key, out, cache.TTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Summary cache write failed")
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, out)
}

func list(values []string) string {
	return strings.Join(values, "|")
}

// MonthlySummaryHandler returns zero-filled daily totals for a month
func MonthlySummaryHandler(engine *summary.Engine, cache SummaryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MonthlyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, req.UserID); err != nil {
			writeError(c, err)
			return
		}
		params := []string{req.QueryDate, req.Type}
		serveCached(c, cache, req.UserID, "month", params, func(ctx context.Context) ([]domain.DailyTotal, error) {
			return engine.SummarizeMonth(ctx, req.UserID, req.QueryDate, req.Type)
		})
	}
}

// TransactionsByDateHandler lists a user's transactions of one type on one date
func TransactionsByDateHandler(engine *summary.Engine, cache SummaryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ByDateQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, q.UserID); err != nil {
			writeError(c, err)
			return
		}
		params := []string{q.QueryDate, q.Type}
		serveCached(c, cache, q.UserID, "date", params, func(ctx context.Context) ([]domain.Transaction, error) {
			return engine.ByDate(ctx, q.UserID, q.QueryDate, q.Type)
		})
	}
}

// SummaryByDatesHandler returns [date, sum] pairs in request order
func SummaryByDatesHandler(engine *summary.Engine, cache SummaryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SummaryByDatesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, req.UserID); err != nil {
			writeError(c, err)
			return
		}
		params := []string{list(req.QueryDates), req.Type}
		serveCached(c, cache, req.UserID, "sum-by-dates", params, func(ctx context.Context) ([]summary.DateSum, error) {
			return engine.SumByDates(ctx, req.UserID, req.QueryDates, req.Type)
		})
	}
}

// RecordsByDatesHandler returns one transaction list per requested date.
// Accepts a JSON body or query parameters.
func RecordsByDatesHandler(engine *summary.Engine, cache SummaryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordsByDatesRequest
		bind := c.ShouldBindQuery
		if c.ContentType() == binding.MIMEJSON {
			bind = c.ShouldBindJSON
		}
		if err := bind(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, req.UserID); err != nil {
			writeError(c, err)
			return
		}
		params := []string{list(req.QueryDates), req.Category}
		serveCached(c, cache, req.UserID, "records-by-dates", params, func(ctx context.Context) ([][]domain.Transaction, error) {
			return engine.RecordsByDates(ctx, req.UserID, req.QueryDates, req.Category)
		})
	}
}

// CategorySummaryHandler totals each requested category over the requested dates
func CategorySummaryHandler(engine *summary.Engine, cache SummaryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryDatesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, req.UserID); err != nil {
			writeError(c, err)
			return
		}
		params := []string{list(req.QueryDates), list(req.Categories)}
		serveCached(c, cache, req.UserID, "category-sums", params, func(ctx context.Context) (summary.CategorySums, error) {
			return engine.SumByCategoryAndDates(ctx, req.UserID, req.QueryDates, req.Categories)
		})
	}
}

// CategoryFrequencyHandler counts transactions per category per requested date
func CategoryFrequencyHandler(engine *summary.Engine, cache SummaryCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryDatesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, bindError(err))
			return
		}
		if err := authorize(c, req.UserID); err != nil {
			writeError(c, err)
			return
		}
		params := []string{list(req.QueryDates), list(req.Categories)}
		serveCached(c, cache, req.UserID, "category-frequency", params, func(ctx context.Context) ([]summary.Frequency, error) {
			return engine.FrequencyByCategoryAndDates(ctx, req.UserID, req.QueryDates, req.Categories)
		})
	}
}
