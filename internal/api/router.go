package api

import (
	"crypto/rsa" // RSA public key type
	"net/http"   // HTTP status codes
	"time"       // Request durations

	"fintrack/internal/middleware" // Auth and metrics middleware
	"fintrack/internal/repository" // Transaction repository
	"fintrack/internal/summary"    // Aggregation engine

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/sirupsen/logrus"                              // Logging library
)

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Repo      *repository.TransactionRepository // Ledger store access
	Cache     SummaryCache                      // Aggregation response cache
	PublicKey *rsa.PublicKey                    // Nil disables auth
	Registry  *prometheus.Registry              // Nil disables /metrics
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	registerValidators()
	engine := summary.NewEngine(d.Repo)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if d.Registry != nil {
		r.Use(middleware.NewMetrics(d.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}
	r.GET("/healthz", HealthHandler(d.Repo))

	// Transaction routes, protected by JWT when a public key is configured
	txGroup := r.Group("/api/transactions")
	if d.PublicKey != nil {
		txGroup.Use(middleware.JWTAuthMiddleware(d.PublicKey))
	}
	rdb := d.Cache.Client
	txGroup.GET("/:id", GetTransactionHandler(d.Repo))                         // Fetch by id
	txGroup.PUT("/:id", UpdateTransactionHandler(d.Repo, rdb))                 // Edit description or amount
	txGroup.DELETE("/:id", DeleteTransactionHandler(d.Repo, rdb))              // Delete by path id
	txGroup.DELETE("", DeleteTransactionHandler(d.Repo, rdb))                  // Delete by ?id=
	txGroup.DELETE("/", DeleteTransactionHandler(d.Repo, rdb))                 // Delete by ?id=
	txGroup.POST("/create-transaction", CreateTransactionHandler(d.Repo, rdb)) // Create

	txGroup.POST("/get-monthly-transactions", MonthlySummaryHandler(engine, d.Cache))
	txGroup.GET("/get-transactions", TransactionsByDateHandler(engine, d.Cache))
	txGroup.POST("/get-transactions-summary-by-dates", SummaryByDatesHandler(engine, d.Cache))
	txGroup.GET("/get-transactions-by-dates", RecordsByDatesHandler(engine, d.Cache))
	txGroup.POST("/get-transactions-by-dates", RecordsByDatesHandler(engine, d.Cache))
	txGroup.POST("/get-summary-by-category-by-dates", CategorySummaryHandler(engine, d.Cache))
	txGroup.POST("/get-summary-by-category-by-dates-frequency", CategoryFrequencyHandler(engine, d.Cache))
	// Older clients still call the misspelt path
	txGroup.POST("/get-summary-by-category-by-dates-frenquency", CategoryFrequencyHandler(engine, d.Cache))

	return r
}

// HealthHandler reports whether the ledger store answers
func HealthHandler(repo *repository.TransactionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context()); err != nil {
			logrus.WithField("error", err.Error()).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// requestLogger logs one line per request through logrus
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Request served")
	}
}
