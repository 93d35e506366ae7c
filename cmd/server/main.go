package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"bank_portal/internal/api"    // Custom package for API handlers
	"bank_portal/internal/config" // Custom package for configuration
	"bank_portal/internal/review" // Review service and escalation engine
	"bank_portal/internal/store"  // Persistence store over GORM

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database. TranslateError makes duplicate-key failures
	// surface as gorm.ErrDuplicatedKey so the store can map them onto its
	// conflict sentinel.
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.NewGormStore(db)   // Persistence handle passed into every operation
	svc := review.NewService(st)   // Review service + issue escalation engine

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Review routes
	r.POST("/reviews", api.SubmitReviewHandler(svc, redisClient))      // Submit or overwrite a review
	r.GET("/reviews/top", api.TopReviewsHandler(svc, redisClient))     // Highest-rated reviews
	r.GET("/reviews/bottom", api.BottomReviewsHandler(svc, redisClient)) // Lowest-rated reviews

	// Product pages
	r.GET("/products/:id", api.ProductHandler(st, redisClient)) // Product info, reviews, view log

	// Dashboards
	r.GET("/dashboard/customer", api.CustomerDashboardHandler(st, svc, redisClient)) // Spending chart
	r.GET("/dashboard/bank", api.BankDashboardHandler(st, redisClient))              // Activity chart

	// Support desk
	r.GET("/support/issues", api.OpenIssuesHandler(svc))             // Open issues, oldest first
	r.POST("/support/issues/:id/close", api.CloseIssueHandler(svc))  // Manual close

	// Ingestion webhooks pushed by core banking
	r.POST("/webhook/update_accounts/:account_number", api.UpdateAccountsHandler(st, redisClient)) // Account snapshot
	r.POST("/webhook/mini_statement/:account_number", api.MiniStatementHandler(st, redisClient))   // Transaction batch

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
