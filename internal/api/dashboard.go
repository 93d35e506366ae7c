package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time ranges

	"bank_portal/internal/analytics"
	"bank_portal/internal/cache"
	"bank_portal/internal/review"
	"bank_portal/internal/store"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"github.com/sirupsen/logrus" // Logging library
)

const (
	defaultBuckets = 10            // Chart blocks per dashboard
	dateLayout     = "2006-01-02"  // Query-param date format
	customerLayout = "02 January"  // Day-scale labels for spending charts
	bankLayout     = "15:04 PM"    // Time-of-day labels for activity charts
)

// chart is the label/value pair set a dashboard renders
type chart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// timeRange reads optional ?from= and ?to= dates, defaulting to the last
// `fallback` duration ending now
func timeRange(c *gin.Context, fallback time.Duration) (time.Time, time.Time) {
	to := time.Now()
	from := to.Add(-fallback)
	if q := c.Query("from"); q != "" {
		if t, err := time.Parse(dateLayout, q); err == nil {
			from = t
		}
	}
	if q := c.Query("to"); q != "" {
		if t, err := time.Parse(dateLayout, q); err == nil {
			to = t
		}
	}
	return from, to
}

// bucketCount reads ?buckets=, default 10, capped at 100
func bucketCount(c *gin.Context) int {
	n := defaultBuckets
	if q := c.Query("buckets"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 100 {
			n = v
		}
	}
	return n
}

// customerDashboard is the customer dashboard payload. Cached as a whole so
// warm and cold responses carry the same fields.
type customerDashboard struct {
	Spending   chart           `json:"spending"`
	TopReviews []reviewPayload `json:"top_reviews"`
}

// CustomerDashboardHandler charts an account's spending over time together
// with the current top reviews
func CustomerDashboardHandler(st store.Store, svc *review.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := c.Query("account")
		if account == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing account parameter"})
			return
		}
		ctx := context.Background()
		cacheKey := cache.CustomerDashboardKey(account)
		var dash customerDashboard
		fromCache := false
		// Only the no-filter view is cached; explicit ranges go to the store
		cacheable := c.Query("from") == "" && c.Query("to") == "" && c.Query("buckets") == ""
		if cacheable {
			if found, err := cache.Get(ctx, rdb, cacheKey, &dash); err == nil && found {
				fromCache = true
			}
		}
		if !fromCache {
			if _, err := st.GetAccount(c.Request.Context(), account); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
				return
			}
			from, to := timeRange(c, 30*24*time.Hour)
			txs, err := st.TransactionsForAccount(c.Request.Context(), account, from, to)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"account": account,
					"error":   err.Error(),
				}).Error("Failed to load transactions")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
				return
			}
			events := make([]analytics.Event, 0, len(txs))
			for _, tx := range txs {
				amount, _ := tx.Amount.Float64()
				events = append(events, analytics.Event{Time: tx.Timestamp, Value: amount})
			}
			labels, values := analytics.Bucketize(events, bucketCount(c), analytics.Options{
				Mode:   analytics.Sum,
				Layout: customerLayout,
			})
			top, err := svc.TopReviews(c.Request.Context(), cache.DefaultReviewLimit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
				return
			}
			dash = customerDashboard{
				Spending:   chart{Labels: labels, Values: values},
				TopReviews: withStars(top),
			}
			if cacheable {
				_ = cache.Set(ctx, rdb, cacheKey, dash, cache.TTL)
			}
		}
		// Single response shape for both the warm and the cold path
		c.JSON(http.StatusOK, gin.H{
			"spending":    dash.Spending,
			"top_reviews": dash.TopReviews,
			"cached":      fromCache,
		})
	}
}

// BankDashboardHandler charts bank-wide login/view activity, most recent
// window first
func BankDashboardHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached chart
		cacheable := c.Query("from") == "" && c.Query("to") == "" && c.Query("buckets") == ""
		if cacheable {
			if found, err := cache.Get(ctx, rdb, cache.KeyBankDashboard, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"activity": cached, "cached": true})
				return
			}
		}
		from, to := timeRange(c, 24*time.Hour)
		logs, err := st.LogsBetween(c.Request.Context(), from, to)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to load activity logs")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
			return
		}
		events := make([]analytics.Event, 0, len(logs))
		for _, l := range logs {
			events = append(events, analytics.Event{Time: l.Timestamp})
		}
		labels, values := analytics.Bucketize(events, bucketCount(c), analytics.Options{
			Mode:   analytics.Count,
			Layout: bankLayout,
			Order:  analytics.Descending,
		})
		activity := chart{Labels: labels, Values: values}
		if cacheable {
			_ = cache.Set(ctx, rdb, cache.KeyBankDashboard, activity, cache.TTL)
		}
		c.JSON(http.StatusOK, gin.H{"activity": activity, "cached": false})
	}
}
