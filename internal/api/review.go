package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching against the service taxonomy
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"bank_portal/internal/cache"
	"bank_portal/internal/domain"
	"bank_portal/internal/review"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"github.com/sirupsen/logrus" // Logging library
)

// SubmitReviewRequest represents a review submission (form or JSON)
type SubmitReviewRequest struct {
	UserID    uint   `json:"userid" form:"userid"`
	ProductID uint   `json:"productid" form:"productid"`
	Rating    string `json:"rating" form:"rating"`
	Title     string `json:"title" form:"title"`
	Comment   string `json:"comment" form:"comment"`
}

// reviewPayload decorates a review with its derived star count
type reviewPayload struct {
	domain.Review
	Stars int `json:"stars"`
}

func withStars(revs []domain.Review) []reviewPayload {
	out := make([]reviewPayload, 0, len(revs))
	for _, r := range revs {
		out = append(out, reviewPayload{Review: r, Stars: review.Stars(r.Rating)})
	}
	return out
}

// SubmitReviewHandler creates or overwrites the caller's review of a product
func SubmitReviewHandler(svc *review.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitReviewRequest
		if err := c.ShouldBind(&req); err != nil {
			// Malformed body
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		rev, err := svc.SubmitReview(c.Request.Context(), review.SubmitInput{
			UserID:    req.UserID,
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Title:     req.Title,
			Comment:   req.Comment,
		})
		switch {
		case errors.Is(err, review.ErrIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incomplete parameters"})
			return
		case errors.Is(err, review.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be a number between 0 and 5"})
			return
		case err != nil:
			// Covers ErrConflict (upsert race lost against a concurrent
			// submission) and unexpected store failures. Internal detail is
			// logged, never returned.
			logrus.WithFields(logrus.Fields{
				"user_id":    req.UserID,
				"product_id": req.ProductID,
				"error":      err.Error(),
			}).Error("Review submission failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
			return
		}
		// Invalidate every cached view the new rating can change
		ctx := context.Background()
		_ = cache.Invalidate(ctx, rdb,
			cache.TopReviewsKey(cache.DefaultReviewLimit),
			cache.BottomReviewsKey(cache.DefaultReviewLimit),
			cache.ProductReviewsKey(rev.ProductID),
		)
		c.JSON(http.StatusOK, gin.H{"review": reviewPayload{Review: rev, Stars: review.Stars(rev.Rating)}})
	}
}

// reviewLimit parses the ?n= query, default 5, capped at 50
func reviewLimit(c *gin.Context) int {
	n := cache.DefaultReviewLimit
	if q := c.Query("n"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 50 {
			n = v
		}
	}
	return n
}

// TopReviewsHandler returns the highest-rated reviews
func TopReviewsHandler(svc *review.Service, rdb *redis.Client) gin.HandlerFunc {
	return listReviewsHandler(svc.TopReviews, rdb, cache.TopReviewsKey)
}

// BottomReviewsHandler returns the lowest-rated reviews
func BottomReviewsHandler(svc *review.Service, rdb *redis.Client) gin.HandlerFunc {
	return listReviewsHandler(svc.BottomReviews, rdb, cache.BottomReviewsKey)
}

func listReviewsHandler(list func(context.Context, int) ([]domain.Review, error), rdb *redis.Client, key func(int) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := reviewLimit(c)
		ctx := context.Background()
		cacheKey := key(n)
		var cached []reviewPayload
		if found, err := cache.Get(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"reviews": cached, "cached": true})
			return
		}
		revs, err := list(c.Request.Context(), n)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		payload := withStars(revs)
		_ = cache.Set(ctx, rdb, cacheKey, payload, cache.TTL)
		c.JSON(http.StatusOK, gin.H{"reviews": payload, "cached": false})
	}
}
