package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching against store sentinels
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Log timestamps

	"bank_portal/internal/cache"
	"bank_portal/internal/domain"
	"bank_portal/internal/finance"
	"bank_portal/internal/store"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"github.com/sirupsen/logrus" // Logging library
)

// productResponse is the product page payload
type productResponse struct {
	Product  domain.Product      `json:"product"`
	Category string              `json:"category"`
	Detail   store.ProductDetail `json:"detail"`
	Reviews  []reviewPayload     `json:"reviews"`
	AvgStars int                 `json:"avg_stars"`
}

// ProductHandler returns a product with its category detail and reviews.
// When ?userid= identifies a known user the view is recorded as a Log row
// for the activity dashboard.
func ProductHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		ctx := c.Request.Context()
		product, err := st.GetProduct(ctx, uint(id))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		detail, err := st.GetProductDetail(ctx, product)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		var reviews []domain.Review
		cacheKey := cache.ProductReviewsKey(product.ID)
		rctx := context.Background()
		if found, cerr := cache.Get(rctx, rdb, cacheKey, &reviews); cerr != nil || !found {
			reviews, err = st.ReviewsByProduct(ctx, product.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
				return
			}
			_ = cache.Set(rctx, rdb, cacheKey, reviews, cache.TTL)
		}
		// Record the view when the visitor identifies themselves
		if q := c.Query("userid"); q != "" {
			if uid, uerr := strconv.Atoi(q); uerr == nil && uid > 0 {
				if _, uerr := st.GetUser(ctx, uint(uid)); uerr == nil {
					l := domain.Log{UserID: uint(uid), ProductID: product.ID, Timestamp: time.Now()}
					if lerr := st.CreateLog(ctx, &l); lerr != nil {
						logrus.WithFields(logrus.Fields{
							"user_id":    uid,
							"product_id": product.ID,
							"error":      lerr.Error(),
						}).Warn("Failed to record product view")
					}
				}
			}
		}
		ratings := make([]float64, 0, len(reviews))
		for _, r := range reviews {
			ratings = append(ratings, r.Rating)
		}
		c.JSON(http.StatusOK, productResponse{
			Product:  product,
			Category: product.CategoryName(),
			Detail:   detail,
			Reviews:  withStars(reviews),
			AvgStars: finance.AverageStars(ratings),
		})
	}
}
