package store

import (
	"context"
	"errors"
	"time"

	"bank_portal/internal/domain"
)

// Sentinel errors the implementations translate store failures into.
// Anything else propagates unchanged.
var (
	ErrNotFound = errors.New("record not found")     // Referenced row absent
	ErrConflict = errors.New("uniqueness violation") // Duplicate key despite upsert check
)

// ProductDetail carries the category-specific row attached to a product.
// Exactly one field is set, matching the product's category.
type ProductDetail struct {
	HomeLoan  *domain.HomeLoan
	EduLoan   *domain.EduLoan
	Insurance *domain.Insurance
}

// Store is the persistence handle passed into every service operation.
type Store interface {
	// Users and products
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetProduct(ctx context.Context, id uint) (domain.Product, error)
	GetProductDetail(ctx context.Context, p domain.Product) (ProductDetail, error)

	// Reviews
	FindReview(ctx context.Context, userID, productID uint) (domain.Review, error)
	CreateReview(ctx context.Context, r *domain.Review) error
	SaveReview(ctx context.Context, r *domain.Review) error
	ReviewsByProduct(ctx context.Context, productID uint) ([]domain.Review, error)
	// AverageRatingExcluding averages the product's ratings, leaving out the
	// given review ID. n is the number of rows averaged.
	AverageRatingExcluding(ctx context.Context, productID, reviewID uint) (avg float64, n int64, err error)
	TopReviews(ctx context.Context, limit int) ([]domain.Review, error)
	BottomReviews(ctx context.Context, limit int) ([]domain.Review, error)

	// Issues
	CreateIssue(ctx context.Context, i *domain.Issue) error
	GetIssue(ctx context.Context, id uint) (domain.Issue, error)
	SaveIssue(ctx context.Context, i *domain.Issue) error
	OpenIssues(ctx context.Context) ([]domain.Issue, error)

	// Activity and transactions
	CreateLog(ctx context.Context, l *domain.Log) error
	LogsBetween(ctx context.Context, from, to time.Time) ([]domain.Log, error)
	CreateTransaction(ctx context.Context, t *domain.Transaction) error
	TransactionsForAccount(ctx context.Context, accountNumber string, from, to time.Time) ([]domain.Transaction, error)

	// Accounts
	GetAccount(ctx context.Context, accountNumber string) (domain.Account, error)
	UpsertAccount(ctx context.Context, a *domain.Account) error
}
