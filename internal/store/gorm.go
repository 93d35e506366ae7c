package store

import (
	"context"
	"errors"
	"time"

	"bank_portal/internal/domain"

	"gorm.io/gorm" // GORM ORM library
)

// GormStore implements Store on top of a GORM connection.
// Requires the connection to be opened with TranslateError so duplicate-key
// failures surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps GORM errors onto the store sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	return u, translate(err)
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	return p, translate(err)
}

// GetProductDetail loads the category row matching the product's category
func (s *GormStore) GetProductDetail(ctx context.Context, p domain.Product) (ProductDetail, error) {
	var detail ProductDetail
	var err error
	switch p.Category {
	case domain.CategoryHomeLoan:
		var hl domain.HomeLoan
		err = s.db.WithContext(ctx).Where("product_id = ?", p.ID).First(&hl).Error
		detail.HomeLoan = &hl
	case domain.CategoryEduLoan:
		var el domain.EduLoan
		err = s.db.WithContext(ctx).Where("product_id = ?", p.ID).First(&el).Error
		detail.EduLoan = &el
	case domain.CategoryDeposit:
		var in domain.Insurance
		err = s.db.WithContext(ctx).Where("product_id = ?", p.ID).First(&in).Error
		detail.Insurance = &in
	}
	if err != nil {
		return ProductDetail{}, translate(err)
	}
	return detail, nil
}

func (s *GormStore) FindReview(ctx context.Context, userID, productID uint) (domain.Review, error) {
	var r domain.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&r).Error
	return r, translate(err)
}

func (s *GormStore) CreateReview(ctx context.Context, r *domain.Review) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *GormStore) SaveReview(ctx context.Context, r *domain.Review) error {
	return translate(s.db.WithContext(ctx).Save(r).Error)
}

func (s *GormStore) ReviewsByProduct(ctx context.Context, productID uint) ([]domain.Review, error) {
	var reviews []domain.Review
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("User").
		Find(&reviews).Error
	return reviews, translate(err)
}

// AverageRatingExcluding computes the running consensus for a product,
// leaving out the review under evaluation.
func (s *GormStore) AverageRatingExcluding(ctx context.Context, productID, reviewID uint) (float64, int64, error) {
	var row struct {
		Avg float64
		N   int64
	}
	err := s.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS n").
		Where("product_id = ? AND id <> ?", productID, reviewID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, translate(err)
	}
	return row.Avg, row.N, nil
}

func (s *GormStore) TopReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	return s.reviewsByRating(ctx, "rating desc", limit)
}

func (s *GormStore) BottomReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	return s.reviewsByRating(ctx, "rating asc", limit)
}

func (s *GormStore) reviewsByRating(ctx context.Context, order string, limit int) ([]domain.Review, error) {
	var reviews []domain.Review
	err := s.db.WithContext(ctx).
		Order(order).
		Limit(limit).
		Preload("User").
		Preload("Product").
		Find(&reviews).Error
	return reviews, translate(err)
}

func (s *GormStore) CreateIssue(ctx context.Context, i *domain.Issue) error {
	return translate(s.db.WithContext(ctx).Create(i).Error)
}

func (s *GormStore) GetIssue(ctx context.Context, id uint) (domain.Issue, error) {
	var i domain.Issue
	err := s.db.WithContext(ctx).First(&i, id).Error
	return i, translate(err)
}

func (s *GormStore) SaveIssue(ctx context.Context, i *domain.Issue) error {
	return translate(s.db.WithContext(ctx).Save(i).Error)
}

func (s *GormStore) OpenIssues(ctx context.Context) ([]domain.Issue, error) {
	var issues []domain.Issue
	err := s.db.WithContext(ctx).
		Where("status = ?", domain.IssueOpen).
		Order("created_at asc").
		Preload("Review").
		Preload("Review.User").
		Preload("Review.Product").
		Find(&issues).Error
	return issues, translate(err)
}

func (s *GormStore) CreateLog(ctx context.Context, l *domain.Log) error {
	return translate(s.db.WithContext(ctx).Create(l).Error)
}

func (s *GormStore) LogsBetween(ctx context.Context, from, to time.Time) ([]domain.Log, error) {
	var logs []domain.Log
	err := s.db.WithContext(ctx).
		Where("timestamp > ? AND timestamp < ?", from, to).
		Order("timestamp asc").
		Find(&logs).Error
	return logs, translate(err)
}

func (s *GormStore) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *GormStore) TransactionsForAccount(ctx context.Context, accountNumber string, from, to time.Time) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("account_number = ? AND timestamp > ? AND timestamp < ?", accountNumber, from, to).
		Order("timestamp asc").
		Find(&txs).Error
	return txs, translate(err)
}

func (s *GormStore) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	var a domain.Account
	err := s.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&a).Error
	return a, translate(err)
}

// UpsertAccount replaces the stored snapshot for the account number
func (s *GormStore) UpsertAccount(ctx context.Context, a *domain.Account) error {
	return translate(s.db.WithContext(ctx).Save(a).Error)
}
