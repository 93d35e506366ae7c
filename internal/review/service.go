package review

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"bank_portal/internal/domain"
	"bank_portal/internal/store"

	"github.com/sirupsen/logrus" // Logging library
)

// Service implements review submission and issue escalation over an
// explicit store handle.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService builds a Service using the wall clock
func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// WithClock overrides the clock, used by tests for deterministic timestamps
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitInput carries a review submission. Rating arrives as a string
// because the boundary accepts form fields.
type SubmitInput struct {
	UserID    uint
	ProductID uint
	Rating    string
	Title     string
	Comment   string
}

// Stars derives the displayed star count from a raw rating.
// Rounds half to even, matching the stored ratings' display semantics.
func Stars(rating float64) int {
	return int(math.RoundToEven(rating))
}

// SubmitReview creates or overwrites the caller's review of a product.
// A repeat submission for the same (user, product) pair updates the existing
// row in place and refreshes its timestamp; review history is not retained.
// The resulting review is always handed to the escalation check.
func (s *Service) SubmitReview(ctx context.Context, in SubmitInput) (domain.Review, error) {
	if in.UserID == 0 || in.ProductID == 0 || in.Rating == "" || in.Title == "" {
		return domain.Review{}, ErrIncomplete
	}
	rating, err := strconv.ParseFloat(in.Rating, 64)
	if err != nil || rating < 0 || rating > 5 {
		return domain.Review{}, ErrValidation
	}

	rev, err := s.store.FindReview(ctx, in.UserID, in.ProductID)
	switch {
	case err == nil:
		// Upsert: overwrite in place and refresh the timestamp
		rev.Rating = rating
		rev.Title = in.Title
		rev.Comment = in.Comment
		rev.CreatedAt = s.now()
		if err := s.store.SaveReview(ctx, &rev); err != nil {
			return domain.Review{}, err
		}
	case errors.Is(err, store.ErrNotFound):
		rev = domain.Review{
			UserID:    in.UserID,
			ProductID: in.ProductID,
			Rating:    rating,
			Title:     in.Title,
			Comment:   in.Comment,
			CreatedAt: s.now(),
		}
		if err := s.store.CreateReview(ctx, &rev); err != nil {
			if errors.Is(err, store.ErrConflict) {
				// Concurrent first-time submission won the race
				return domain.Review{}, ErrConflict
			}
			return domain.Review{}, err
		}
	default:
		return domain.Review{}, err
	}

	// Escalation failures do not undo the submission; the review is
	// already persisted.
	if issue, err := s.EvaluateForEscalation(ctx, rev); err != nil {
		logrus.WithFields(logrus.Fields{
			"review_id":  rev.ID,
			"product_id": rev.ProductID,
			"error":      err.Error(),
		}).Error("Escalation check failed")
	} else if issue != nil {
		logrus.WithFields(logrus.Fields{
			"issue_id":   issue.ID,
			"review_id":  rev.ID,
			"product_id": rev.ProductID,
			"rating":     rev.Rating,
		}).Info("Issue opened for below-average review")
	}
	return rev, nil
}

// EvaluateForEscalation opens a support issue when the review rates the
// product below the prior consensus. The average excludes the review under
// evaluation, so a product's first review never escalates.
func (s *Service) EvaluateForEscalation(ctx context.Context, rev domain.Review) (*domain.Issue, error) {
	avg, n, err := s.store.AverageRatingExcluding(ctx, rev.ProductID, rev.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// No prior reviews, average undefined
		return nil, nil
	}
	if rev.Rating >= avg {
		return nil, nil
	}
	issue := domain.Issue{
		ReviewID:  rev.ID,
		Status:    domain.IssueOpen,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateIssue(ctx, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// TopReviews returns the n highest-rated reviews
func (s *Service) TopReviews(ctx context.Context, n int) ([]domain.Review, error) {
	return s.store.TopReviews(ctx, n)
}

// BottomReviews returns the n lowest-rated reviews
func (s *Service) BottomReviews(ctx context.Context, n int) ([]domain.Review, error) {
	return s.store.BottomReviews(ctx, n)
}

// OpenIssues returns open issues ordered oldest first
func (s *Service) OpenIssues(ctx context.Context) ([]domain.Issue, error) {
	return s.store.OpenIssues(ctx)
}

// CloseIssue transitions an issue from open to closed. Closing is a manual
// staff action; there is no automated close.
func (s *Service) CloseIssue(ctx context.Context, id uint) (domain.Issue, error) {
	issue, err := s.store.GetIssue(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Issue{}, ErrNotFound
	} else if err != nil {
		return domain.Issue{}, err
	}
	if issue.Status == domain.IssueClosed {
		return issue, nil
	}
	issue.Status = domain.IssueClosed
	if err := s.store.SaveIssue(ctx, &issue); err != nil {
		return domain.Issue{}, err
	}
	return issue, nil
}
