package review

import (
	"context"
	"testing"
	"time"

	"bank_portal/internal/domain"
	"bank_portal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*store.MemStore, *Service, time.Time) {
	t.Helper()
	ms := store.NewMemStore()
	ms.AddUser(domain.User{ID: 1, Name: "asha", CIF: "123"})
	ms.AddUser(domain.User{ID: 2, Name: "vikram", CIF: "456"})
	ms.AddUser(domain.User{ID: 3, Name: "meera", CIF: "789"})
	ms.AddUser(domain.User{ID: 4, Name: "rohit", CIF: "012"})
	ms.AddProduct(domain.Product{ID: 1, Name: "Dream Home Loan", Category: domain.CategoryHomeLoan})
	ms.AddProduct(domain.Product{ID: 2, Name: "Scholar Loan", Category: domain.CategoryEduLoan})
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(ms).WithClock(func() time.Time { return now })
	return ms, svc, now
}

func TestStars(t *testing.T) {
	// Round half to even
	cases := map[float64]int{
		0:   0,
		0.5: 0,
		1.5: 2,
		2.5: 2,
		3.3: 3,
		3.5: 4,
		4.6: 5,
		5:   5,
	}
	for rating, want := range cases {
		assert.Equal(t, want, Stars(rating), "rating %v", rating)
	}
}

func TestSubmitReview_CreatesReview(t *testing.T) {
	ms, svc, now := newFixture(t)

	rev, err := svc.SubmitReview(context.Background(), SubmitInput{
		UserID:    1,
		ProductID: 1,
		Rating:    "4.3",
		Title:     "solid product",
		Comment:   "works for me",
	})
	require.NoError(t, err)
	assert.NotZero(t, rev.ID)
	assert.Equal(t, 4.3, rev.Rating)
	assert.Equal(t, 4, Stars(rev.Rating))
	assert.Equal(t, now, rev.CreatedAt)
	assert.Len(t, ms.Reviews(), 1)
}

func TestSubmitReview_UpsertsExistingPair(t *testing.T) {
	ms, svc, now := newFixture(t)
	ctx := context.Background()

	first, err := svc.SubmitReview(ctx, SubmitInput{
		UserID: 1, ProductID: 1, Rating: "4.0", Title: "good", Comment: "ok",
	})
	require.NoError(t, err)

	later := now.Add(48 * time.Hour)
	svc.WithClock(func() time.Time { return later })

	second, err := svc.SubmitReview(ctx, SubmitInput{
		UserID: 1, ProductID: 1, Rating: "1.0", Title: "changed my mind", Comment: "not good",
	})
	require.NoError(t, err)

	// Same row overwritten, not appended
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, ms.Reviews(), 1)
	stored := ms.Reviews()[0]
	assert.Equal(t, 1.0, stored.Rating)
	assert.Equal(t, "changed my mind", stored.Title)
	assert.Equal(t, "not good", stored.Comment)
	assert.Equal(t, later, stored.CreatedAt)
}

func TestSubmitReview_Validation(t *testing.T) {
	_, svc, _ := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{"missing user", SubmitInput{ProductID: 1, Rating: "3", Title: "t"}, ErrIncomplete},
		{"missing product", SubmitInput{UserID: 1, Rating: "3", Title: "t"}, ErrIncomplete},
		{"missing rating", SubmitInput{UserID: 1, ProductID: 1, Title: "t"}, ErrIncomplete},
		{"missing title", SubmitInput{UserID: 1, ProductID: 1, Rating: "3"}, ErrIncomplete},
		{"rating not a number", SubmitInput{UserID: 1, ProductID: 1, Rating: "lots", Title: "t"}, ErrValidation},
		{"rating above range", SubmitInput{UserID: 1, ProductID: 1, Rating: "5.1", Title: "t"}, ErrValidation},
		{"rating below range", SubmitInput{UserID: 1, ProductID: 1, Rating: "-0.1", Title: "t"}, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitReview(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Boundary values are accepted
	for _, rating := range []string{"0", "5"} {
		_, err := svc.SubmitReview(ctx, SubmitInput{UserID: 2, ProductID: 2, Rating: rating, Title: "edge"})
		assert.NoError(t, err, "rating %s", rating)
	}
}

// raceStore simulates the check-then-act race: the existence check misses
// the concurrently inserted row, so the create hits the unique index.
type raceStore struct {
	*store.MemStore
}

func (r raceStore) FindReview(context.Context, uint, uint) (domain.Review, error) {
	return domain.Review{}, store.ErrNotFound
}

func TestSubmitReview_ConflictOnConcurrentFirstSubmission(t *testing.T) {
	ms, _, now := newFixture(t)
	require.NoError(t, ms.CreateReview(context.Background(), &domain.Review{
		UserID: 1, ProductID: 1, Rating: 3, Title: "winner", CreatedAt: now,
	}))

	svc := NewService(raceStore{ms}).WithClock(func() time.Time { return now })
	_, err := svc.SubmitReview(context.Background(), SubmitInput{
		UserID: 1, ProductID: 1, Rating: "2", Title: "loser",
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, ms.Reviews(), 1)
}

func TestEscalation_FirstReviewNeverEscalates(t *testing.T) {
	ms, svc, _ := newFixture(t)

	_, err := svc.SubmitReview(context.Background(), SubmitInput{
		UserID: 1, ProductID: 1, Rating: "0", Title: "terrible",
	})
	require.NoError(t, err)
	// No prior reviews, average undefined, no issue
	assert.Empty(t, ms.Issues())
}

func TestEscalation_BelowPriorAverageOpensIssue(t *testing.T) {
	ms, svc, _ := newFixture(t)
	ctx := context.Background()

	// Prior consensus on product 1: (3+2+5)/3 = 3.33
	for _, sub := range []SubmitInput{
		{UserID: 1, ProductID: 1, Rating: "3", Title: "fine"},
		{UserID: 2, ProductID: 1, Rating: "2", Title: "meh"},
		{UserID: 3, ProductID: 1, Rating: "5", Title: "great"},
	} {
		_, err := svc.SubmitReview(ctx, sub)
		require.NoError(t, err)
	}
	// Rating 2 is below (3)/1 at submission time, rating 5 is not below (3+2)/2;
	// only the second submission escalated so far
	require.Len(t, ms.Issues(), 1)

	rev, err := svc.SubmitReview(ctx, SubmitInput{
		UserID: 4, ProductID: 1, Rating: "1", Title: "awful",
	})
	require.NoError(t, err)

	issues := ms.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, rev.ID, issues[1].ReviewID)
	assert.Equal(t, domain.IssueOpen, issues[1].Status)
}

func TestEscalation_AtOrAboveAverageIsNoop(t *testing.T) {
	ms, svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, SubmitInput{UserID: 1, ProductID: 1, Rating: "3", Title: "baseline"})
	require.NoError(t, err)

	// Equal to the prior average: no escalation
	_, err = svc.SubmitReview(ctx, SubmitInput{UserID: 2, ProductID: 1, Rating: "3", Title: "same"})
	require.NoError(t, err)
	// Above: no escalation either
	_, err = svc.SubmitReview(ctx, SubmitInput{UserID: 3, ProductID: 1, Rating: "4", Title: "better"})
	require.NoError(t, err)

	assert.Empty(t, ms.Issues())
}

func TestCloseIssue(t *testing.T) {
	ms, svc, now := newFixture(t)
	ctx := context.Background()

	issue := domain.Issue{ReviewID: 7, Status: domain.IssueOpen, CreatedAt: now}
	require.NoError(t, ms.CreateIssue(ctx, &issue))

	closed, err := svc.CloseIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueClosed, closed.Status)

	// Closing again is a no-op
	again, err := svc.CloseIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueClosed, again.Status)

	open, err := svc.OpenIssues(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.CloseIssue(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenIssues_OldestFirst(t *testing.T) {
	ms, svc, now := newFixture(t)
	ctx := context.Background()

	newer := domain.Issue{ReviewID: 1, Status: domain.IssueOpen, CreatedAt: now.Add(time.Hour)}
	older := domain.Issue{ReviewID: 2, Status: domain.IssueOpen, CreatedAt: now}
	require.NoError(t, ms.CreateIssue(ctx, &newer))
	require.NoError(t, ms.CreateIssue(ctx, &older))

	open, err := svc.OpenIssues(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, uint(2), open[0].ReviewID)
	assert.Equal(t, uint(1), open[1].ReviewID)
}
