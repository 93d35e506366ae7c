package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"bank_portal/internal/domain"
)

// MemStore is an in-memory Store used by tests. It mirrors the relational
// semantics the GORM store relies on: assigned primary keys, the composite
// unique index on (user_id, product_id) and not-found sentinels.
type MemStore struct {
	mu        sync.Mutex
	users     map[uint]domain.User
	products  map[uint]domain.Product
	homeLoans map[uint]domain.HomeLoan  // keyed by product ID
	eduLoans  map[uint]domain.EduLoan   // keyed by product ID
	insurance map[uint]domain.Insurance // keyed by product ID
	accounts  map[string]domain.Account
	reviews   []domain.Review
	issues    []domain.Issue
	logs      []domain.Log
	txs       []domain.Transaction
	nextID    uint
}

// NewMemStore builds an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		users:     make(map[uint]domain.User),
		products:  make(map[uint]domain.Product),
		homeLoans: make(map[uint]domain.HomeLoan),
		eduLoans:  make(map[uint]domain.EduLoan),
		insurance: make(map[uint]domain.Insurance),
		accounts:  make(map[string]domain.Account),
	}
}

func (m *MemStore) nextKey() uint {
	m.nextID++
	return m.nextID
}

// AddUser seeds a user
func (m *MemStore) AddUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// AddProduct seeds a product
func (m *MemStore) AddProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// AddHomeLoan seeds a home-loan detail row
func (m *MemStore) AddHomeLoan(hl domain.HomeLoan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.homeLoans[hl.ProductID] = hl
}

// AddAccount seeds an account snapshot
func (m *MemStore) AddAccount(a domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.AccountNumber] = a
}

// Reviews returns a copy of all stored reviews
func (m *MemStore) Reviews() []domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Review(nil), m.reviews...)
}

// Issues returns a copy of all stored issues
func (m *MemStore) Issues() []domain.Issue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Issue(nil), m.issues...)
}

// Logs returns a copy of all stored view logs
func (m *MemStore) Logs() []domain.Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Log(nil), m.logs...)
}

// Transactions returns a copy of all stored transactions
func (m *MemStore) Transactions() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Transaction(nil), m.txs...)
}

func (m *MemStore) GetUser(_ context.Context, id uint) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemStore) GetProduct(_ context.Context, id uint) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemStore) GetProductDetail(_ context.Context, p domain.Product) (ProductDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch p.Category {
	case domain.CategoryHomeLoan:
		if hl, ok := m.homeLoans[p.ID]; ok {
			return ProductDetail{HomeLoan: &hl}, nil
		}
	case domain.CategoryEduLoan:
		if el, ok := m.eduLoans[p.ID]; ok {
			return ProductDetail{EduLoan: &el}, nil
		}
	case domain.CategoryDeposit:
		if in, ok := m.insurance[p.ID]; ok {
			return ProductDetail{Insurance: &in}, nil
		}
	}
	return ProductDetail{}, ErrNotFound
}

func (m *MemStore) FindReview(_ context.Context, userID, productID uint) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return r, nil
		}
	}
	return domain.Review{}, ErrNotFound
}

func (m *MemStore) CreateReview(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return ErrConflict
		}
	}
	r.ID = m.nextKey()
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *MemStore) SaveReview(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.reviews {
		if existing.ID == r.ID {
			m.reviews[i] = *r
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) ReviewsByProduct(_ context.Context, productID uint) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemStore) AverageRatingExcluding(_ context.Context, productID, reviewID uint) (float64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum float64
	var n int64
	for _, r := range m.reviews {
		if r.ProductID == productID && r.ID != reviewID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

func (m *MemStore) TopReviews(_ context.Context, limit int) ([]domain.Review, error) {
	return m.sortedReviews(limit, func(a, b domain.Review) bool { return a.Rating > b.Rating }), nil
}

func (m *MemStore) BottomReviews(_ context.Context, limit int) ([]domain.Review, error) {
	return m.sortedReviews(limit, func(a, b domain.Review) bool { return a.Rating < b.Rating }), nil
}

func (m *MemStore) sortedReviews(limit int, less func(a, b domain.Review) bool) []domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.Review(nil), m.reviews...)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *MemStore) CreateIssue(_ context.Context, i *domain.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i.ID = m.nextKey()
	m.issues = append(m.issues, *i)
	return nil
}

func (m *MemStore) GetIssue(_ context.Context, id uint) (domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.issues {
		if i.ID == id {
			return i, nil
		}
	}
	return domain.Issue{}, ErrNotFound
}

func (m *MemStore) SaveIssue(_ context.Context, issue *domain.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.issues {
		if existing.ID == issue.ID {
			m.issues[i] = *issue
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemStore) OpenIssues(_ context.Context) ([]domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Issue
	for _, i := range m.issues {
		if i.Status == domain.IssueOpen {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) CreateLog(_ context.Context, l *domain.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextKey()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *MemStore) LogsBetween(_ context.Context, from, to time.Time) ([]domain.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Log
	for _, l := range m.logs {
		if l.Timestamp.After(from) && l.Timestamp.Before(to) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MemStore) CreateTransaction(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextKey()
	m.txs = append(m.txs, *t)
	return nil
}

func (m *MemStore) TransactionsForAccount(_ context.Context, accountNumber string, from, to time.Time) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, t := range m.txs {
		if t.AccountNumber == accountNumber && t.Timestamp.After(from) && t.Timestamp.Before(to) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MemStore) GetAccount(_ context.Context, accountNumber string) (domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountNumber]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return a, nil
}

func (m *MemStore) UpsertAccount(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.AccountNumber] = *a
	return nil
}
