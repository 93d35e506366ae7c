package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bank_portal/internal/domain"
	"bank_portal/internal/review"
	"bank_portal/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRedis points at a closed port; cache lookups miss and writes are
// dropped, so handlers exercise their store path.
func testRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func newRouter(ms *store.MemStore) (*gin.Engine, *review.Service) {
	gin.SetMode(gin.TestMode)
	svc := review.NewService(ms)
	rdb := testRedis()
	r := gin.New()
	r.POST("/reviews", SubmitReviewHandler(svc, rdb))
	r.GET("/reviews/top", TopReviewsHandler(svc, rdb))
	r.GET("/products/:id", ProductHandler(ms, rdb))
	r.GET("/dashboard/bank", BankDashboardHandler(ms, rdb))
	r.GET("/dashboard/customer", CustomerDashboardHandler(ms, svc, rdb))
	r.GET("/support/issues", OpenIssuesHandler(svc))
	r.POST("/support/issues/:id/close", CloseIssueHandler(svc))
	r.POST("/webhook/update_accounts/:account_number", UpdateAccountsHandler(ms, rdb))
	r.POST("/webhook/mini_statement/:account_number", MiniStatementHandler(ms, rdb))
	return r, svc
}

func seed(ms *store.MemStore) {
	ms.AddUser(domain.User{ID: 1, Name: "asha", CIF: "123"})
	ms.AddProduct(domain.Product{ID: 1, Name: "Dream Home Loan", Category: domain.CategoryHomeLoan})
	ms.AddHomeLoan(domain.HomeLoan{ID: 1, ProductID: 1, LoanName: "Dream Home Loan", InterestRate: 0.01})
	ms.AddAccount(domain.Account{AccountNumber: "ACC-1", OwnerCIF: "123", Balance: "1000.00"})
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitReviewHandler(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	// Missing rating
	w := doJSON(r, http.MethodPost, "/reviews", gin.H{"userid": 1, "productid": 1, "title": "t"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Incomplete parameters")

	// Out-of-range rating
	w = doJSON(r, http.MethodPost, "/reviews", gin.H{"userid": 1, "productid": 1, "rating": "9", "title": "t"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid submission
	w = doJSON(r, http.MethodPost, "/reviews", gin.H{
		"userid": 1, "productid": 1, "rating": "4.5", "title": "nice", "comment": "works",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Review struct {
			ID    uint `json:"ID"`
			Stars int  `json:"stars"`
		} `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Review.ID)
	assert.Equal(t, 4, resp.Review.Stars)
	assert.Len(t, ms.Reviews(), 1)
}

func TestSubmitReviewHandler_FormEncoded(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	form := "userid=1&productid=1&rating=3.5&title=okay&comment=fine"
	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ms.Reviews(), 1)
}

func TestProductHandler(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	w := doJSON(r, http.MethodGet, "/products/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Known visitor gets logged
	w = doJSON(r, http.MethodGet, "/products/1?userid=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Home Loan")
	require.Len(t, ms.Logs(), 1)
	assert.Equal(t, uint(1), ms.Logs()[0].ProductID)

	// Anonymous view is not logged
	w = doJSON(r, http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ms.Logs(), 1)
}

func TestSupportHandlers(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	issue := domain.Issue{ReviewID: 1, Status: domain.IssueOpen, CreatedAt: time.Now()}
	require.NoError(t, ms.CreateIssue(context.Background(), &issue))

	w := doJSON(r, http.MethodGet, "/support/issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "open")

	w = doJSON(r, http.MethodPost, "/support/issues/999/close", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/support/issues/1/close", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "closed")

	w = doJSON(r, http.MethodGet, "/support/issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"Status":"open"`)
}

func TestBankDashboardHandler(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	now := time.Now()
	for i := 0; i < 4; i++ {
		l := domain.Log{UserID: 1, ProductID: 1, Timestamp: now.Add(-time.Duration(i) * time.Hour)}
		require.NoError(t, ms.CreateLog(context.Background(), &l))
	}

	w := doJSON(r, http.MethodGet, "/dashboard/bank", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Activity struct {
			Labels []string  `json:"labels"`
			Values []float64 `json:"values"`
		} `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Activity.Values, 10)
	total := 0.0
	for _, v := range resp.Activity.Values {
		total += v
	}
	assert.Equal(t, 4.0, total)
}

func TestCustomerDashboardHandler(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, svc := newRouter(ms)

	now := time.Now()
	for i, amount := range []string{"10.00", "20.50"} {
		tx := domain.Transaction{
			Timestamp:     now.Add(-time.Duration(i+1) * time.Hour),
			Amount:        decimal.RequireFromString(amount),
			AccountNumber: "ACC-1",
		}
		require.NoError(t, ms.CreateTransaction(context.Background(), &tx))
	}
	_, err := svc.SubmitReview(context.Background(), review.SubmitInput{
		UserID: 1, ProductID: 1, Rating: "4.5", Title: "nice",
	})
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/dashboard/customer", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/dashboard/customer?account=NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The payload carries both the spending chart and the top reviews
	w = doJSON(r, http.MethodGet, "/dashboard/customer?account=ACC-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Spending struct {
			Labels []string  `json:"labels"`
			Values []float64 `json:"values"`
		} `json:"spending"`
		TopReviews []struct {
			Stars int `json:"stars"`
		} `json:"top_reviews"`
		Cached bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Cached)
	assert.Len(t, resp.Spending.Values, 10)
	total := 0.0
	for _, v := range resp.Spending.Values {
		total += v
	}
	assert.Equal(t, 30.5, total)
	require.Len(t, resp.TopReviews, 1)
	assert.Equal(t, 4, resp.TopReviews[0].Stars)
}

func TestWebhookHandlers(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	// Snapshot for a new account
	w := doJSON(r, http.MethodPost, "/webhook/update_accounts/ACC-2", gin.H{
		"owner_cif": "456", "balance": "2500.75", "principal": "2000.00",
		"opening_date": "2020-01-15", "maturity_date": "2030-01-15",
	})
	require.Equal(t, http.StatusOK, w.Code)
	acc, err := ms.GetAccount(context.Background(), "ACC-2")
	require.NoError(t, err)
	assert.Equal(t, "2500.75", acc.Balance)

	// Balance must be a decimal string
	w = doJSON(r, http.MethodPost, "/webhook/update_accounts/ACC-3", gin.H{"balance": "lots"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Mini statement for an unknown account
	w = doJSON(r, http.MethodPost, "/webhook/mini_statement/NOPE", gin.H{
		"transactions": []gin.H{{"timestamp": time.Now().Format(time.RFC3339), "amount": "10.00"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Append two transactions
	w = doJSON(r, http.MethodPost, "/webhook/mini_statement/ACC-1", gin.H{
		"transactions": []gin.H{
			{"timestamp": time.Now().Add(-time.Hour).Format(time.RFC3339), "amount": "10.00"},
			{"timestamp": time.Now().Format(time.RFC3339), "amount": "20.50"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ms.Transactions(), 2)
}

func TestMiniStatementHandler_BadAmountRejectsWholeBatch(t *testing.T) {
	ms := store.NewMemStore()
	seed(ms)
	r, _ := newRouter(ms)

	// A malformed amount anywhere in the batch must not persist the rows
	// before it; a retried batch would otherwise duplicate them
	w := doJSON(r, http.MethodPost, "/webhook/mini_statement/ACC-1", gin.H{
		"transactions": []gin.H{
			{"timestamp": time.Now().Add(-time.Hour).Format(time.RFC3339), "amount": "10.00"},
			{"timestamp": time.Now().Format(time.RFC3339), "amount": "ten bucks"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ms.Transactions())
}
