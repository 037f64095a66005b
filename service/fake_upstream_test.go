package service

import (
	"context"
	"sync"

	"fintrack/client"
	"fintrack/models"
)

// fakeUpstream 测试用远端 API
type fakeUpstream struct {
	mu sync.Mutex

	loginResult *client.LoginResult
	loginErr    error
	registerErr error

	transactions []models.Transaction
	listErr      error
	listCalls    int

	created   []models.CreateTransactionPayload
	createErr error

	groups      map[string][]client.GroupTotal
	groupErr    error
	buckets     []client.TimeBucket
	trends      *client.CategoryTrends
	forecast    []float64
	forecastErr error
	steps       []int
	tokens      []string
}

func (f *fakeUpstream) record(token string) {
	f.tokens = append(f.tokens, token)
}

func (f *fakeUpstream) Login(_ context.Context, email, _ string) (*client.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.loginResult != nil {
		return f.loginResult, nil
	}
	return &client.LoginResult{Token: "tok", Email: email}, nil
}

func (f *fakeUpstream) Register(context.Context, string, string, string) error {
	return f.registerErr
}

func (f *fakeUpstream) ListTransactions(_ context.Context, token string) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(token)
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.transactions, nil
}

func (f *fakeUpstream) CreateTransaction(_ context.Context, token string, payload models.CreateTransactionPayload) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(token)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payload)
	return &models.Transaction{
		ID:       "new",
		Date:     payload.Date,
		Category: payload.Category,
		Amount:   payload.Amount,
		Type:     models.TransactionType(payload.Type),
	}, nil
}

func (f *fakeUpstream) GroupBy(_ context.Context, token, field string) ([]client.GroupTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(token)
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return f.groups[field], nil
}

func (f *fakeUpstream) TimeSeries(_ context.Context, token, _, _ string) ([]client.TimeBucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(token)
	return f.buckets, nil
}

func (f *fakeUpstream) CategoryTrends(_ context.Context, token string) (*client.CategoryTrends, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(token)
	if f.trends == nil {
		return &client.CategoryTrends{}, nil
	}
	return f.trends, nil
}

func (f *fakeUpstream) Forecast(_ context.Context, token string, steps int) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(token)
	f.steps = append(f.steps, steps)
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.forecast, nil
}
