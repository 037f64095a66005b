package service

import (
	"context"

	"fintrack/client"
	"fintrack/models"
)

// Upstream 远端记账 API，*client.Client 实现该接口
type Upstream interface {
	Login(ctx context.Context, email, password string) (*client.LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
	ListTransactions(ctx context.Context, token string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, token string, payload models.CreateTransactionPayload) (*models.Transaction, error)
	GroupBy(ctx context.Context, token, field string) ([]client.GroupTotal, error)
	TimeSeries(ctx context.Context, token, field, timeBy string) ([]client.TimeBucket, error)
	CategoryTrends(ctx context.Context, token string) (*client.CategoryTrends, error)
	Forecast(ctx context.Context, token string, steps int) ([]float64, error)
}

var _ Upstream = (*client.Client)(nil)
