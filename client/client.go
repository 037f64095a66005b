// Package client 封装对远端记账 API 的调用，每个请求单独携带 Bearer token。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/metrics"
	"fintrack/models"
)

// 远端 API 路径
const (
	pathLogin          = "/api/v1/auth/login"
	pathRegister       = "/api/v1/auth/register"
	pathTransactions   = "/api/v1/transactions"
	pathGroupBy        = "/api/v1/reports/groupByCategory"
	pathTimeSeries     = "/api/v1/reports/timeByCategory"
	pathCategoryTrends = "/api/v1/reports/categoryTrends"
	pathForecast       = "/api/v1/arima/predict"
)

// 单次响应体上限
const maxBodyBytes = 10 << 20

// Client 远端 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建客户端
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient 使用自定义 http.Client 创建客户端
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Login 邮箱密码登录，返回上游 token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
		User  *struct {
			ID    string `json:"_id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := c.do(ctx, "auth.login", http.MethodPost, pathLogin, nil, "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{Endpoint: "auth.login", StatusCode: http.StatusBadGateway, Message: "login response has no token"}
	}

	result := &LoginResult{Token: resp.Token, Email: email}
	if resp.User != nil {
		result.UserID = resp.User.ID
		result.Name = resp.User.Name
		if resp.User.Email != "" {
			result.Email = resp.User.Email
		}
	}
	// 响应中缺少用户信息时从 token 中补齐
	if info, err := InspectToken(resp.Token); err == nil {
		if result.UserID == "" {
			result.UserID = info.UserID
		}
		if result.Name == "" {
			result.Name = info.Name
		}
	}
	return result, nil
}

// Register 注册新账号
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, "auth.register", http.MethodPost, pathRegister, nil, "", body, nil)
}

// ListTransactions 获取当前用户的全部交易
func (c *Client) ListTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	var raw json.RawMessage
	if err := c.do(ctx, "transactions.list", http.MethodGet, pathTransactions, nil, token, nil, &raw); err != nil {
		return nil, err
	}
	return decodeTransactionList(raw)
}

// decodeTransactionList 兼容裸数组与 {data|transactions: [...]} 两种格式
func decodeTransactionList(raw json.RawMessage) ([]models.Transaction, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.Transaction{}, nil
	}

	var list []models.Transaction
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("解析交易列表失败: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Data         []models.Transaction `json:"data"`
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("解析交易列表失败: %w", err)
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Transactions != nil {
		return wrapped.Transactions, nil
	}
	return []models.Transaction{}, nil
}

// CreateTransaction 创建交易，返回上游保存后的记录
func (c *Client) CreateTransaction(ctx context.Context, token string, payload models.CreateTransactionPayload) (*models.Transaction, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	var resp struct {
		Transaction *models.Transaction `json:"transaction"`
	}
	if err := c.do(ctx, "transactions.create", http.MethodPost, pathTransactions, nil, token, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Transaction == nil {
		// 上游未回显记录时按提交内容构造
		return &models.Transaction{
			Date:        payload.Date,
			Mode:        payload.Mode,
			Category:    payload.Category,
			SubCategory: payload.SubCategory,
			Note:        payload.Note,
			Amount:      payload.Amount,
			Type:        models.TransactionType(payload.Type),
			Currency:    payload.Currency,
			UserID:      payload.UserID,
		}, nil
	}
	return resp.Transaction, nil
}

// GroupBy 按 category 或 mode 聚合金额
func (c *Client) GroupBy(ctx context.Context, token, field string) ([]GroupTotal, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	query := url.Values{"field": {field}}
	var resp struct {
		Data []GroupTotal `json:"data"`
	}
	if err := c.do(ctx, "reports.group_by_"+field, http.MethodGet, pathGroupBy, query, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// TimeSeries 按时间粒度（如 year）聚合指定字段
func (c *Client) TimeSeries(ctx context.Context, token, field, timeBy string) ([]TimeBucket, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	query := url.Values{"field": {field}, "timeBy": {timeBy}}
	var resp struct {
		Data []TimeBucket `json:"data"`
	}
	if err := c.do(ctx, "reports.time_series", http.MethodGet, pathTimeSeries, query, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CategoryTrends 获取按月分类支出趋势
func (c *Client) CategoryTrends(ctx context.Context, token string) (*CategoryTrends, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	var resp struct {
		Data *CategoryTrends `json:"data"`
	}
	if err := c.do(ctx, "reports.category_trends", http.MethodGet, pathCategoryTrends, nil, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &CategoryTrends{}, nil
	}
	return resp.Data, nil
}

// Forecast 获取未来 steps 天的支出预测
func (c *Client) Forecast(ctx context.Context, token string, steps int) ([]float64, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	query := url.Values{"steps": {strconv.Itoa(steps)}}
	var values []float64
	if err := c.do(ctx, "forecast.predict", http.MethodGet, pathForecast, query, token, nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// do 发送请求并解码 JSON 响应；out 为 nil 时丢弃响应体
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, token string, in, out interface{}) error {
	started := time.Now()
	status := "error"
	defer func() { metrics.ObserveUpstream(endpoint, status, started) }()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: 编码请求失败: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: 创建请求失败: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "请求上游失败", "endpoint", endpoint, "error", err)
		return fmt.Errorf("%s: 请求上游失败: %w", endpoint, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: 读取响应失败: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(endpoint, resp.StatusCode, data)
		slog.WarnContext(ctx, "上游返回错误", "endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: 解析响应失败: %w", endpoint, err)
	}
	return nil
}
