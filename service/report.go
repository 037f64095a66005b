package service

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"fintrack/client"
	"fintrack/models"

	"golang.org/x/sync/errgroup"
)

// 预测步数范围
const (
	DefaultForecastSteps = 12
	MinForecastSteps     = 1
	MaxForecastSteps     = 30
)

// 预测值超过平均值的该倍数时提示超支
const budgetAlertRatio = 1.2

// movingAveragePeriods 移动平均窗口
const movingAveragePeriods = 3

// YearPoint 年度支出
type YearPoint struct {
	Year   string  `json:"year"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

// ForecastPoint 某一天的预测支出
type ForecastPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// MonthTotal 某月支出合计
type MonthTotal struct {
	Key       string  `json:"key"` // 2006-01
	Month     string  `json:"month"`
	Amount    float64 `json:"amount"`
	Predicted bool    `json:"predicted,omitempty"`
}

// StackedMonth 某月各分类支出
type StackedMonth struct {
	Month   string             `json:"month"`
	Amounts map[string]float64 `json:"amounts"`
	Total   float64            `json:"total"`
}

// Analysis 月度支出分析与预测
type Analysis struct {
	Months          int            `json:"months"`
	Category        string         `json:"category"`
	Historical      []MonthTotal   `json:"historical"`
	Prediction      MonthTotal     `json:"prediction"`
	AverageSpending float64        `json:"average_spending"`
	IsOverBudget    bool           `json:"is_over_budget"`
	Confidence      float64        `json:"confidence"`
	Categories      []string       `json:"categories"`
	Stacked         []StackedMonth `json:"stacked"`
}

// ReportPage 报表页数据
type ReportPage struct {
	Yearly         []YearPoint            `json:"yearly"`
	CategoryTrends *client.CategoryTrends `json:"category_trends"`
	Steps          int                    `json:"steps"`
	Forecast       []ForecastPoint        `json:"forecast"`
	ForecastError  string                 `json:"forecast_error,omitempty"`
	Analysis       *Analysis              `json:"analysis"`
}

// ReportService 报表
type ReportService struct {
	upstream Upstream
	ledger   *LedgerService
	now      func() time.Time
}

// NewReportService 创建报表服务
func NewReportService(upstream Upstream, ledger *LedgerService) *ReportService {
	return &ReportService{upstream: upstream, ledger: ledger, now: time.Now}
}

// Yearly 年度支出，按年份升序
func (s *ReportService) Yearly(ctx context.Context, sess *UserSession) ([]YearPoint, error) {
	buckets, err := s.upstream.TimeSeries(ctx, sess.Token, "amount", "year")
	if err != nil {
		return nil, err
	}
	return SortYearly(buckets), nil
}

// CategoryTrends 按月分类支出趋势
func (s *ReportService) CategoryTrends(ctx context.Context, sess *UserSession) (*client.CategoryTrends, error) {
	return s.upstream.CategoryTrends(ctx, sess.Token)
}

// Forecast 未来 steps 天的预测，步数超出范围时收敛
func (s *ReportService) Forecast(ctx context.Context, sess *UserSession, steps int) ([]ForecastPoint, error) {
	steps = ClampSteps(steps)
	values, err := s.upstream.Forecast(ctx, sess.Token, steps)
	if err != nil {
		return nil, err
	}
	return ForecastDates(values, s.now()), nil
}

// Analyze 最近 months 个月（含本月）的支出分析，category 为空表示全部分类
func (s *ReportService) Analyze(ctx context.Context, sess *UserSession, months int, category string) (*Analysis, error) {
	items, err := s.ledger.All(ctx, sess)
	if err != nil {
		return nil, err
	}
	return Analyze(items, months, category, s.now()), nil
}

// Page 并发获取报表页所需数据，预测失败不影响其他图表
func (s *ReportService) Page(ctx context.Context, sess *UserSession, months int, category string, steps int) (*ReportPage, error) {
	page := &ReportPage{Steps: ClampSteps(steps)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Yearly, err = s.Yearly(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		page.CategoryTrends, err = s.CategoryTrends(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		page.Analysis, err = s.Analyze(gctx, sess, months, category)
		return err
	})
	g.Go(func() error {
		points, err := s.Forecast(gctx, sess, page.Steps)
		if err != nil {
			slog.WarnContext(ctx, "获取支出预测失败", "steps", page.Steps, "error", err)
			page.ForecastError = "Forecast is unavailable right now"
			return nil
		}
		page.Forecast = points
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// SortYearly 转换并按年份升序排列，非数字年份排在后面
func SortYearly(buckets []client.TimeBucket) []YearPoint {
	sorted := append([]client.TimeBucket(nil), buckets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aok := sorted[i].SortKey()
		b, bok := sorted[j].SortKey()
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return sorted[i].Label < sorted[j].Label
		}
	})

	out := make([]YearPoint, len(sorted))
	for i, b := range sorted {
		out[i] = YearPoint{Year: b.Label, Amount: b.Amount, Count: b.Count}
	}
	return out
}

// ClampSteps 预测步数限制在 [1,30]，0 使用默认值
func ClampSteps(steps int) int {
	switch {
	case steps == 0:
		return DefaultForecastSteps
	case steps < MinForecastSteps:
		return MinForecastSteps
	case steps > MaxForecastSteps:
		return MaxForecastSteps
	}
	return steps
}

// ParseSteps 解析查询参数中的预测步数
func ParseSteps(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultForecastSteps
	}
	return ClampSteps(n)
}

// ParseRange 解析分析范围，支持 6months/12months/6/12，其余返回 fallback
func ParseRange(raw string, fallback int) int {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "6months", "6":
		return 6
	case "12months", "12":
		return 12
	}
	if fallback != 6 && fallback != 12 {
		return models.DefaultAnalysisRange
	}
	return fallback
}

// ForecastDates 预测值依次对应明天起的每一天
func ForecastDates(values []float64, now time.Time) []ForecastPoint {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]ForecastPoint, len(values))
	for i, v := range values {
		out[i] = ForecastPoint{
			Date:   start.AddDate(0, 0, i+1).Format(models.DateLayout),
			Amount: v,
		}
	}
	return out
}

// MovingAverage 窗口为 periods 的简单移动平均，长度为 len(values)-periods+1
func MovingAverage(values []float64, periods int) []float64 {
	if periods <= 0 || len(values) < periods {
		return nil
	}
	out := make([]float64, 0, len(values)-periods+1)
	for i := periods - 1; i < len(values); i++ {
		sum := 0.0
		for _, v := range values[i-periods+1 : i+1] {
			sum += v
		}
		out = append(out, sum/float64(periods))
	}
	return out
}

// PredictNext 取最后三个移动平均值 a0,a1,a2，预测值为 a2 + (a2-a0)/2
// 数据不足三个移动平均值时退化为最后一个移动平均值或最后一个值
func PredictNext(values []float64) float64 {
	ma := MovingAverage(values, movingAveragePeriods)
	switch {
	case len(ma) >= 3:
		last3 := ma[len(ma)-3:]
		return last3[2] + (last3[2]-last3[0])/2
	case len(ma) > 0:
		return ma[len(ma)-1]
	case len(values) > 0:
		return values[len(values)-1]
	}
	return 0
}

// Analyze 按月汇总支出并计算预测、超支提示、置信度与分类堆叠数据
func Analyze(items []models.Transaction, months int, category string, now time.Time) *Analysis {
	if months != 6 && months != 12 {
		months = models.DefaultAnalysisRange
	}
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)

	index := make(map[string]int, months)
	historical := make([]MonthTotal, months)
	stacked := make([]StackedMonth, months)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		index[key] = i
		historical[i] = MonthTotal{Key: key, Month: m.Format("Jan")}
		stacked[i] = StackedMonth{Month: m.Format("Jan"), Amounts: map[string]float64{}}
	}

	categories := models.CategoryNames()
	known := map[string]bool{}
	for _, c := range categories {
		known[c] = true
	}

	for _, t := range items {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[t.Date.In(loc).Format("2006-01")]
		if !ok {
			continue
		}
		if !known[t.Category] && t.Category != "" {
			known[t.Category] = true
			categories = append(categories, t.Category)
		}
		stacked[i].Amounts[t.Category] += t.Amount
		stacked[i].Total += t.Amount
		if category == "" || t.Category == category {
			historical[i].Amount += t.Amount
		}
	}

	for i := range stacked {
		for _, c := range categories {
			if _, ok := stacked[i].Amounts[c]; !ok {
				stacked[i].Amounts[c] = 0
			}
		}
	}

	amounts := make([]float64, months)
	total := 0.0
	for i, h := range historical {
		amounts[i] = h.Amount
		total += h.Amount
	}
	average := total / float64(months)
	predicted := PredictNext(amounts)

	next := first.AddDate(0, months, 0)
	a := &Analysis{
		Months:     months,
		Category:   category,
		Historical: historical,
		Prediction: MonthTotal{
			Key:       next.Format("2006-01"),
			Month:     next.Format("Jan"),
			Amount:    predicted,
			Predicted: true,
		},
		AverageSpending: average,
		IsOverBudget:    predicted > average*budgetAlertRatio,
		Categories:      categories,
		Stacked:         stacked,
	}
	if average != 0 {
		a.Confidence = math.Round(predicted/average*100*100) / 100
	}
	return a
}
