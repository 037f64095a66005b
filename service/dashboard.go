package service

import (
	"context"
	"math"
	"sort"
	"time"

	"fintrack/client"
	"fintrack/models"

	"golang.org/x/sync/errgroup"
)

// 饼图/柱状图展示的分组数量
const topSlices = 5

// chartPalette 图表按序取色
var chartPalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF"}

// Slice 图表中的一个分组
type Slice struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
	Color      string  `json:"fill"`
}

// NameAmount 名称与金额
type NameAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// NameCount 名称与笔数
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyPoint 当月某日的收支
type DailyPoint struct {
	Date    string  `json:"date"`
	Expense float64 `json:"expense"`
	Income  float64 `json:"income"`
}

// Summary 基于交易明细的统计
type Summary struct {
	TotalExpense      float64      `json:"total_expense"`
	TotalIncome       float64      `json:"total_income"`
	Balance           float64      `json:"balance"`
	ExpenseByCategory []NameAmount `json:"expense_by_category"`
	Daily             []DailyPoint `json:"daily"`
	ModeCounts        []NameCount  `json:"mode_counts"`
}

// Dashboard 仪表盘数据
type Dashboard struct {
	TotalExpense float64 `json:"total_expense"`
	ByCategory   []Slice `json:"by_category"`
	ByMode       []Slice `json:"by_mode"`
	Summary      Summary `json:"summary"`
}

// DashboardService 仪表盘
type DashboardService struct {
	upstream Upstream
	ledger   *LedgerService
	now      func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(upstream Upstream, ledger *LedgerService) *DashboardService {
	return &DashboardService{upstream: upstream, ledger: ledger, now: time.Now}
}

// Load 并发获取分类汇总、支付方式汇总和交易明细
func (s *DashboardService) Load(ctx context.Context, sess *UserSession) (*Dashboard, error) {
	var (
		byCategory []client.GroupTotal
		byMode     []client.GroupTotal
		items      []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byCategory, err = s.upstream.GroupBy(gctx, sess.Token, "category")
		return err
	})
	g.Go(func() error {
		var err error
		byMode, err = s.upstream.GroupBy(gctx, sess.Token, "mode")
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.ledger.All(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalExpense: SumGroups(byCategory),
		ByCategory:   TopSlices(byCategory, topSlices),
		ByMode:       TopSlices(byMode, topSlices),
		Summary:      Summarize(items, s.now()),
	}, nil
}

// SumGroups 分组金额合计
func SumGroups(groups []client.GroupTotal) float64 {
	total := 0.0
	for _, g := range groups {
		total += g.Amount
	}
	return total
}

// TopSlices 保持上游顺序取前 n 个分组，占比基于全部分组合计
func TopSlices(groups []client.GroupTotal, n int) []Slice {
	total := SumGroups(groups)
	out := make([]Slice, 0, n)
	for i, g := range groups {
		if i >= n {
			break
		}
		out = append(out, Slice{
			Name:       g.Key,
			Value:      g.Amount,
			Percentage: Percent(g.Amount, total),
			Color:      chartPalette[i%len(chartPalette)],
		})
	}
	return out
}

// Percent 四舍五入的百分比，total 为 0 时返回 0
func Percent(part, total float64) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(part/total*100 + 0.5))
}

// Summarize 统计收支合计、分类支出、当月每日收支和支付方式笔数
func Summarize(items []models.Transaction, now time.Time) Summary {
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	days := monthStart.AddDate(0, 1, -1).Day()

	daily := make([]DailyPoint, days)
	for i := range daily {
		daily[i].Date = monthStart.AddDate(0, 0, i).Format("Jan 02")
	}

	var sum Summary
	byCategory := map[string]float64{}
	byMode := map[string]int{}
	for _, t := range items {
		byMode[t.Mode]++

		local := t.Date.In(loc)
		inMonth := local.Year() == now.Year() && local.Month() == now.Month()

		switch t.Type {
		case models.TypeExpense:
			sum.TotalExpense += t.Amount
			byCategory[t.Category] += t.Amount
			if inMonth {
				daily[local.Day()-1].Expense += t.Amount
			}
		case models.TypeIncome:
			sum.TotalIncome += t.Amount
			if inMonth {
				daily[local.Day()-1].Income += t.Amount
			}
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	sum.Daily = daily

	sum.ExpenseByCategory = make([]NameAmount, 0, len(byCategory))
	for name, amount := range byCategory {
		sum.ExpenseByCategory = append(sum.ExpenseByCategory, NameAmount{Name: name, Amount: amount})
	}
	sort.Slice(sum.ExpenseByCategory, func(i, j int) bool {
		a, b := sum.ExpenseByCategory[i], sum.ExpenseByCategory[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Name < b.Name
	})

	sum.ModeCounts = make([]NameCount, 0, len(byMode))
	for name, count := range byMode {
		sum.ModeCounts = append(sum.ModeCounts, NameCount{Name: name, Count: count})
	}
	sort.Slice(sum.ModeCounts, func(i, j int) bool {
		a, b := sum.ModeCounts[i], sum.ModeCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	return sum
}
