package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fintrack/cache"
	"fintrack/metrics"
	"fintrack/models"
)

// LedgerFilter 交易列表筛选条件，字段为空表示不限
type LedgerFilter struct {
	Category string `form:"category" json:"category"`
	Type     string `form:"type" json:"type"`
	Mode     string `form:"mode" json:"mode"`
}

// Normalize 去除首尾空白，"all" 视为不限
func (f LedgerFilter) Normalize() LedgerFilter {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "all") {
			return ""
		}
		return s
	}
	return LedgerFilter{Category: clean(f.Category), Type: clean(f.Type), Mode: clean(f.Mode)}
}

// IsZero 是否没有任何筛选条件
func (f LedgerFilter) IsZero() bool {
	return f.Category == "" && f.Type == "" && f.Mode == ""
}

// Matches 所有非空条件同时满足
func (f LedgerFilter) Matches(t models.Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Type != "" && string(t.Type) != f.Type {
		return false
	}
	if f.Mode != "" && t.Mode != f.Mode {
		return false
	}
	return true
}

// FilterTransactions 筛选并按日期倒序排列，不修改入参
func FilterTransactions(items []models.Transaction, f LedgerFilter) []models.Transaction {
	out := make([]models.Transaction, 0, len(items))
	for _, t := range items {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Page 分页结果
type Page struct {
	Items      []models.Transaction `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"total_pages"`
}

// HasPrev 是否有上一页
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext 是否有下一页
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// NormalizePageSize 每页条数限制在 [5,100] 且为 5 的倍数
func NormalizePageSize(size int) int {
	if size <= 0 {
		return models.DefaultPageSize
	}
	if size < models.MinPageSize {
		return models.MinPageSize
	}
	if size > models.MaxPageSize {
		return models.MaxPageSize
	}
	return size - size%models.PageSizeStep
}

// Paginate 取第 page 页，页码越界时收敛到首页或末页
func Paginate(items []models.Transaction, page, size int) Page {
	size = NormalizePageSize(size)
	total := len(items)
	totalPages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// LedgerService 交易列表：读取（带缓存）、筛选、分页、新增
type LedgerService struct {
	upstream Upstream
	cache    cache.Cache[[]models.Transaction]

	// 拉取期间被失效的会话，拉取结果不再写入缓存
	mu       sync.Mutex
	inflight map[string]int
	stale    map[string]bool
}

// NewLedgerService 创建交易服务，c 为 nil 时不缓存
func NewLedgerService(upstream Upstream, c cache.Cache[[]models.Transaction]) *LedgerService {
	return &LedgerService{
		upstream: upstream,
		cache:    c,
		inflight: map[string]int{},
		stale:    map[string]bool{},
	}
}

// All 当前用户的全部交易，按会话缓存
func (s *LedgerService) All(ctx context.Context, sess *UserSession) ([]models.Transaction, error) {
	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, sess.ID); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return items, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		s.beginFetch(sess.ID)
	}

	items, err := s.upstream.ListTransactions(ctx, sess.Token)
	if s.cache != nil {
		s.endFetch(ctx, sess.ID, items, err == nil)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *LedgerService) beginFetch(sessionID string) {
	s.mu.Lock()
	s.inflight[sessionID]++
	s.mu.Unlock()
}

// endFetch 拉取期间未被失效时写入缓存
func (s *LedgerService) endFetch(ctx context.Context, sessionID string, items []models.Transaction, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok && !s.stale[sessionID] {
		s.cache.Set(ctx, sessionID, items)
	}
	s.inflight[sessionID]--
	if s.inflight[sessionID] <= 0 {
		delete(s.inflight, sessionID)
		delete(s.stale, sessionID)
	}
}

// Filtered 筛选后的全部交易（导出使用）
func (s *LedgerService) Filtered(ctx context.Context, sess *UserSession, f LedgerFilter) ([]models.Transaction, error) {
	items, err := s.All(ctx, sess)
	if err != nil {
		return nil, err
	}
	return FilterTransactions(items, f.Normalize()), nil
}

// List 筛选并分页
func (s *LedgerService) List(ctx context.Context, sess *UserSession, f LedgerFilter, page, size int) (Page, error) {
	items, err := s.Filtered(ctx, sess, f)
	if err != nil {
		return Page{}, err
	}
	return Paginate(items, page, size), nil
}

// Create 校验表单后提交到远端，成功后使缓存失效
func (s *LedgerService) Create(ctx context.Context, sess *UserSession, form models.TransactionForm) (*models.Transaction, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.upstream.CreateTransaction(ctx, sess.Token, form.Payload(sess.UserID))
	if err != nil {
		return nil, fmt.Errorf("创建交易失败: %w", err)
	}
	s.Invalidate(ctx, sess.ID)
	return tx, nil
}

// Invalidate 清除会话的交易缓存
func (s *LedgerService) Invalidate(ctx context.Context, sessionID string) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[sessionID] > 0 {
		s.stale[sessionID] = true
	}
	s.cache.Delete(ctx, sessionID)
}
