package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/client"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易列表与新增
type TransactionHandler struct {
	*Deps
	now func() time.Time
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler(d *Deps) *TransactionHandler {
	return &TransactionHandler{Deps: d, now: time.Now}
}

// ledgerQuery 从查询参数读取筛选、页码与每页条数，未指定每页条数时使用偏好设置
func (h *TransactionHandler) ledgerQuery(c *gin.Context, sess *service.UserSession) (service.LedgerFilter, int, int) {
	var f service.LedgerFilter
	_ = c.ShouldBindQuery(&f)
	f = f.Normalize()

	pageNum, _ := strconv.Atoi(c.Query("page"))
	size, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || size <= 0 {
		size = h.preference(c, sess).PageSize
	}
	return f, pageNum, service.NormalizePageSize(size)
}

// listURL 构造保留筛选条件的列表链接
func listURL(path string, f service.LedgerFilter, pageNum, size int) string {
	q := filterValues(f)
	if pageNum > 0 {
		q.Set("page", strconv.Itoa(pageNum))
	}
	if size > 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Page 交易列表页面
func (h *TransactionHandler) Page(c *gin.Context) {
	h.renderPage(c, http.StatusOK, models.TransactionForm{Date: h.now().Format(models.DateLayout)}, nil, "")
}

func (h *TransactionHandler) renderPage(c *gin.Context, status int, form models.TransactionForm, verrs models.ValidationErrors, formError string) {
	sess := middleware.CurrentSession(c)
	f, pageNum, size := h.ledgerQuery(c, sess)

	result, err := h.Ledger.List(c.Request.Context(), sess, f, pageNum, size)
	if err != nil {
		h.pageFailed(c, err, "Transactions", "transactions")
		return
	}

	data := page(c, "Transactions", "transactions")
	data["Page"] = result
	data["Filter"] = f
	data["PageSizes"] = []int{5, 10, 20, 50, 100}
	data["Categories"] = models.Categories()
	data["Types"] = models.TransactionTypes()
	data["Modes"] = models.PaymentModes()
	data["Form"] = form
	data["Errors"] = verrs
	data["FormError"] = formError
	data["ShowForm"] = verrs != nil || formError != ""
	data["ExportCSV"] = listURL("/export/transactions.csv", f, 0, 0)
	data["ExportXLSX"] = listURL("/export/transactions.xlsx", f, 0, 0)
	if result.HasPrev() {
		data["PrevURL"] = listURL("/transactions", f, result.Page-1, result.PageSize)
	}
	if result.HasNext() {
		data["NextURL"] = listURL("/transactions", f, result.Page+1, result.PageSize)
	}
	c.HTML(status, "transactions.html", data)
}

// Create 提交新增交易表单
func (h *TransactionHandler) Create(c *gin.Context) {
	var form models.TransactionForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPage(c, http.StatusBadRequest, form, models.ValidationErrors{"amount": "Amount must be a number"}, "")
		return
	}

	_, err := h.Ledger.Create(c.Request.Context(), middleware.CurrentSession(c), form)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			h.renderPage(c, http.StatusBadRequest, form, verrs, "")
			return
		}
		if client.IsUnauthorized(err) {
			h.pageFailed(c, err, "Transactions", "transactions")
			return
		}
		h.renderPage(c, http.StatusBadGateway, form, nil, upstreamMessage(err, "Could not save the transaction, please try again"))
		return
	}

	setFlash(c, "Transaction added successfully")
	c.Redirect(http.StatusSeeOther, "/transactions")
}

// List 交易列表
// @Summary 交易列表
// @Description 按分类、类型、支付方式筛选（同时满足），按日期倒序分页
// @Tags 交易
// @Produce json
// @Security SessionCookie
// @Param category query string false "分类，all 或空表示全部"
// @Param type query string false "类型：Expense / Income / Transfer-In / Transfer-Out"
// @Param mode query string false "支付方式"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量（5 的倍数，5-100）"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	f, pageNum, size := h.ledgerQuery(c, sess)

	result, err := h.Ledger.List(c.Request.Context(), sess, f, pageNum, size)
	if err != nil {
		h.upstreamFailed(c, err, "Could not load transactions")
		return
	}
	Success(c, PageResponse{
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		List:       result.Items,
	})
}

// CreateJSON 新增交易
// @Summary 新增交易
// @Description 校验后提交到远端 API，成功后刷新交易缓存
// @Tags 交易
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body models.TransactionForm true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response{data=models.ValidationErrors} "参数错误"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) CreateJSON(c *gin.Context) {
	var form models.TransactionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request body"))
		return
	}

	tx, err := h.Ledger.Create(c.Request.Context(), middleware.CurrentSession(c), form)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			ValidationFailed(c, verrs)
			return
		}
		h.upstreamFailed(c, err, "Could not save the transaction")
		return
	}
	SuccessWithMessage(c, "Transaction added successfully", tx)
}

// TaxonomyResponse 分类、类型与支付方式
type TaxonomyResponse struct {
	Categories []models.Category        `json:"categories"`
	Types      []models.TransactionType `json:"types"`
	Modes      []string                 `json:"modes"`
}

// Taxonomy 分类、类型与支付方式
// @Summary 分类与支付方式
// @Description 新增交易表单使用的固定枚举：分类（含二级分类）、交易类型、支付方式
// @Tags 交易
// @Produce json
// @Security SessionCookie
// @Success 200 {object} Response{data=TaxonomyResponse} "获取成功"
// @Router /api/v1/taxonomy [get]
func Taxonomy(c *gin.Context) {
	Success(c, TaxonomyResponse{
		Categories: models.Categories(),
		Types:      models.TransactionTypes(),
		Modes:      models.PaymentModes(),
	})
}
