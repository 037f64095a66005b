package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出与报表邮件
type ExportHandler struct {
	*Deps
	now func() time.Time
}

// NewExportHandler 创建导出处理器
func NewExportHandler(d *Deps) *ExportHandler {
	return &ExportHandler{Deps: d, now: time.Now}
}

// sendFile 以附件形式返回文件
func sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, contentType, data)
}

// filteredTransactions 按查询参数筛选的全部交易（不分页）
func (h *ExportHandler) filteredTransactions(c *gin.Context) ([]models.Transaction, error) {
	var f service.LedgerFilter
	_ = c.ShouldBindQuery(&f)
	return h.Ledger.Filtered(c.Request.Context(), middleware.CurrentSession(c), f.Normalize())
}

// analysis 按查询参数生成月度分析
func (h *ExportHandler) analysis(c *gin.Context) (*service.Analysis, error) {
	sess := middleware.CurrentSession(c)
	months, category := analysisQuery(c, h.preference(c, sess))
	return h.Reports.Analyze(c.Request.Context(), sess, months, category)
}

// TransactionsCSV 导出交易明细 CSV
// @Summary 导出交易明细 CSV
// @Description 按当前筛选条件导出全部交易（不分页）
// @Tags 导出
// @Produce text/csv
// @Security SessionCookie
// @Param category query string false "分类"
// @Param type query string false "类型"
// @Param mode query string false "支付方式"
// @Success 200 {file} file "CSV 文件"
// @Router /export/transactions.csv [get]
func (h *ExportHandler) TransactionsCSV(c *gin.Context) {
	items, err := h.filteredTransactions(c)
	if err != nil {
		h.pageFailed(c, err, "Transactions", "transactions")
		return
	}
	data, err := service.TransactionsCSV(items)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Export failed"))
		return
	}
	sendFile(c, service.ExportFilename("transactions", "csv", h.now()), service.ContentTypeCSV, data)
}

// TransactionsXLSX 导出交易明细 Excel
// @Summary 导出交易明细 Excel
// @Description 按当前筛选条件导出全部交易，末行为收支合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security SessionCookie
// @Param category query string false "分类"
// @Param type query string false "类型"
// @Param mode query string false "支付方式"
// @Success 200 {file} file "Excel 文件"
// @Router /export/transactions.xlsx [get]
func (h *ExportHandler) TransactionsXLSX(c *gin.Context) {
	items, err := h.filteredTransactions(c)
	if err != nil {
		h.pageFailed(c, err, "Transactions", "transactions")
		return
	}
	data, err := service.TransactionsXLSX(items)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Export failed"))
		return
	}
	sendFile(c, service.ExportFilename("transactions", "xlsx", h.now()), service.ContentTypeXLSX, data)
}

// ReportCSV 导出财务报表 CSV
// @Summary 导出财务报表 CSV
// @Description 月度分类支出：Month,<分类...>,Total
// @Tags 导出
// @Produce text/csv
// @Security SessionCookie
// @Param range query string false "6months 或 12months"
// @Param category query string false "分类"
// @Success 200 {file} file "CSV 文件"
// @Router /export/report.csv [get]
func (h *ExportHandler) ReportCSV(c *gin.Context) {
	a, err := h.analysis(c)
	if err != nil {
		h.pageFailed(c, err, "Reports", "reports")
		return
	}
	data, err := service.ReportCSV(a)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Export failed"))
		return
	}
	sendFile(c, service.ExportFilename("financial-report", "csv", h.now()), service.ContentTypeCSV, data)
}

// ReportXLSX 导出财务报表 Excel
// @Summary 导出财务报表 Excel
// @Description 月度分类支出，表头着色，末行为各列合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security SessionCookie
// @Param range query string false "6months 或 12months"
// @Param category query string false "分类"
// @Success 200 {file} file "Excel 文件"
// @Router /export/report.xlsx [get]
func (h *ExportHandler) ReportXLSX(c *gin.Context) {
	a, err := h.analysis(c)
	if err != nil {
		h.pageFailed(c, err, "Reports", "reports")
		return
	}
	data, err := service.ReportXLSX(a)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Export failed"))
		return
	}
	sendFile(c, service.ExportFilename("financial-report", "xlsx", h.now()), service.ContentTypeXLSX, data)
}

// CategoryTrendsCSV 导出分类趋势 CSV
// @Summary 导出分类趋势 CSV
// @Description 每月各分类支出：Month,<分类...>
// @Tags 导出
// @Produce text/csv
// @Security SessionCookie
// @Success 200 {file} file "CSV 文件"
// @Router /export/category-trends.csv [get]
func (h *ExportHandler) CategoryTrendsCSV(c *gin.Context) {
	trends, err := h.Reports.CategoryTrends(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		h.pageFailed(c, err, "Reports", "reports")
		return
	}
	data, err := service.CategoryTrendsCSV(trends)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Export failed"))
		return
	}
	sendFile(c, service.ExportFilename("category-trends", "csv", h.now()), service.ContentTypeCSV, data)
}

// EmailReport 将财务报表 Excel 发送到邮箱
// 收件人优先取表单 email，其次偏好设置中的报表邮箱，最后为登录邮箱
func (h *ExportHandler) EmailReport(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	pref := h.preference(c, sess)
	months, category := analysisQuery(c, pref)

	back := reportURL("/reports", months, category)

	to := strings.TrimSpace(c.PostForm("email"))
	if to == "" {
		to = pref.ReportEmail
	}
	if to == "" {
		to = sess.Email
	}
	if !models.IsValidEmail(to) {
		setFlash(c, "Invalid email")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	if !h.Email.Enabled() {
		setFlash(c, "Email delivery is not configured")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	a, err := h.Reports.Analyze(c.Request.Context(), sess, months, category)
	if err != nil {
		h.pageFailed(c, err, "Reports", "reports")
		return
	}
	data, err := service.ReportXLSX(a)
	if err != nil {
		setFlash(c, "Could not build the report")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	attachment := service.ReportAttachment{
		Filename: service.ExportFilename("financial-report", "xlsx", h.now()),
		Data:     data,
	}
	if err := h.Email.SendReport(to, sess.DisplayName(), months, attachment); err != nil {
		slog.ErrorContext(c.Request.Context(), "发送报表邮件失败", "to", to, "error", err)
		setFlash(c, "Could not send the report, please try again later")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	slog.InfoContext(c.Request.Context(), "报表邮件已发送", "to", to, "months", months)
	setFlash(c, "Report sent to "+to)
	c.Redirect(http.StatusSeeOther, back)
}
