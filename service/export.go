package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fintrack/client"
	"fintrack/models"

	"github.com/xuri/excelize/v2"
)

// 导出文件 Content-Type
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var transactionHeaders = []string{"Date", "Type", "Category", "Subcategory", "Mode", "Note", "Amount", "Currency"}

// ExportFilename 生成带日期的导出文件名，如 financial-report-2024-01-31.csv
func ExportFilename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format(models.DateLayout), ext)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// writeCSV 写出 CSV，带 BOM 以便 Excel 正确识别编码
func writeCSV(rows [][]string) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("生成 CSV 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// TransactionsCSV 导出交易明细
func TransactionsCSV(items []models.Transaction) ([]byte, error) {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, transactionHeaders)
	for _, t := range items {
		rows = append(rows, transactionRow(t))
	}
	return writeCSV(rows)
}

func transactionRow(t models.Transaction) []string {
	currency := t.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return []string{
		t.Date.Format(models.DateLayout),
		string(t.Type),
		cellText(t.Category),
		cellText(t.SubCategory),
		cellText(t.Mode),
		cellText(t.Note),
		formatAmount(t.Amount),
		cellText(currency),
	}
}

// cellText 以公式起始符开头的文本加 ' 前缀，表格软件按文本打开
func cellText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// ReportCSV 导出月度分类支出：Month,<分类...>,Total
func ReportCSV(a *Analysis) ([]byte, error) {
	header := append([]string{"Month"}, a.Categories...)
	header = append(header, "Total")

	rows := [][]string{header}
	for _, m := range a.Stacked {
		row := []string{m.Month}
		for _, c := range a.Categories {
			row = append(row, formatAmount(m.Amounts[c]))
		}
		row = append(row, formatAmount(m.Total))
		rows = append(rows, row)
	}
	return writeCSV(rows)
}

// CategoryTrendsCSV 导出分类趋势：Month,<分类...>
func CategoryTrendsCSV(trends *client.CategoryTrends) ([]byte, error) {
	rows := [][]string{append([]string{"Month"}, trends.Categories...)}
	for _, r := range trends.Rows {
		row := []string{r.Month}
		for _, c := range trends.Categories {
			row = append(row, formatAmount(r.Amounts[c]))
		}
		rows = append(rows, row)
	}
	return writeCSV(rows)
}

// sheetStyles 表头、数据与合计行样式
type sheetStyles struct {
	header, data, total int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	var (
		s   sheetStyles
		err error
	)
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return s, err
	}
	s.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return s, err
	}
	s.total, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	return s, err
}

// writeSheet 写入表头、数据行与可选合计行
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, total []interface{}) error {
	styles, err := newSheetStyles(f)
	if err != nil {
		return fmt.Errorf("创建样式失败: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}

	put := func(rowNum int, values []interface{}, style int) error {
		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		last, _ := excelize.CoordinatesToCellName(len(header), rowNum)
		if err := f.SetSheetRow(sheet, first, &values); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, first, last, style)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := put(1, headerRow, styles.header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := put(i+2, r, styles.data); err != nil {
			return err
		}
	}
	if total != nil {
		if err := put(len(rows)+2, total, styles.total); err != nil {
			return err
		}
	}
	return nil
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// TransactionsXLSX 导出交易明细表格，末行为金额合计
func TransactionsXLSX(items []models.Transaction) ([]byte, error) {
	const sheet = "Transactions"
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := make([][]interface{}, 0, len(items))
	var totalExpense, totalIncome float64
	for _, t := range items {
		r := transactionRow(t)
		rows = append(rows, []interface{}{r[0], r[1], r[2], r[3], r[4], r[5], t.Amount, r[7]})
		switch t.Type {
		case models.TypeExpense:
			totalExpense += t.Amount
		case models.TypeIncome:
			totalIncome += t.Amount
		}
	}
	total := []interface{}{
		"Total", fmt.Sprintf("%d transactions", len(items)),
		"Expense", totalExpense, "Income", totalIncome,
		"Balance", totalIncome - totalExpense,
	}
	if err := writeSheet(f, sheet, transactionHeaders, rows, total); err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return workbookBytes(f)
}

// ReportXLSX 导出月度分类支出表格，末行为各列合计
func ReportXLSX(a *Analysis) ([]byte, error) {
	const sheet = "Financial Report"
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := append([]string{"Month"}, a.Categories...)
	header = append(header, "Total")

	sums := make([]float64, len(a.Categories)+1)
	rows := make([][]interface{}, 0, len(a.Stacked))
	for _, m := range a.Stacked {
		row := []interface{}{m.Month}
		for i, c := range a.Categories {
			row = append(row, m.Amounts[c])
			sums[i] += m.Amounts[c]
		}
		row = append(row, m.Total)
		sums[len(sums)-1] += m.Total
		rows = append(rows, row)
	}
	total := []interface{}{"Total"}
	for _, s := range sums {
		total = append(total, s)
	}

	if err := writeSheet(f, sheet, header, rows, total); err != nil {
		return nil, fmt.Errorf("生成 Excel 失败: %w", err)
	}
	return workbookBytes(f)
}
