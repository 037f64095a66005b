package models

import (
	"math"
	"strings"
	"time"
)

// TransactionType 交易类型
type TransactionType string

const (
	TypeExpense     TransactionType = "Expense"
	TypeIncome      TransactionType = "Income"
	TypeTransferIn  TransactionType = "Transfer-In"
	TypeTransferOut TransactionType = "Transfer-Out"
)

// DateLayout 表单与查询参数中的日期格式
const DateLayout = "2006-01-02"

// DefaultCurrency 默认币种
const DefaultCurrency = "INR"

// DefaultNote 未填写备注时提交的内容
const DefaultNote = "No note"

// TransactionTypes 获取所有交易类型（按展示顺序）
func TransactionTypes() []TransactionType {
	return []TransactionType{TypeExpense, TypeIncome, TypeTransferIn, TypeTransferOut}
}

// IsTransactionType 判断是否为合法交易类型
func IsTransactionType(t string) bool {
	for _, tt := range TransactionTypes() {
		if string(tt) == t {
			return true
		}
	}
	return false
}

// Transaction 交易记录，字段与远端 API 的 JSON 保持一致
type Transaction struct {
	ID          string          `json:"_id"`
	Date        time.Time       `json:"date"`
	Mode        string          `json:"mode"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Note        string          `json:"note"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Currency    string          `json:"currency"`
	UserID      string          `json:"userId,omitempty"`
}

// IsExpense 是否为支出
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// TransactionForm 新增交易表单（HTML 表单与 JSON 共用）
type TransactionForm struct {
	Type        string  `form:"type" json:"type" example:"Expense"`
	Category    string  `form:"category" json:"category" example:"Food"`
	SubCategory string  `form:"subcategory" json:"subCategory" example:"Groceries"`
	Amount      float64 `form:"amount" json:"amount" example:"250"`
	Mode        string  `form:"mode" json:"mode" example:"UPI"`
	Note        string  `form:"note" json:"note" example:"Weekly vegetables"`
	Date        string  `form:"date" json:"date" example:"2024-01-15"`
}

// Normalize 去除首尾空白
func (f *TransactionForm) Normalize() {
	f.Type = strings.TrimSpace(f.Type)
	f.Category = strings.TrimSpace(f.Category)
	f.SubCategory = strings.TrimSpace(f.SubCategory)
	f.Mode = strings.TrimSpace(f.Mode)
	f.Note = strings.TrimSpace(f.Note)
	f.Date = strings.TrimSpace(f.Date)
}

// Validate 校验表单，返回 ValidationErrors 或 nil
func (f TransactionForm) Validate() error {
	errs := ValidationErrors{}

	switch {
	case f.Type == "":
		errs["type"] = "Type is required"
	case !IsTransactionType(f.Type):
		errs["type"] = "Unknown transaction type"
	}

	switch {
	case f.Category == "":
		errs["category"] = "Category is required"
	case !IsCategory(f.Category):
		errs["category"] = "Unknown category"
	}

	switch {
	case f.SubCategory == "":
		errs["subcategory"] = "Subcategory is required"
	case IsCategory(f.Category) && !IsSubcategory(f.Category, f.SubCategory):
		errs["subcategory"] = "Subcategory does not belong to the selected category"
	}

	if !(f.Amount > 0) || math.IsInf(f.Amount, 0) {
		errs["amount"] = "Amount must be greater than 0"
	}

	switch {
	case f.Mode == "":
		errs["mode"] = "Payment mode is required"
	case !IsPaymentMode(f.Mode):
		errs["mode"] = "Unknown payment mode"
	}

	if f.Date == "" {
		errs["date"] = "Date is required"
	} else if _, err := time.Parse(DateLayout, f.Date); err != nil {
		errs["date"] = "Date must be in YYYY-MM-DD format"
	}

	return errs.orNil()
}

// CreateTransactionPayload 提交给远端 API 的创建请求体
type CreateTransactionPayload struct {
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Amount      float64   `json:"amount"`
	Mode        string    `json:"mode"`
	Note        string    `json:"note"`
	Date        time.Time `json:"date"`
	Currency    string    `json:"currency"`
	UserID      string    `json:"userId,omitempty"`
}

// Payload 将已校验的表单转换为创建请求体，调用前须先 Validate
func (f TransactionForm) Payload(userID string) CreateTransactionPayload {
	date, _ := time.Parse(DateLayout, f.Date)
	note := f.Note
	if note == "" {
		note = DefaultNote
	}
	return CreateTransactionPayload{
		Type:        f.Type,
		Category:    f.Category,
		SubCategory: f.SubCategory,
		Amount:      f.Amount,
		Mode:        f.Mode,
		Note:        note,
		Date:        date,
		Currency:    DefaultCurrency,
		UserID:      userID,
	}
}
