package models

// Category 一级分类及其下属的二级分类
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// 分类名称常量
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryUtilities      = "Utilities"
	CategoryEntertainment  = "Entertainment"
	CategoryShopping       = "Shopping"
)

// 支付方式常量
const (
	ModeCash           = "Cash"
	ModeSavingAccount1 = "Saving Bank Account 1"
	ModeCreditCard     = "Credit Card"
	ModeUPI            = "UPI"
	ModeNetBanking     = "Net Banking"
)

var categories = []Category{
	{Name: CategoryFood, Subcategories: []string{"Groceries", "Restaurant", "Snacks", "Milk", "Beverages"}},
	{Name: CategoryTransportation, Subcategories: []string{"Train", "Bus", "Taxi", "Fuel", "Maintenance"}},
	{Name: CategoryUtilities, Subcategories: []string{"Electricity", "Water", "Internet", "Phone", "Gas"}},
	{Name: CategoryEntertainment, Subcategories: []string{"Movies", "Games", "Books", "Sports", "Music"}},
	{Name: CategoryShopping, Subcategories: []string{"Clothing", "Electronics", "Home", "Gifts"}},
}

var paymentModes = []string{
	ModeCash,
	ModeSavingAccount1,
	ModeCreditCard,
	ModeUPI,
	ModeNetBanking,
}

// categoryColors 图表配色，与页面样式保持一致
var categoryColors = map[string]string{
	CategoryFood:           "#8884d8",
	CategoryTransportation: "#82ca9d",
	CategoryUtilities:      "#ffc658",
	CategoryEntertainment:  "#ff7300",
	CategoryShopping:       "#0088fe",
}

// Categories 获取所有分类（按展示顺序，返回副本）
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Subcategories: append([]string(nil), c.Subcategories...)}
	}
	return out
}

// CategoryNames 获取所有一级分类名称
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// Subcategories 获取某个分类下的二级分类，未知分类返回 nil
func Subcategories(category string) []string {
	for _, c := range categories {
		if c.Name == category {
			return append([]string(nil), c.Subcategories...)
		}
	}
	return nil
}

// IsCategory 判断是否为合法分类
func IsCategory(name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// IsSubcategory 判断二级分类是否属于指定分类
func IsSubcategory(category, sub string) bool {
	for _, s := range Subcategories(category) {
		if s == sub {
			return true
		}
	}
	return false
}

// PaymentModes 获取所有支付方式
func PaymentModes() []string {
	return append([]string(nil), paymentModes...)
}

// IsPaymentMode 判断是否为合法支付方式
func IsPaymentMode(mode string) bool {
	for _, m := range paymentModes {
		if m == mode {
			return true
		}
	}
	return false
}

// CategoryColor 获取分类配色，未配置的分类返回灰色
func CategoryColor(name string) string {
	if c, ok := categoryColors[name]; ok {
		return c
	}
	return "#64748b"
}
