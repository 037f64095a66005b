// Package web 页面模板与静态资源，编译时嵌入二进制
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"fintrack/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var printer = message.NewPrinter(language.English)

// Static 静态资源（css、js）
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Money 金额显示，如 ₹1,234.50
func Money(v float64) string {
	if v < 0 {
		return printer.Sprintf("-₹%.2f", -v)
	}
	return printer.Sprintf("₹%.2f", v)
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":         Money,
		"add":           func(a, b int) int { return a + b },
		"categoryColor": models.CategoryColor,
	}
}

// Templates 解析全部页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
