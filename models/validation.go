package models

import (
	"sort"
	"strings"
)

// ValidationErrors 表单校验错误，key 为字段名
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, "; ")
}

// Has 判断字段是否有错误
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// orNil 无错误时返回 nil，避免返回非 nil 的空 map
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
