package client

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LoginResult 登录结果
type LoginResult struct {
	Token  string
	UserID string
	Name   string
	Email  string
}

// GroupTotal 按字段聚合后的金额，对应 {_id, amount, count}
type GroupTotal struct {
	Key    string  `json:"_id"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

// TimeBucket 时间序列中的一个桶，对应 {_id: {timeGroup}, amount, count}
type TimeBucket struct {
	Label  string
	Amount float64
	Count  int64
}

// SortKey 数字标签（年份等）按数值排序，其余按字符串
func (b TimeBucket) SortKey() (float64, bool) {
	v, err := strconv.ParseFloat(b.Label, 64)
	return v, err == nil
}

// UnmarshalJSON timeGroup 可能是数字或字符串
func (b *TimeBucket) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID struct {
			TimeGroup json.RawMessage `json:"timeGroup"`
		} `json:"_id"`
		Amount float64 `json:"amount"`
		Count  int64   `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Amount = raw.Amount
	b.Count = raw.Count
	b.Label = rawLabel(raw.ID.TimeGroup)
	return nil
}

func rawLabel(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if json.Unmarshal(raw, &str) == nil {
		return str
	}
	return s
}

// CategoryTrends 按月、按分类的支出趋势
type CategoryTrends struct {
	Categories []string           `json:"categories"`
	Rows       []CategoryTrendRow `json:"data"`
}

// CategoryTrendRow 某月各分类的金额
type CategoryTrendRow struct {
	Month   string
	Amounts map[string]float64
}

// UnmarshalJSON 行格式为 {"month": "...", "<分类>": 金额, ...}
func (r *CategoryTrendRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Amounts = make(map[string]float64, len(raw))
	for k, v := range raw {
		if k == "month" {
			r.Month = rawLabel(v)
			continue
		}
		var amount float64
		if json.Unmarshal(v, &amount) == nil {
			r.Amounts[k] = amount
		}
	}
	return nil
}

// MarshalJSON 与上游格式保持一致，供图表直接使用
func (r CategoryTrendRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Amounts)+1)
	for k, v := range r.Amounts {
		out[k] = v
	}
	out["month"] = r.Month
	return json.Marshal(out)
}
