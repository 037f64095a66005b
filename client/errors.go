package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyToken 需要登录态的接口未携带 token
var ErrEmptyToken = errors.New("client: bearer token required")

// APIError 远端 API 返回的非 2xx 响应
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsUnauthorized 判断是否为上游 401（token 失效）
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// StatusCode 取出上游状态码，非 APIError 返回 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// newAPIError 从响应体中尽量提取错误信息
func newAPIError(endpoint string, status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		case payload.Msg != "":
			msg = payload.Msg
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Endpoint: endpoint, StatusCode: status, Message: msg}
}
