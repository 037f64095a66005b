package config

import _ "embed"

// DefaultConfigYAML 内置默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// 内置的开发用密钥，release 模式下禁止使用
const (
	defaultCookieSecret  = "fintrack-dev-cookie-secret"
	defaultEncryptionKey = "fintrack-dev-encryption-key"
)
