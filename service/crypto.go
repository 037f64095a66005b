package service

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrDecrypt 密文无法解密（密钥变更或数据损坏）
var ErrDecrypt = errors.New("token 解密失败")

// TokenCipher 加密保存在数据库中的上游 token
type TokenCipher struct {
	key [32]byte
}

// NewTokenCipher 由配置中的密钥派生 32 字节对称密钥
func NewTokenCipher(secret string) *TokenCipher {
	return &TokenCipher{key: sha256.Sum256([]byte(secret))}
}

// Seal 加密，输出为 nonce + 密文
func (c *TokenCipher) Seal(plaintext string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("生成 nonce 失败: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key), nil
}

// Open 解密 Seal 的输出
func (c *TokenCipher) Open(sealed []byte) (string, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
