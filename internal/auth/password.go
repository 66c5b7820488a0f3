package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

const defaultBcryptCost = bcrypt.DefaultCost

// HashPassword returns the hex SHA-256 digest of password.
//
// The digest is unsalted and deterministic so that stored credentials stay
// comparable with hash(candidate) == digest. Use a Hasher with SchemeBcrypt
// for new deployments that do not need that property.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword 验证密码是否与存储的摘要匹配，自动识别 bcrypt 与 sha256 两种格式
func VerifyPassword(digest, candidate string) error {
	if strings.TrimSpace(digest) == "" {
		return errors.New("stored password hash is empty")
	}
	if isBcryptDigest(digest) {
		if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)); err != nil {
			return ErrBadCredential
		}
		return nil
	}
	computed := HashPassword(candidate)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(digest))) != 1 {
		return ErrBadCredential
	}
	return nil
}

func isBcryptDigest(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

// Hasher produces digests for newly stored credentials.
type Hasher struct {
	scheme string
}

// NewHasher validates scheme; an empty scheme means SchemeSHA256.
func NewHasher(scheme string) (*Hasher, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(scheme)); normalized {
	case "", SchemeSHA256:
		return &Hasher{scheme: SchemeSHA256}, nil
	case SchemeBcrypt:
		return &Hasher{scheme: SchemeBcrypt}, nil
	default:
		return nil, fmt.Errorf("unsupported password scheme: %s", scheme)
	}
}

// Scheme reports the scheme used for new digests.
func (h *Hasher) Scheme() string {
	if h == nil {
		return SchemeSHA256
	}
	return h.scheme
}

// Hash 对明文密码进行哈希处理
func (h *Hasher) Hash(password string) (string, error) {
	if h.Scheme() == SchemeBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
		if err != nil {
			return "", err
		}
		return string(hashed), nil
	}
	return HashPassword(password), nil
}
