package storage

import (
	"context"
	"emotioncolor/internal/config"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// ErrObjectExists 在 NoOverwrite 模式下目标对象已存在时返回。
var ErrObjectExists = errors.New("storage: object already exists")

// SaveOptions 控制存储后端如何持久化报表文件。
//
// 对象路径为 <category>/<yyyy>/<mm>/<dd>/<base>.<ext>，日期取自 At（为空时取当前 UTC 时间）。
type SaveOptions struct {
	Category    string
	Extension   string
	BaseName    string
	At          time.Time
	NoOverwrite bool
}

// Storage 持久化导出的报表并返回对象路径。
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	Type() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// PublicURL joins baseURL and key; an empty baseURL yields "".
func PublicURL(baseURL, key string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" || strings.TrimSpace(key) == "" {
		return ""
	}
	return base + "/" + strings.TrimLeft(key, "/")
}

func checkSave(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	return ctx.Err()
}
