package api

import (
	"emotioncolor/internal/auth"
	"emotioncolor/internal/config"
	"emotioncolor/internal/model"
	"emotioncolor/internal/service"
	"emotioncolor/internal/storage"
	"fmt"
	"time"
)

const requestTimeout = 5 * time.Second

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager
	gate        *auth.Gate

	// 服务层
	authService  *service.AuthService
	colorService *service.ColorService
	usageService *service.UsageService

	metrics *httpMetrics
	limiter *ipRateLimiter
	now     func() time.Time
}

type handlerOptions struct {
	now func() time.Time
}

// HandlerOption 配置 HTTPHandler
type HandlerOption func(*handlerOptions)

// WithClock 替换 token 签发、校验与限流使用的时钟
func WithClock(now func() time.Time) HandlerOption {
	return func(o *handlerOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewHTTPHandler 创建 HTTP 处理器实例，store 可为 nil（此时导出不可用）
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, opts ...HandlerOption) (*HTTPHandler, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	options := handlerOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry, auth.WithClock(options.now))
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewHasher(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:          cfg,
		repo:         repo,
		authManager:  authManager,
		gate:         auth.NewGate(authManager),
		authService:  service.NewAuthService(repo, authManager, hasher),
		colorService: service.NewColorService(repo),
		usageService: service.NewUsageService(repo, store, cfg.StoragePublicBaseURL, options.now),
		metrics:      newHTTPMetrics(),
		limiter:      newIPRateLimiter(cfg.AuthRateLimitPerSecond, cfg.AuthRateLimitBurst, options.now),
		now:          options.now,
	}, nil
}
