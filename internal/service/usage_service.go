package service

import (
	"context"
	"emotioncolor/internal/entity"
	"emotioncolor/internal/model"
	"emotioncolor/internal/storage"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const reportCategory = "reports"

// UsageService 记录 API 调用次数并生成管理后台报表
type UsageService struct {
	repo          model.Repository
	storage       storage.Storage
	publicBaseURL string
	now           func() time.Time
}

// NewUsageService 创建统计服务实例，store 为 nil 时导出不可用
func NewUsageService(repo model.Repository, store storage.Storage, publicBaseURL string, now func() time.Time) *UsageService {
	if now == nil {
		now = time.Now
	}
	return &UsageService{
		repo:          repo,
		storage:       store,
		publicBaseURL: publicBaseURL,
		now:           now,
	}
}

// Record 为用户与路由模板各加一次计数
func (s *UsageService) Record(ctx context.Context, userID uint, endpoint, method string) error {
	if err := s.repo.IncrementAPIUsage(ctx, userID, endpoint, method); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// UserUsage 返回按调用次数排序的用户统计
func (s *UsageService) UserUsage(ctx context.Context) ([]entity.UserUsageItem, error) {
	items, err := s.repo.ListUserUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user usage: %w", err)
	}
	return items, nil
}

// EndpointUsage 返回按请求次数排序的接口统计
func (s *UsageService) EndpointUsage(ctx context.Context) ([]entity.EndpointUsageItem, error) {
	items, err := s.repo.ListEndpointUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list endpoint usage: %w", err)
	}
	return items, nil
}

// Export 将当前统计写成 JSON 快照并保存到存储后端
func (s *UsageService) Export(ctx context.Context) (*entity.UsageExportResponse, error) {
	if s.storage == nil {
		return nil, ErrStorageNotEnabled
	}

	users, err := s.UserUsage(ctx)
	if err != nil {
		return nil, err
	}
	endpoints, err := s.EndpointUsage(ctx)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC().Truncate(time.Second)
	payload, err := json.MarshalIndent(entity.UsageSnapshot{
		GeneratedAt: generatedAt,
		Users:       users,
		Endpoints:   endpoints,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	location, err := s.storage.Save(ctx, payload, storage.SaveOptions{
		Category:    reportCategory,
		Extension:   "json",
		BaseName:    "usage-" + generatedAt.Format("20060102-150405"),
		At:          generatedAt,
		NoOverwrite: true,
	})
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"storage":   s.storage.Type(),
		"location":  location,
		"users":     len(users),
		"endpoints": len(endpoints),
	}).Info("usage snapshot exported")

	return &entity.UsageExportResponse{
		Location:    location,
		URL:         storage.PublicURL(s.publicBaseURL, location),
		GeneratedAt: generatedAt,
		Users:       len(users),
		Endpoints:   len(endpoints),
	}, nil
}
