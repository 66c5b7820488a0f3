package service

import (
	"context"
	"emotioncolor/internal/entity"
	"emotioncolor/internal/model"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

const maxColorFieldLength = 20

// ColorService 管理用户的情绪颜色偏好，userID 必须来自已验证的 token
type ColorService struct {
	repo model.Repository
}

// NewColorService 创建颜色服务实例
func NewColorService(repo model.Repository) *ColorService {
	return &ColorService{repo: repo}
}

func normalizeColorPair(emotion, color string) (string, string, error) {
	emotion = strings.TrimSpace(emotion)
	color = strings.TrimSpace(color)
	if emotion == "" || color == "" ||
		utf8.RuneCountInString(emotion) > maxColorFieldLength ||
		utf8.RuneCountInString(color) > maxColorFieldLength {
		return "", "", ErrInvalidInput
	}
	return emotion, color, nil
}

// List 返回用户的全部情绪颜色
func (s *ColorService) List(ctx context.Context, userID uint) ([]entity.ColorItem, error) {
	colors, err := s.repo.ListColors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	items := make([]entity.ColorItem, 0, len(colors))
	for _, c := range colors {
		items = append(items, entity.ColorItem{Emotion: c.Emotion, Color: c.Color})
	}
	return items, nil
}

// Add 新增一条情绪颜色
func (s *ColorService) Add(ctx context.Context, userID uint, emotion, color string) error {
	emotion, color, err := normalizeColorPair(emotion, color)
	if err != nil {
		return err
	}
	err = s.repo.CreateColor(ctx, &entity.DbUserColor{UserID: userID, Emotion: emotion, Color: color})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrColorExists
		}
		return fmt.Errorf("create color: %w", err)
	}
	return nil
}

// Update 修改已有情绪的颜色
func (s *ColorService) Update(ctx context.Context, userID uint, emotion, color string) error {
	emotion, color, err := normalizeColorPair(emotion, color)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateColor(ctx, userID, emotion, entity.ColorUpdates{Color: &color}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColorNotFound
		}
		return fmt.Errorf("update color: %w", err)
	}
	return nil
}

// Delete 删除一条情绪颜色
func (s *ColorService) Delete(ctx context.Context, userID uint, emotion string) error {
	emotion = strings.TrimSpace(emotion)
	if emotion == "" {
		return ErrInvalidInput
	}
	if err := s.repo.DeleteColor(ctx, userID, emotion); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColorNotFound
		}
		return fmt.Errorf("delete color: %w", err)
	}
	return nil
}
