package sql

import (
	"context"
	"emotioncolor/internal/entity"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ListColors returns the emotion/color pairs of userID ordered by emotion.
func (r *GormRepository) ListColors(ctx context.Context, userID uint) ([]entity.DbUserColor, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	colors := make([]entity.DbUserColor, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("emotion ASC").
		Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

// CreateColor inserts a new pair. An existing (user, emotion) fails with gorm.ErrDuplicatedKey.
func (r *GormRepository) CreateColor(ctx context.Context, color *entity.DbUserColor) error {
	if err := r.ready(); err != nil {
		return err
	}
	if color == nil {
		return fmt.Errorf("color is nil")
	}
	if color.UserID == 0 || strings.TrimSpace(color.Emotion) == "" {
		return fmt.Errorf("invalid color")
	}
	return r.db.WithContext(ctx).Create(color).Error
}

// UpdateColor changes the color of an existing pair.
func (r *GormRepository) UpdateColor(ctx context.Context, userID uint, emotion string, updates entity.ColorUpdates) error {
	if err := r.ready(); err != nil {
		return err
	}
	if userID == 0 || strings.TrimSpace(emotion) == "" {
		return fmt.Errorf("invalid color")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// MySQL 在值未变化时 RowsAffected 为 0，先确认记录存在
		var existing entity.DbUserColor
		if err := tx.Where("user_id = ? AND emotion = ?", userID, emotion).First(&existing).Error; err != nil {
			return err
		}
		if updates.IsEmpty() {
			return nil
		}
		return tx.Model(&entity.DbUserColor{}).
			Where("user_id = ? AND emotion = ?", userID, emotion).
			Updates(updates.ToMap()).Error
	})
}

// DeleteColor removes a pair.
func (r *GormRepository) DeleteColor(ctx context.Context, userID uint, emotion string) error {
	if err := r.ready(); err != nil {
		return err
	}
	if userID == 0 || strings.TrimSpace(emotion) == "" {
		return fmt.Errorf("invalid color")
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND emotion = ?", userID, emotion).
		Delete(&entity.DbUserColor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
