package sql

import (
	"context"
	"emotioncolor/internal/entity"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

// GetUserRole returns the role assigned to userID.
func (r *GormRepository) GetUserRole(ctx context.Context, userID uint) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	if userID == 0 {
		return "", fmt.Errorf("invalid user id")
	}
	var role entity.DbUserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error; err != nil {
		return "", err
	}
	return role.Role, nil
}

// AssignUserRole sets the single role of userID, replacing any previous one.
func (r *GormRepository) AssignUserRole(ctx context.Context, userID uint, role string) error {
	if err := r.ready(); err != nil {
		return err
	}
	role = strings.TrimSpace(role)
	if userID == 0 || role == "" {
		return fmt.Errorf("invalid role assignment")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(&entity.DbUserRole{UserID: userID, Role: role}).Error
}

// GetSecurityQuestionByEmail loads the recovery question of the account with email.
func (r *GormRepository) GetSecurityQuestionByEmail(ctx context.Context, email string) (*entity.DbSecurityQuestion, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var question entity.DbSecurityQuestion
	err := r.db.WithContext(ctx).
		Model(&entity.DbSecurityQuestion{}).
		Joins("JOIN users ON users.id = security_questions.user_id").
		Where("LOWER(users.email) = ?", trimmed).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}
