package sql

import (
	"context"
	"emotioncolor/internal/entity"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// RegisterUser inserts the user, its role and its security question atomically.
// A second account for the same email fails with gorm.ErrDuplicatedKey.
func (r *GormRepository) RegisterUser(ctx context.Context, user *entity.DbUser, role string, question *entity.DbSecurityQuestion) error {
	if err := r.ready(); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("role is empty")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(&entity.DbUserRole{UserID: user.ID, Role: role}).Error; err != nil {
			return err
		}
		if question != nil {
			question.UserID = user.ID
			if err := tx.Create(question).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateUser updates an existing user entry.
func (r *GormRepository) UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error {
	if err := r.ready(); err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("invalid user")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetUserByEmail loads a user by email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(trimmed)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns paginated users joined with their role.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.UserWithRole, *entity.Meta, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}

	query := entity.UserQuery{}
	if params != nil {
		query = *params
	}
	query.Normalize(20, 100)

	base := r.db.WithContext(ctx).
		Table("users").
		Joins("LEFT JOIN user_roles ON user_roles.user_id = users.id")
	if role := strings.TrimSpace(query.Role); role != "" {
		base = base.Where("user_roles.role = ?", role)
	}
	if keyword := strings.TrimSpace(query.Keyword); keyword != "" {
		base = base.Where("LOWER(users.email) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	users := make([]entity.UserWithRole, 0)
	err := base.
		Select("users.id AS id, users.email AS email, COALESCE(user_roles.role, '') AS role, users.created_at AS created_at").
		Order("users.id ASC").
		Offset(query.Offset()).
		Limit(int(query.PageSize)).
		Scan(&users).Error
	if err != nil {
		return nil, nil, err
	}

	return users, r.calculatePagination(total, query.BaseParams), nil
}

// CountUsers returns total user count.
func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
