package model

import (
	"context"
	"emotioncolor/internal/entity"
)

// Repository 定义数据库操作接口
//
// Lookups return gorm.ErrRecordNotFound when the row does not exist.
type Repository interface {
	// 用户管理
	RegisterUser(ctx context.Context, user *entity.DbUser, role string, question *entity.DbSecurityQuestion) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.UserWithRole, *entity.Meta, error)
	CountUsers(ctx context.Context) (int64, error)

	// 角色与安全问题
	GetUserRole(ctx context.Context, userID uint) (string, error)
	AssignUserRole(ctx context.Context, userID uint, role string) error
	GetSecurityQuestionByEmail(ctx context.Context, email string) (*entity.DbSecurityQuestion, error)

	// 情绪颜色
	ListColors(ctx context.Context, userID uint) ([]entity.DbUserColor, error)
	CreateColor(ctx context.Context, color *entity.DbUserColor) error
	UpdateColor(ctx context.Context, userID uint, emotion string, updates entity.ColorUpdates) error
	DeleteColor(ctx context.Context, userID uint, emotion string) error

	// 使用统计
	IncrementAPIUsage(ctx context.Context, userID uint, endpoint, method string) error
	ListUserUsage(ctx context.Context) ([]entity.UserUsageItem, error)
	ListEndpointUsage(ctx context.Context) ([]entity.EndpointUsageItem, error)
}
