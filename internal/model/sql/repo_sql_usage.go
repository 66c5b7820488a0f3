package sql

import (
	"context"
	"emotioncolor/internal/entity"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IncrementAPIUsage bumps the per-user and per-endpoint counters in one transaction.
func (r *GormRepository) IncrementAPIUsage(ctx context.Context, userID uint, endpoint, method string) error {
	if err := r.ready(); err != nil {
		return err
	}
	endpoint = strings.TrimSpace(endpoint)
	method = strings.ToUpper(strings.TrimSpace(method))
	if userID == 0 || endpoint == "" || method == "" {
		return fmt.Errorf("invalid usage record")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"api_count": gorm.Expr("user_api_usages.api_count + 1"),
			}),
		}).Create(&entity.DbUserAPIUsage{UserID: userID, APICount: 1}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "endpoint"}, {Name: "method"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"request_count": gorm.Expr("endpoint_stats.request_count + 1"),
			}),
		}).Create(&entity.DbEndpointStat{Endpoint: endpoint, Method: method, RequestCount: 1}).Error
	})
}

// ListUserUsage returns every user with its role and API call count, busiest first.
func (r *GormRepository) ListUserUsage(ctx context.Context) ([]entity.UserUsageItem, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	items := make([]entity.UserUsageItem, 0)
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.email AS email, COALESCE(user_roles.role, '') AS role, COALESCE(user_api_usages.api_count, 0) AS api_count").
		Joins("LEFT JOIN user_roles ON user_roles.user_id = users.id").
		Joins("LEFT JOIN user_api_usages ON user_api_usages.user_id = users.id").
		Order("api_count DESC, users.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListEndpointUsage returns request counts per route and method, busiest first.
func (r *GormRepository) ListEndpointUsage(ctx context.Context) ([]entity.EndpointUsageItem, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	items := make([]entity.EndpointUsageItem, 0)
	err := r.db.WithContext(ctx).
		Model(&entity.DbEndpointStat{}).
		Select("endpoint, method, request_count").
		Order("request_count DESC, endpoint ASC, method ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
