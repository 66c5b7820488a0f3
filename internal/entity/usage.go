package entity

import "time"

// DbUserAPIUsage counts authenticated API calls per user.
type DbUserAPIUsage struct {
	ID       uint  `gorm:"primarykey" json:"id"`
	UserID   uint  `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	APICount int64 `gorm:"column:api_count;not null;default:0" json:"api_count"`
}

// TableName 指定表名
func (DbUserAPIUsage) TableName() string {
	return "user_api_usages"
}

// DbEndpointStat counts requests per route template and method.
type DbEndpointStat struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Endpoint     string `gorm:"column:endpoint;type:varchar(150);uniqueIndex:idx_endpoint_method;not null" json:"endpoint"`
	Method       string `gorm:"column:method;type:varchar(10);uniqueIndex:idx_endpoint_method;not null" json:"method"`
	RequestCount int64  `gorm:"column:request_count;not null;default:0" json:"request_count"`
}

// TableName 指定表名
func (DbEndpointStat) TableName() string {
	return "endpoint_stats"
}

// UserUsageItem is one row of the per-user usage report.
type UserUsageItem struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	APICount int64  `json:"api_count"`
}

// EndpointUsageItem is one row of the per-endpoint usage report.
type EndpointUsageItem struct {
	Endpoint     string `json:"endpoint"`
	Method       string `json:"method"`
	RequestCount int64  `json:"request_count"`
}

type UserUsageListResponse struct {
	Users []UserUsageItem `json:"users"`
}

type EndpointUsageListResponse struct {
	Endpoints []EndpointUsageItem `json:"endpoints"`
}

// UsageSnapshot is the document written by the stats export.
type UsageSnapshot struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Users       []UserUsageItem     `json:"users"`
	Endpoints   []EndpointUsageItem `json:"endpoints"`
}

type UsageExportResponse struct {
	Location    string    `json:"location"`
	URL         string    `json:"url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Users       int       `json:"users"`
	Endpoints   int       `json:"endpoints"`
}
