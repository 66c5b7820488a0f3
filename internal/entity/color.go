package entity

import "time"

// DbUserColor maps one emotion of a user to a color.
type DbUserColor struct {
	UserID    uint      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	Emotion   string    `gorm:"column:emotion;type:varchar(20);primaryKey" json:"emotion"`
	Color     string    `gorm:"column:color;type:varchar(20);not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (DbUserColor) TableName() string {
	return "user_colors"
}

// ColorItem is an emotion/color pair returned to clients.
type ColorItem struct {
	Emotion string `json:"emotion"`
	Color   string `json:"color"`
}

type ColorRequest struct {
	Emotion string `json:"emotion" binding:"required,max=20"`
	Color   string `json:"color" binding:"required,max=20"`
}

type ColorListResponse struct {
	Colors []ColorItem `json:"colors"`
}
