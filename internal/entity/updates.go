package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	PasswordHash *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ColorUpdates 颜色更新字段
type ColorUpdates struct {
	Color *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ColorUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Color != nil {
		updates["color"] = *u.Color
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ColorUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
