package entity

// Re-export common types from the common package.

import (
	"emotioncolor/internal/entity/common"
)

type Meta = common.Meta
type BaseParams = common.BaseParams
