package service

import "errors"

var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrBadAnswer         = errors.New("security answer does not match")
	ErrInvalidInput      = errors.New("invalid input")
	ErrColorExists       = errors.New("color already exists for emotion")
	ErrColorNotFound     = errors.New("color not found for emotion")
	ErrStorageNotEnabled = errors.New("report storage not configured")
)
