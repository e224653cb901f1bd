package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrInvalidID     = errors.New("invalid identifier")
	ErrNotAuthorized = errors.New("user not authorized")
	ErrForbidden     = errors.New("only admins can promote users")
	ErrEmailRequired = errors.New("email is required")
)
