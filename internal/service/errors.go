package service

import "errors"

// Error categories surfaced to handlers. Repository lookups that miss (or
// cross a tenant boundary) bubble up gorm.ErrRecordNotFound unchanged.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("finance amount exceeds available funds")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAccessDenied      = errors.New("access denied")
)
