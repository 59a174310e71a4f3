package business

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("business not found")
	ErrForbidden            = errors.New("business belongs to another user")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrSubscriptionRequired = errors.New("active subscription required")
)
