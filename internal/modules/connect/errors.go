package connect

import "errors"

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrForbidden        = errors.New("business belongs to another user")
	ErrNotConnected     = errors.New("business has no connected account")
	ErrProcessor        = errors.New("payment processor error")
)
