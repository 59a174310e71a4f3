package account

import "errors"

var (
	ErrAlreadySubscribed = errors.New("subscription already active")
	ErrProcessor         = errors.New("payment processor error")
)
