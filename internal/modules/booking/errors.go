package booking

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("booking not found")
	ErrForbidden          = errors.New("booking belongs to another user")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrBusinessNotPayable = errors.New("business cannot accept payments yet")
	ErrAlreadySettled     = errors.New("booking is already settled")
	ErrProcessor          = errors.New("payment processor error")
)
