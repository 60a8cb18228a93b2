package domain

import "errors"

var (
	ErrInvalidCycle = errors.New("order type must be MONDAY or FRIDAY")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
