package domain

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrInvalidTitle  = errors.New("invalid title")
	ErrInvalidFilter = errors.New("invalid filter")
)
