package domain

import "errors"

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingParameter = errors.New("missing required parameters")
	ErrStoreFailure     = errors.New("store failure")
)
