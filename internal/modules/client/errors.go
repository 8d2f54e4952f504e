package client

import "errors"

var (
	ErrNotFound   = errors.New("client not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
