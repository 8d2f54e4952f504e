package employee

import "errors"

var (
	ErrNotFound   = errors.New("employee not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
