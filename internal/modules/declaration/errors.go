package declaration

import "errors"

var (
	ErrNotFound   = errors.New("declaration not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
