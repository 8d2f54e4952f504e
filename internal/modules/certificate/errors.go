package certificate

import "errors"

var (
	ErrNotFound   = errors.New("certificate not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
