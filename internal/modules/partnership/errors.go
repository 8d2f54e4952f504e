package partnership

import "errors"

var (
	ErrNotFound   = errors.New("partnership not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
