package storage

import "errors"

var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("blob key cannot be empty")
	ErrInvalidKey = errors.New("blob key contains invalid path segments")
)
