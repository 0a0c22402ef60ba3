package repository

import "errors"

// Sentinel kinds for ranking-store errors.
var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
