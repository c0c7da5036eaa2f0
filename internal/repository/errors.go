package repository

import "errors"

var (
	ErrDuplicateUser = errors.New("pseudonym already taken")
	// ErrVersionConflict means the user changed since it was read
	ErrVersionConflict = errors.New("user modified concurrently")
)
