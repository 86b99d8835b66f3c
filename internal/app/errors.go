package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidBoardName = errors.New("invalid board name")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)
