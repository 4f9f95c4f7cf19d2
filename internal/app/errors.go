package app

import "errors"

var (
	ErrEmptyInput         = errors.New("empty input")
	ErrInvalidDate        = errors.New("invalid date")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("no matching deadline")
	ErrSelectionRequired  = errors.New("no deadline selected")
)
