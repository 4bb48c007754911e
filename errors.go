package main

import "errors"

// Sentinel errors handlers branch on with errors.Is. Lower layers wrap these
// with fmt.Errorf("%w: ...") to add detail.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)
