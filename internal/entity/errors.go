package entity

import "errors"

var (
	ErrNotFound               = errors.New("record not found")
	ErrEmailAlreadyRegistered = errors.New("Email already registered.")
	ErrDuplicate              = errors.New("duplicate record")
)
