package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyNotebook      = errors.New("notebook has no questions")
	ErrInvalidCredentials = errors.New("invalid pseudonym or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPseudonymTaken     = errors.New("pseudonym already taken")
)
