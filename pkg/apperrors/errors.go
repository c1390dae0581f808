package apperrors

import "errors"

var (
	ErrIdentity           = errors.New("caller identity missing")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAction      = errors.New("invalid action")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotReady           = errors.New("prompt not finalized")
	ErrConflict           = errors.New("concurrent update conflict")
	ErrEmptyPrompt        = errors.New("prompt must not be empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)
