package user

import "errors"

// Module errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrInvalidUserType   = errors.New("user type must be buyer or seller")
)
