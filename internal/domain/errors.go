package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrValidation             = errors.New("validation failed")
	ErrSocialAuthTokenInvalid = errors.New("social authentication token is invalid or expired")
	ErrDuplicateEmail         = errors.New("an account with this email already exists")
	ErrRegistrationInvalid    = errors.New("account registration failed")
)
