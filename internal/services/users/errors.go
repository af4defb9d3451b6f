package users

import "errors"

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserAlreadyExists  = errors.New("user already has an account")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("email or password do not match")
	ErrSamePassword       = errors.New("new password cannot be equal to old password")
	ErrPasswordTooLong    = errors.New("password must not exceed 72 bytes")
)
