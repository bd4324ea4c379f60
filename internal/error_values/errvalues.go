package errorvalues

import "errors"

var (
	ErrUserExists         = errors.New("such user already exists")
	ErrUserNotFound       = errors.New("user doesn't exist")
	ErrWrongCredentials   = errors.New("wrong name or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrRecordNotFound     = errors.New("user record doesn't exist")
	ErrTaskNotFound       = errors.New("task doesn't exist")
	ErrInvalidDate        = errors.New("date is not a valid YYYY-MM-DD calendar date")
	ErrDateNotAllowed     = errors.New("completion date is in the future")
	ErrUsernameAlreadySet = errors.New("username is already set")
	ErrCacheMiss          = errors.New("cache miss")
)
