package auth

import "errors"

var (
	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown-user and wrong-password so the
	// two failures stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a session token is missing, unknown,
	// destroyed, or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is the credential store's lookup miss. Authenticate folds
	// it into ErrInvalidCredentials before it reaches a response.
	ErrUserNotFound = errors.New("user not found")
)
