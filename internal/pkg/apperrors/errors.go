package apperrors

import "errors"

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Reset token errors. Both collapse to the same user-visible
// "invalid or expired" outcome; callers may log them apart.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Admission errors
var (
	ErrAdmissionExists   = errors.New("admission record already exists")
	ErrAdmissionNotFound = errors.New("admission record not found")
)

// Is reports whether err matches target or any of the extra errors.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
