package model

import "fmt"

// NotFoundError indicates a template, field, record, or entity type is absent.
// Transport layers map this to 404.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

// NotFoundf formats a NotFoundError.
func NotFoundf(format string, args ...any) NotFoundError {
	return NotFoundError(fmt.Sprintf(format, args...))
}

// UnauthorizedError indicates a failed tenant-membership or role check.
// Transport layers map this to 403.
type UnauthorizedError string

func (e UnauthorizedError) Error() string { return string(e) }

// Unauthorizedf formats an UnauthorizedError.
func Unauthorizedf(format string, args ...any) UnauthorizedError {
	return UnauthorizedError(fmt.Sprintf(format, args...))
}

// ValidationError indicates malformed caller input.
// Transport layers map this to 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Validationf formats a ValidationError.
func Validationf(format string, args ...any) ValidationError {
	return ValidationError(fmt.Sprintf(format, args...))
}

// SystemError is the catch-all for store-level failures.
// Transport layers map this to 500.
type SystemError string

func (e SystemError) Error() string { return string(e) }

// Systemf formats a SystemError.
func Systemf(format string, args ...any) SystemError {
	return SystemError(fmt.Sprintf(format, args...))
}
