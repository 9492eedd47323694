package appstate

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes business-rule failures.
type ErrorCode string

const (
	// ErrCodeAuthFailed indicates a password did not match.
	ErrCodeAuthFailed ErrorCode = "AUTH_FAILED"

	// ErrCodeUserNotFound indicates no account has the given email.
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"

	// ErrCodeEmailTaken indicates registration with an existing email.
	ErrCodeEmailTaken ErrorCode = "EMAIL_TAKEN"

	// ErrCodeInvalidEmail indicates a malformed email address.
	ErrCodeInvalidEmail ErrorCode = "INVALID_EMAIL"

	// ErrCodeInvalidInput indicates any other rejected field value.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeNotLoggedIn indicates the operation needs an active session.
	ErrCodeNotLoggedIn ErrorCode = "NOT_LOGGED_IN"

	// ErrCodeForbidden indicates the session's role lacks the capability.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"

	// ErrCodeNotFound indicates the referenced record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeEmptyCart indicates checkout with nothing in the cart.
	ErrCodeEmptyCart ErrorCode = "EMPTY_CART"

	// ErrCodeInvalidStatus indicates an unknown order status.
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"

	// ErrCodeInvalidTransition indicates an order status moving backward.
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
)

// Error is a business-rule failure. Message is the text shown to the user.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an *Error with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
