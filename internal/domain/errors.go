package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrInsufficientBalance() *AppError {
	return &AppError{Code: "INSUFFICIENT_BALANCE", Message: "insufficient balance", Status: 400}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// Lottery lifecycle errors.

func ErrWrongCount(required int) *AppError {
	return &AppError{Code: "WRONG_COUNT", Message: fmt.Sprintf("you must pick %d numbers", required), Status: 400}
}

func ErrOutOfRange(min, max int) *AppError {
	return &AppError{Code: "OUT_OF_RANGE", Message: fmt.Sprintf("numbers must be between %d and %d", min, max), Status: 400}
}

func ErrDrawClosed() *AppError {
	return &AppError{Code: "DRAW_CLOSED", Message: "draw not open for ticket sales", Status: 400}
}

func ErrGameUnavailable() *AppError {
	return &AppError{Code: "GAME_UNAVAILABLE", Message: "game type not available", Status: 400}
}

func ErrCannotClose() *AppError {
	return &AppError{Code: "CANNOT_CLOSE", Message: "draw cannot be closed in its current state", Status: 400}
}

func ErrMustCloseFirst() *AppError {
	return &AppError{Code: "MUST_CLOSE_FIRST", Message: "draw must be closed before publishing results", Status: 400}
}

func ErrNotReady() *AppError {
	return &AppError{Code: "NOT_READY", Message: "draw not ready for settlement", Status: 400}
}

func ErrResultMissing() *AppError {
	return &AppError{Code: "RESULT_MISSING", Message: "draw result not entered", Status: 400}
}

func ErrNoTiers() *AppError {
	return &AppError{Code: "NO_TIERS", Message: "no prize tiers defined", Status: 400}
}
