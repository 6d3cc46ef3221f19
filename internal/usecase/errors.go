package usecase

import "errors"

const (
	CodeValidation      = "VALIDATION"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRateLimited     = "RATE_LIMITED"
)

// DomainError is a business rule failure the client can act on. The
// HTTP layer maps Code to a status; Message goes to the response body.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// TechnicalError is an infrastructure failure. Clients only ever see a
// generic message; the real cause stays in the logs.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationErr(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

func notFoundErr(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

func conflictErr(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

func unauthenticatedErr(message string) *DomainError {
	return &DomainError{Code: CodeUnauthenticated, Message: message}
}

func forbiddenErr(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

func rateLimitedErr(message string) *DomainError {
	return &DomainError{Code: CodeRateLimited, Message: message}
}
