package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain failure independent of its message
type Code string

const (
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeEmailExists        Code = "EMAIL_EXISTS"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidResetToken  Code = "INVALID_RESET_TOKEN"
	CodeContactNotFound    Code = "CONTACT_NOT_FOUND"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeEmailDelivery      Code = "EMAIL_DELIVERY_FAILED"
)

// DomainError is what the service layer returns. Err keeps the store or
// transport failure that caused it.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code, so a wrapped copy still satisfies
// errors.Is against the predefined value.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func NewDomainError(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WrapError returns a copy of domainErr carrying err as its cause
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

var (
	ErrUserNotFound       = NewDomainError(CodeUserNotFound, "user not found")
	ErrEmailExists        = NewDomainError(CodeEmailExists, "email already exists")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid credentials")
	ErrInvalidResetToken  = NewDomainError(CodeInvalidResetToken, "invalid or expired reset token")

	ErrContactNotFound = NewDomainError(CodeContactNotFound, "Contact not found")

	ErrInternal      = NewDomainError(CodeInternal, "internal server error")
	ErrEmailDelivery = NewDomainError(CodeEmailDelivery, "failed to send email")
)

// statusByCode is the HTTP view of each code. Codes missing here are 500.
var statusByCode = map[Code]int{
	CodeInvalidResetToken:  http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeUserNotFound:       http.StatusNotFound,
	CodeContactNotFound:    http.StatusNotFound,
	CodeEmailExists:        http.StatusConflict,
}

// GetDomainError extracts the domain error from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus is for handlers only
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		if status, ok := statusByCode[domainErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// GetErrorMessage returns the client-facing message of a domain error, or
// the raw text of anything else.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Message
	}
	return err.Error()
}
