package usecase

import (
	"errors"
	"fmt"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeRemote     = "REMOTE_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// DomainError is a failure the caller can fix (bad input, unknown record).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func NotFound(what string, id any) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf("%s %v not found", what, id)}
}

// TechnicalError wraps a failure of the record API or other infrastructure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func remoteError(msg string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeRemote, Message: msg, Err: err}
}

// userMessage is the short text put in a notification for err.
func userMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	var ve ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Message
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return "Unknown error"
	}
	return err.Error()
}
