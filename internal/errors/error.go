package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryCLI      Category = "cli"
)

// CrumbError is a structured error with a registered code, a short message,
// an explanation and a hint on how to fix it.
type CrumbError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CrumbError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CrumbError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *CrumbError with the same code.
func (e *CrumbError) Is(target error) bool {
	t, ok := target.(*CrumbError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *CrumbError) WithSuggestion(s string) *CrumbError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *CrumbError) WithDetail(d string) *CrumbError {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted one.
func (e *CrumbError) WithDetailf(format string, args ...any) *CrumbError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *CrumbError) Wrap(err error) *CrumbError {
	e.Wrapped = err
	return e
}

// Format renders the error for terminal output:
//
//	ERROR E101: Breadcrumb scope not found
//
//	  Breadcrumb components must be rendered below breadcrumb.Provider.
//
//	  Hint: wrap the page in breadcrumb.Provider(...)
func (e *CrumbError) Format() string {
	var b strings.Builder
	b.WriteString("ERROR ")
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n")
	if e.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		b.WriteString("\n  Cause: ")
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n")
	}
	if e.Suggestion != "" {
		b.WriteString("\n  Hint: ")
		b.WriteString(e.Suggestion)
		b.WriteString("\n")
	}
	return b.String()
}

// New creates a CrumbError from a registered error code.
func New(code string) *CrumbError {
	template, ok := registry[code]
	if !ok {
		return &CrumbError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CrumbError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a CrumbError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *CrumbError {
	return &CrumbError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in the registered error code. A nil err yields nil.
func FromError(err error, code string) *CrumbError {
	if err == nil {
		return nil
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err or anything it wraps is a CrumbError with code.
func HasCode(err error, code string) bool {
	var ce *CrumbError
	for err != nil {
		if stderrors.As(err, &ce) {
			if ce.Code == code {
				return true
			}
			err = ce.Wrapped
			continue
		}
		return false
	}
	return false
}

// As returns the first CrumbError in err's chain.
func As(err error) (*CrumbError, bool) {
	var ce *CrumbError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
