package importer

import (
	"errors"
	"fmt"
)

// Kind classifies import failures. Every kind except KindSystem is
// user-actionable and surfaced verbatim; system errors are stripped of
// detail before leaving the service layer.
type Kind string

const (
	KindFormat      Kind = "IMPORT_FORMAT"
	KindParse       Kind = "IMPORT_PARSE"
	KindReferential Kind = "IMPORT_REFERENTIAL"
	KindValidation  Kind = "IMPORT_VALIDATION"
	KindSystem      Kind = "IMPORT_SYSTEM"
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func FormatErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Message: fmt.Sprintf(format, args...)}
}

func ParseErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

func ReferentialErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindReferential, Message: fmt.Sprintf(format, args...)}
}

func ValidationErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// SystemError wraps an unexpected failure, keeping the cause for logs.
func SystemError(cause error) *Error {
	return &Error{Kind: KindSystem, Message: "import failed due to an internal error", cause: cause}
}

// KindOf returns the import error kind, defaulting to KindSystem for
// errors raised outside the engine.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindSystem
}

// IsUserError reports whether the error message is safe to show to the
// caller that supplied the import file.
func IsUserError(err error) bool {
	return KindOf(err) != KindSystem
}
