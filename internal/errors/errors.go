// Package errors defines the API-facing error envelope: the shapes that
// cross the HTTP boundary, and the small set of typed Go errors that know
// how to turn themselves into one. Each typed error wraps its cause with
// github.com/samber/oops so a server log can carry a stack trace and
// key/value context without the handler having to build that itself.
package errors

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// Error codes returned in ErrorDetail.Code.
const (
	CodeParseError        = "PARSE_ERROR"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeSchemaNotFound     = "SCHEMA_NOT_FOUND"
	CodeFieldNotFound      = "FIELD_NOT_FOUND"
	CodeUnresolvedField    = "UNRESOLVED_FIELD"
	CodeIncludeCycle       = "INCLUDE_CYCLE"
	CodeIncludeUnresolved  = "INCLUDE_UNRESOLVED"
	CodeInvalidRange       = "INVALID_RANGE"
	CodeUnsupportedSyntax  = "UNSUPPORTED_SYNTAX"
	CodeSchemaExists       = "SCHEMA_EXISTS"
	CodeInvalidSchema      = "INVALID_SCHEMA"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorDetail is the body of an API error response.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details []ErrorInfo `json:"details,omitempty"`
	Query   string      `json:"query,omitempty"`
}

// ErrorInfo carries one positional diagnostic, mirroring pkg/lucene.ParseError's
// Offset/Line/Column so a caller can underline the offending span.
type ErrorInfo struct {
	Position int    `json:"position,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
}

// ErrorResponse is the top-level JSON body returned for any non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ParseError reports a failure to lex or parse a query string.
type ParseError struct {
	Code     string
	Message  string
	Position int
	Cause    error
}

func NewParseError(msg string, position int) *ParseError {
	return &ParseError{
		Code:     CodeParseError,
		Message:  msg,
		Position: position,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s (position: %d)", e.Message, e.Position)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Wrap attaches cause, annotating it through oops so the server log carries a
// stack trace and the query position as structured context.
func (e *ParseError) Wrap(cause error) *ParseError {
	e.Cause = oops.
		With("position", e.Position).
		Wrap(cause)
	return e
}

func (e *ParseError) ToErrorDetail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Details: []ErrorInfo{
			{Position: e.Position, Message: e.Message},
		},
	}
}

// ValidationError reports a query that parsed but failed semantic checks
// (unresolved field, unsupported operator, leading wildcard, ...).
type ValidationError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func NewValidationError(msg string, field string) *ValidationError {
	return &ValidationError{
		Code:    CodeValidationError,
		Message: msg,
		Field:   field,
	}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.Message, e.Field)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func (e *ValidationError) Wrap(cause error) *ValidationError {
	e.Cause = oops.
		With("field", e.Field).
		Wrap(cause)
	return e
}

func (e *ValidationError) ToErrorDetail() ErrorDetail {
	var details []ErrorInfo
	if e.Field != "" {
		details = append(details, ErrorInfo{Message: fmt.Sprintf("field: %s", e.Field)})
	}
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// SchemaError reports a problem with a named field-alias registry: not
// found, already registered, or malformed.
type SchemaError struct {
	Code       string
	Message    string
	SchemaName string
	Cause      error
}

func NewSchemaError(msg string, schemaName string, code string) *SchemaError {
	return &SchemaError{
		Code:       code,
		Message:    msg,
		SchemaName: schemaName,
	}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s (schema: %s)", e.Message, e.SchemaName)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

func (e *SchemaError) Wrap(cause error) *SchemaError {
	e.Cause = oops.
		With("schema", e.SchemaName).
		Wrap(cause)
	return e
}

func (e *SchemaError) ToErrorDetail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Details: []ErrorInfo{
			{Message: fmt.Sprintf("schema: %s", e.SchemaName)},
		},
	}
}

// RateLimitError reports that a caller exceeded its request budget.
type RateLimitError struct {
	Code       string
	Message    string
	RetryAfter int
	Cause      error
}

func NewRateLimitError(msg string, retryAfter int) *RateLimitError {
	return &RateLimitError{
		Code:       CodeRateLimited,
		Message:    msg,
		RetryAfter: retryAfter,
	}
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit error: %s (retry after: %ds)", e.Message, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

func (e *RateLimitError) Wrap(cause error) *RateLimitError {
	e.Cause = oops.
		With("retry_after_seconds", e.RetryAfter).
		Wrap(cause)
	return e
}

func (e *RateLimitError) ToErrorDetail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Details: []ErrorInfo{
			{Message: fmt.Sprintf("retry after %d seconds", e.RetryAfter)},
		},
	}
}

// AuthError reports an authentication or authorization failure.
type AuthError struct {
	Code    string
	Message string
	Cause   error
}

func NewAuthError(msg string, code string) *AuthError {
	return &AuthError{
		Code:    code,
		Message: msg,
	}
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

func (e *AuthError) Wrap(cause error) *AuthError {
	e.Cause = oops.Wrap(cause)
	return e
}

func (e *AuthError) ToErrorDetail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
	}
}

// detailer is implemented by every typed error in this package.
type detailer interface {
	error
	ToErrorDetail() ErrorDetail
}

// FromParseErrors adapts a pkg/lucene.ParseErrors slice (as returned on
// lucene.ParseResult.Errors) into the local ErrorDetail shape, one ErrorInfo
// per diagnostic so a caller can underline every offending span at once
// instead of only the first.
func FromParseErrors(query string, errs lucene.ParseErrors) ErrorDetail {
	details := make([]ErrorInfo, 0, len(errs))
	for _, e := range errs {
		details = append(details, ErrorInfo{
			Position: e.Position.Offset,
			Line:     e.Position.Line,
			Column:   e.Position.Column,
			Message:  e.Message,
		})
	}
	msg := "failed to parse query"
	if len(errs) > 0 {
		msg = errs[0].Message
	}
	return ErrorDetail{
		Code:    CodeParseError,
		Message: msg,
		Query:   query,
		Details: details,
	}
}

// FromValidationResult adapts a pkg/lucene.ValidationResult's accumulated
// errors into the local ErrorDetail shape.
func FromValidationResult(query string, result *lucene.ValidationResult) ErrorDetail {
	details := make([]ErrorInfo, 0, len(result.Errors))
	for _, e := range result.Errors {
		details = append(details, ErrorInfo{Message: e.Message})
	}
	msg := "query failed validation"
	if len(result.Errors) > 0 {
		msg = result.Errors[0].Message
	}
	return ErrorDetail{
		Code:    CodeValidationError,
		Message: msg,
		Query:   query,
		Details: details,
	}
}

// FromLuceneError adapts any other error crossing the pkg/lucene boundary
// into the local ErrorDetail shape. A typed error defined in this package
// converts directly; anything else collapses to a generic internal error so
// a handler never leaks an un-enveloped error message.
func FromLuceneError(err error) ErrorDetail {
	if d, ok := err.(detailer); ok {
		return d.ToErrorDetail()
	}
	return ErrorDetail{
		Code:    CodeInternalError,
		Message: err.Error(),
	}
}
