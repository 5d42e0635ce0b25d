package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized     ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeInvalidOperation ErrorType = "INVALID_OPERATION"
	ErrorTypeLimitExceeded    ErrorType = "LIMIT_EXCEEDED"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidHours     ErrorCode = "INVALID_HOURS"
	ErrCodeInvalidDayType   ErrorCode = "INVALID_DAY_TYPE"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeEmptyBatch       ErrorCode = "EMPTY_BATCH"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeProjectNotFound    ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeSettingsNotFound   ErrorCode = "SETTINGS_NOT_FOUND"
	ErrCodeAssignmentNotFound ErrorCode = "ASSIGNMENT_NOT_FOUND"

	ErrCodeAdminCannotLog     ErrorCode = "ADMIN_CANNOT_LOG"
	ErrCodeNotOwner           ErrorCode = "NOT_OWNER"
	ErrCodeNotSubordinate     ErrorCode = "NOT_SUBORDINATE"
	ErrCodeEditWindowClosed   ErrorCode = "EDIT_WINDOW_CLOSED"
	ErrCodeEntryVerified      ErrorCode = "ENTRY_VERIFIED"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeCannotDeleteSelf   ErrorCode = "CANNOT_DELETE_SELF"
	ErrCodeRoleChangeDenied   ErrorCode = "ROLE_CHANGE_DENIED"
	ErrCodeTeamTransferDenied ErrorCode = "TEAM_TRANSFER_DENIED"

	ErrCodeOffDay         ErrorCode = "OFF_DAY"
	ErrCodeDailyCap       ErrorCode = "DAILY_CAP_EXCEEDED"
	ErrCodeMixedBatch     ErrorCode = "MIXED_BATCH"
	ErrCodeDefaultProject ErrorCode = "DEFAULT_PROJECT"
	ErrCodeInvalidLeader  ErrorCode = "INVALID_TEAM_LEADER"
	ErrCodeWeeklyLimit    ErrorCode = "WEEKLY_LIMIT_EXCEEDED"
	ErrCodeSMTPNotSet     ErrorCode = "SMTP_NOT_CONFIGURED"

	ErrCodeDuplicateUsername ErrorCode = "DUPLICATE_USERNAME"
	ErrCodeDuplicateProject  ErrorCode = "DUPLICATE_PROJECT"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeWrongPassword      ErrorCode = "WRONG_PASSWORD"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:       http.StatusBadRequest,
	ErrorTypeNotFound:         http.StatusNotFound,
	ErrorTypeUnauthorized:     http.StatusUnauthorized,
	ErrorTypeForbidden:        http.StatusForbidden,
	ErrorTypeConflict:         http.StatusConflict,
	ErrorTypeInvalidOperation: http.StatusBadRequest,
	ErrorTypeLimitExceeded:    http.StatusBadRequest,
	ErrorTypeInternal:         http.StatusInternalServerError,
}

func newAppError(t ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: statusByType[t]}
}

// Error returns the first field message for validation failures so log
// lines name the offending field.
func (e *AppError) Error() string {
	if v, ok := e.Details.(ValidationErrors); ok && len(v.Errors) > 0 {
		return v.Errors[0].Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// LimitDetails is attached to LIMIT_EXCEEDED errors so clients can show
// how far over the weekly allowance a request went.
type LimitDetails struct {
	Limit     float64 `json:"limit"`
	Current   float64 `json:"current"`
	Requested float64 `json:"requested"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message)
}

// NewValidationFieldError reports a single bad field under VALIDATION_FAILED;
// code is the rule specific code carried on the field entry.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, ErrCodeValidationFailed, "Validation failed").
		WithDetails(ValidationErrors{Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}}})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message)
}

func NewInvalidOperationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeInvalidOperation, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message)
}

func NewLimitExceededError(limit, current, requested decimal.Decimal) *AppError {
	msg := fmt.Sprintf("weekly limit of %sh exceeded: %sh already logged, %sh requested",
		limit.StringFixed(1), current.StringFixed(1), requested.StringFixed(1))
	return newAppError(ErrorTypeLimitExceeded, ErrCodeWeeklyLimit, msg).WithDetails(LimitDetails{
		Limit:     limit.InexactFloat64(),
		Current:   current.InexactFloat64(),
		Requested: requested.InexactFloat64(),
	})
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, "INTERNAL_ERROR", message).WithCause(cause)
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == t
}

// Response is the envelope every error body is written in.
type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, any) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
		Details any       `json:"details,omitempty"`
	}{e.Type, e.Code, e.Message, e.Details})
}
