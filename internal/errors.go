package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeDuplicate    ErrorType = "DUPLICATE_RESOURCE"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeTeamNotFound       ErrorCode = "TEAM_NOT_FOUND"
	ErrCodeAssignmentNotFound ErrorCode = "ASSIGNMENT_NOT_FOUND"

	ErrCodeDuplicateEmployee     ErrorCode = "DUPLICATE_EMPLOYEE_EMAIL"
	ErrCodeDuplicateTeam         ErrorCode = "DUPLICATE_TEAM_NAME"
	ErrCodeDuplicateAssignment   ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeDuplicateOrganisation ErrorCode = "DUPLICATE_ORGANISATION"
	ErrCodeDuplicateUserEmail    ErrorCode = "DUPLICATE_USER_EMAIL"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodePrincipalNotFound  ErrorCode = "PRINCIPAL_NOT_FOUND"

	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details interface{}) *AppError {
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

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewDuplicateError reports a uniqueness violation. Surfaced as 400 so the
// frontend treats it like any other rejected form submission.
func NewDuplicateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicate,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeStorage,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrEmployeeNotFound   = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrTeamNotFound       = NewNotFoundError("Team not found", ErrCodeTeamNotFound)
	ErrAssignmentNotFound = NewNotFoundError("Assignment not found", ErrCodeAssignmentNotFound)

	ErrDuplicateEmployee     = NewDuplicateError("Employee with this email already exists", ErrCodeDuplicateEmployee)
	ErrDuplicateTeam         = NewDuplicateError("Team with this name already exists", ErrCodeDuplicateTeam)
	ErrDuplicateAssignment   = NewDuplicateError("Employee is already in this team", ErrCodeDuplicateAssignment)
	ErrDuplicateOrganisation = NewDuplicateError("Organisation name already exists", ErrCodeDuplicateOrganisation)
	ErrDuplicateUserEmail    = NewDuplicateError("User email already exists", ErrCodeDuplicateUserEmail)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewForbiddenError("Invalid or expired token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewForbiddenError("Token expired", ErrCodeTokenExpired)
	ErrPrincipalNotFound  = NewUnauthorizedError("User not found", ErrCodePrincipalNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
