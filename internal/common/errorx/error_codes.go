package errorx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryAuthorization  ErrorCategory = "authorization"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryInternal       ErrorCategory = "internal"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// APIError represents a structured API error
type APIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Category   ErrorCategory  `json:"category"`
	Severity   Severity       `json:"severity"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Category, e.Message)
}

// JSON returns the error as a JSON string
func (e *APIError) JSON() string {
	out, _ := json.Marshal(e)
	return string(out)
}

// Clone returns a copy of the error so shared error values stay immutable.
func (e *APIError) Clone() *APIError {
	cp := *e
	if e.Details != nil {
		cp.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			cp.Details[k] = v
		}
	}
	return &cp
}

// WithDetail adds a detail to a copy of the error
func (e *APIError) WithDetail(key string, value any) *APIError {
	cp := e.Clone()
	if cp.Details == nil {
		cp.Details = make(map[string]any)
	}
	cp.Details[key] = value
	return cp
}

// WithTraceID adds a trace ID to a copy of the error
func (e *APIError) WithTraceID(traceID string) *APIError {
	cp := e.Clone()
	cp.TraceID = traceID
	return cp
}

// Error codes grouped by category. Domain-rule failures around the planning
// lifecycle live in the E11xx / E41xx ranges.
var (
	// Validation Errors (E1000-E1999)
	ErrInvalidInput = &APIError{
		Code:       "E1001",
		Message:    "Invalid input provided",
		Category:   CategoryValidation,
		Severity:   SeverityError,
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingField = &APIError{
		Code:       "E1002",
		Message:    "Required field is missing",
		Category:   CategoryValidation,
		Severity:   SeverityError,
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrPlanNotEditable is raised on any planning mutation while the owning
	// zone's plan is validated. It is a form-level error, not tied to a field.
	ErrPlanNotEditable = &APIError{
		Code:       "E1101",
		Message:    "Cannot modify a plan that has been validated",
		Category:   CategoryValidation,
		Severity:   SeverityError,
		HTTPStatus: http.StatusBadRequest,
	}

	// Authentication Errors (E2000-E2999)
	ErrUnauthorized = &APIError{
		Code:       "E2001",
		Message:    "Authentication required",
		Category:   CategoryAuthentication,
		Severity:   SeverityError,
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &APIError{
		Code:       "E2002",
		Message:    "Invalid credentials provided",
		Category:   CategoryAuthentication,
		Severity:   SeverityError,
		HTTPStatus: http.StatusUnauthorized,
	}

	// Authorization Errors (E3000-E3999)
	ErrPermissionDenied = &APIError{
		Code:       "E3001",
		Message:    "Insufficient permissions to perform this action",
		Category:   CategoryAuthorization,
		Severity:   SeverityError,
		HTTPStatus: http.StatusForbidden,
	}

	// Not Found Errors (E4000-E4089)
	ErrResourceNotFound = &APIError{
		Code:       "E4001",
		Message:    "Requested resource not found",
		Category:   CategoryNotFound,
		Severity:   SeverityError,
		HTTPStatus: http.StatusNotFound,
	}

	// Conflict Errors (E4090-E4199)
	ErrResourceExists = &APIError{
		Code:       "E4091",
		Message:    "Resource already exists",
		Category:   CategoryConflict,
		Severity:   SeverityError,
		HTTPStatus: http.StatusConflict,
	}

	// ErrInvalidTransition is raised when confirm/reopen is requested from the
	// wrong plan state. The zone is left untouched.
	ErrInvalidTransition = &APIError{
		Code:       "E4101",
		Message:    "Action not allowed in the current plan state",
		Category:   CategoryConflict,
		Severity:   SeverityError,
		HTTPStatus: http.StatusConflict,
	}

	// ErrEmployeeProtected is raised when deleting an employee still referenced
	// by patrol logs.
	ErrEmployeeProtected = &APIError{
		Code:       "E4102",
		Message:    "Employee is referenced by patrol logs and cannot be deleted",
		Category:   CategoryConflict,
		Severity:   SeverityError,
		HTTPStatus: http.StatusConflict,
	}

	// Internal Server Errors (E5000-E5999)
	ErrInternalServer = &APIError{
		Code:       "E5001",
		Message:    "Internal server error occurred",
		Category:   CategoryInternal,
		Severity:   SeverityCritical,
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrDatabaseError = &APIError{
		Code:       "E5002",
		Message:    "Database operation failed",
		Category:   CategoryInternal,
		Severity:   SeverityError,
		HTTPStatus: http.StatusInternalServerError,
	}
)
