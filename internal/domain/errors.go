package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeSearchFailed     = "SEARCH_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrInvalidGemType      = NewDomainError(ErrCodeValidation, "invalid gem type")
	ErrInvalidGemCut       = NewDomainError(ErrCodeValidation, "invalid gem cut")
	ErrInvalidClarityGrade = NewDomainError(ErrCodeValidation, "invalid clarity grade")
	ErrInvalidPage         = NewDomainError(ErrCodeValidation, "page must be 1 or greater")
	ErrInvalidPageSize     = NewDomainError(ErrCodeValidation, "unsupported page size")
	ErrInvalidPriceRange   = NewDomainError(ErrCodeValidation, "price range minimum exceeds maximum")
	ErrInvalidWeightRange  = NewDomainError(ErrCodeValidation, "weight range minimum exceeds maximum")
	ErrInvalidCurrency     = NewDomainError(ErrCodeValidation, "unsupported currency code")
	ErrMissingRequired     = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrGemstoneNotFound     = NewDomainError(ErrCodeNotFound, "gemstone not found")
	ErrMediaAssetNotFound   = NewDomainError(ErrCodeNotFound, "media asset not found")
	ErrExchangeRateNotFound = NewDomainError(ErrCodeNotFound, "exchange rate not found")
	ErrAnalysisJobNotFound  = NewDomainError(ErrCodeNotFound, "analysis job not found")
)

// Already exists errors
var (
	ErrGemstoneAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "gemstone with this serial number already exists")
)

// Authorization errors
var (
	ErrAdminTokenInvalid = NewDomainError(ErrCodeUnauthorized, "invalid admin token")
)

// Search errors; only the exact stage's failure is ever surfaced to callers.
var (
	ErrSearchFailed = NewDomainError(ErrCodeSearchFailed, "search could not be executed")
)

// Operation errors
var (
	ErrRateLimited          = NewDomainError(ErrCodeRateLimited, "too many requests")
	ErrStorageOperationFail = NewDomainError(ErrCodeInternalError, "storage operation failed")
	ErrUploadNotPending     = NewDomainError(ErrCodeInvalidOperation, "upload is not pending completion")
)
