package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrSaleNotFound              = errors.New("sale not found")
	ErrInstallmentNotFound       = errors.New("installment not found")
	ErrInstallmentAlreadyPaid    = errors.New("installment is already paid")
	ErrConcurrentPaymentConflict = errors.New("concurrent payment conflict")
	ErrInvalidPlanInput          = errors.New("invalid plan input")
	ErrPlanValidationFailed      = errors.New("plan validation failed")
	ErrInvalidPaymentAmount      = errors.New("payment amount must cover the installment amount exactly")
	ErrUnknownPaymentMethod      = errors.New("unknown payment method")
	ErrSaleAlreadyVoided         = errors.New("sale is already voided")
)

// Error codes
const (
	ErrCodeSaleNotFound              = "SALE_NOT_FOUND"
	ErrCodeInstallmentNotFound       = "INSTALLMENT_NOT_FOUND"
	ErrCodeInstallmentAlreadyPaid    = "INSTALLMENT_ALREADY_PAID"
	ErrCodeConcurrentPaymentConflict = "CONCURRENT_PAYMENT_CONFLICT"
	ErrCodeInvalidPlanInput          = "INVALID_PLAN_INPUT"
	ErrCodePlanValidationFailed      = "PLAN_VALIDATION_FAILED"
	ErrCodeInvalidPaymentAmount      = "INVALID_PAYMENT_AMOUNT"
	ErrCodeUnknownPaymentMethod      = "UNKNOWN_PAYMENT_METHOD"
	ErrCodeSaleAlreadyVoided         = "SALE_ALREADY_VOIDED"
	ErrCodeDatabaseError             = "DATABASE_ERROR"
	ErrCodeCacheError                = "CACHE_ERROR"
)

// Violation is a single field-tagged validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BusinessError represents a business logic error reportable to the caller.
type BusinessError struct {
	Code       string
	Message    string
	Violations []Violation
	Err        error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap common errors with business context

func WrapSaleNotFound(saleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeSaleNotFound,
		fmt.Sprintf("Sale with ID %s not found", saleID),
		ErrSaleNotFound,
	)
}

func WrapInstallmentNotFound(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment with ID %s not found", installmentID),
		ErrInstallmentNotFound,
	)
}

func WrapInstallmentAlreadyPaid(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentAlreadyPaid,
		fmt.Sprintf("Installment with ID %s is already paid", installmentID),
		ErrInstallmentAlreadyPaid,
	)
}

// WrapConcurrentPaymentConflict marks a lost pending->paid race. Callers
// should present it to users the same way as an already-paid installment.
func WrapConcurrentPaymentConflict(installmentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrentPaymentConflict,
		fmt.Sprintf("Installment with ID %s was paid by a concurrent request", installmentID),
		ErrConcurrentPaymentConflict,
	)
}

func WrapInvalidPlanInput(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidPlanInput, message, ErrInvalidPlanInput)
}

// WrapPlanValidationFailed carries every violation found so the caller can
// render per-field feedback in one pass.
func WrapPlanValidationFailed(violations []Violation) *BusinessError {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	return &BusinessError{
		Code:       ErrCodePlanValidationFailed,
		Message:    fmt.Sprintf("Plan validation failed: %s", strings.Join(fields, ", ")),
		Violations: violations,
		Err:        ErrPlanValidationFailed,
	}
}

func WrapInvalidPaymentAmount(expected, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Payment amount %s does not cover the installment amount %s exactly", actual, expected),
		ErrInvalidPaymentAmount,
	)
}

func WrapUnknownPaymentMethod(method string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnknownPaymentMethod,
		fmt.Sprintf("Payment method %q is not in the catalog", method),
		ErrUnknownPaymentMethod,
	)
}

func WrapSaleAlreadyVoided(saleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeSaleAlreadyVoided,
		fmt.Sprintf("Sale with ID %s is already voided", saleID),
		ErrSaleAlreadyVoided,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
