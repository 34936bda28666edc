package plan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/crediario/credit-ledger/pkg/errors"
	"github.com/crediario/credit-ledger/pkg/utils"
)

// Tolerance is the currency rounding slack allowed between the sale total
// and the sum of down payment plus installment amounts.
var Tolerance = decimal.NewFromFloat(0.01)

// Field names used for violation tagging. They match the request payload
// so callers can render per-field feedback directly.
const (
	FieldDownPayment      = "down_payment"
	FieldInstallmentCount = "installment_count"
	FieldTotal            = "total"
)

func fieldDueDate(sequence int) string {
	return fmt.Sprintf("installments[%d].due_date", sequence)
}

func fieldAmount(sequence int) string {
	return fmt.Sprintf("installments[%d].amount", sequence)
}

// Validate checks a fully formed candidate plan against the sale total
// using the default Tolerance.
func Validate(total, downPayment decimal.Decimal, startDate time.Time, installments []Draft) error {
	return ValidateWithTolerance(total, downPayment, startDate, installments, Tolerance)
}

// ValidateWithTolerance checks a fully formed candidate plan against the
// sale total. Every check runs regardless of earlier failures so the
// returned error, if any, carries the complete set of field-tagged
// violations. Acceptance is all or nothing: a plan with any violation must
// not be persisted.
func ValidateWithTolerance(total, downPayment decimal.Decimal, startDate time.Time, installments []Draft, tolerance decimal.Decimal) error {
	var violations []customError.Violation

	if downPayment.IsNegative() {
		violations = append(violations, customError.Violation{
			Field:   FieldDownPayment,
			Message: "down payment cannot be negative",
		})
	}
	if downPayment.GreaterThanOrEqual(total) {
		violations = append(violations, customError.Violation{
			Field:   FieldDownPayment,
			Message: "down payment must be less than the sale total",
		})
	}

	if len(installments) < 1 {
		violations = append(violations, customError.Violation{
			Field:   FieldInstallmentCount,
			Message: "a credit sale needs at least one installment",
		})
	}

	prev := startDate
	var sum decimal.Decimal
	for i, inst := range installments {
		if !inst.DueDate.After(prev) {
			violations = append(violations, customError.Violation{
				Field:   fieldDueDate(i + 1),
				Message: "due date must be after the previous one",
			})
		}
		if !inst.Amount.IsPositive() {
			violations = append(violations, customError.Violation{
				Field:   fieldAmount(i + 1),
				Message: "installment amount must be positive",
			})
		}
		prev = inst.DueDate
		sum = sum.Add(inst.Amount)
	}

	if len(installments) > 0 {
		expected := downPayment.Add(sum)
		if !utils.WithinTolerance(total, expected, tolerance) {
			violations = append(violations, customError.Violation{
				Field: FieldTotal,
				Message: fmt.Sprintf("sale total %s does not match down payment plus installments %s",
					total.StringFixed(2), expected.StringFixed(2)),
			})
		}
	}

	if len(violations) > 0 {
		return customError.WrapPlanValidationFailed(violations)
	}
	return nil
}
