package plan

import (
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/crediario/credit-ledger/pkg/errors"
	"github.com/crediario/credit-ledger/pkg/utils"
)

// Allowed payment cadences in days.
var allowedIntervals = map[int]bool{7: true, 15: true, 30: true}

// Draft is one generated installment before it is persisted. Sequence is
// 1-based.
type Draft struct {
	Sequence int
	DueDate  time.Time
	Amount   decimal.Decimal
}

// Plan is a generated installment plan. It is a pure value: generating a
// plan has no side effects and persistence is the caller's responsibility.
type Plan struct {
	Total          decimal.Decimal
	DownPayment    decimal.Decimal
	FinancedAmount decimal.Decimal
	StartDate      time.Time
	IntervalDays   int
	count          int
	amounts        []decimal.Decimal
}

// Generate computes an installment plan for a credit sale.
//
// The financed amount (total minus down payment) is split evenly across the
// installments at currency scale; the last installment absorbs the rounding
// remainder so the plan sums exactly to the financed amount. Due dates fall
// one interval apart starting one interval after startDate.
func Generate(total, downPayment decimal.Decimal, count int, startDate time.Time, intervalDays int) (*Plan, error) {
	if count < 1 {
		return nil, customError.WrapInvalidPlanInput(fmt.Sprintf("installment count must be at least 1, got %d", count))
	}
	if !allowedIntervals[intervalDays] {
		return nil, customError.WrapInvalidPlanInput(fmt.Sprintf("interval must be 7, 15 or 30 days, got %d", intervalDays))
	}

	financed := total.Sub(downPayment)
	if financed.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidPlanInput(fmt.Sprintf("financed amount must be positive, got %s", financed))
	}

	// Every installment must owe a positive amount. A count too large for
	// the financed amount rounds the even share down to zero, or pushes the
	// remainder-absorbing last installment to zero or below.
	amounts := utils.SplitEven(financed, count)
	for _, amount := range amounts {
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, customError.WrapInvalidPlanInput(fmt.Sprintf("installment count %d is too large for financed amount %s", count, financed))
		}
	}

	return &Plan{
		Total:          total,
		DownPayment:    downPayment,
		FinancedAmount: financed,
		StartDate:      startDate,
		IntervalDays:   intervalDays,
		count:          count,
		amounts:        amounts,
	}, nil
}

// Count returns the number of installments in the plan.
func (p *Plan) Count() int {
	return p.count
}

// Drafts yields the installments of the plan in sequence order. The
// sequence is finite and restartable: ranging over it again replays the
// same drafts.
func (p *Plan) Drafts() iter.Seq[Draft] {
	return func(yield func(Draft) bool) {
		for i := 1; i <= p.count; i++ {
			d := Draft{
				Sequence: i,
				DueDate:  utils.DueDateFor(p.StartDate, i, p.IntervalDays),
				Amount:   p.amounts[i-1],
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Installments materializes the full draft list.
func (p *Plan) Installments() []Draft {
	drafts := make([]Draft, 0, p.count)
	for d := range p.Drafts() {
		drafts = append(drafts, d)
	}
	return drafts
}
