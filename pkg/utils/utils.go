package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates (due dates, start dates).
const DateLayout = "2006-01-02"

// Round2 rounds an amount to currency scale (2 decimal places).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SplitEven divides a financed amount into count parts rounded to currency
// scale. The remainder left by rounding is absorbed by the last part so the
// parts always sum exactly to the input.
func SplitEven(amount decimal.Decimal, count int) []decimal.Decimal {
	parts := make([]decimal.Decimal, count)
	base := Round2(amount.Div(decimal.NewFromInt(int64(count))))

	var allocated decimal.Decimal
	for i := 0; i < count-1; i++ {
		parts[i] = base
		allocated = allocated.Add(base)
	}
	parts[count-1] = amount.Sub(allocated)

	return parts
}

// DueDateFor calculates the due date of the n-th installment (1-based).
// The first installment is due one full interval after the start date,
// never on the start date itself.
func DueDateFor(startDate time.Time, n, intervalDays int) time.Time {
	return startDate.AddDate(0, 0, n*intervalDays)
}

// ParseDate parses a calendar date in the wire format at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar date in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WithinTolerance reports whether two amounts differ by at most the given
// currency rounding tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
