package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
	InstallmentStatusVoided  = "voided"

	// Display-only status, never persisted. Overdue is a function of the
	// wall clock and is recomputed on every read.
	InstallmentStatusOverdue = "overdue"
)

// Installment is one scheduled partial payment obligation of a credit sale.
// Sequence numbers are 1-based and strictly increasing per sale, as are due
// dates.
type Installment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	SaleID    uuid.UUID       `json:"sale_id" db:"sale_id"`
	Sequence  int             `json:"sequence" db:"sequence"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DisplayStatus derives the user-facing status from the persisted status
// and the current date. Paid and voided are terminal and win over overdue
// regardless of the date.
func (i *Installment) DisplayStatus(today time.Time) string {
	switch i.Status {
	case InstallmentStatusPaid:
		return InstallmentStatusPaid
	case InstallmentStatusVoided:
		return InstallmentStatusVoided
	}
	if i.DueDate.Before(truncateToDay(today)) {
		return InstallmentStatusOverdue
	}
	return InstallmentStatusPending
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type InstallmentView struct {
	ID            uuid.UUID       `json:"id"`
	Sequence      int             `json:"sequence"`
	DueDate       string          `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	DisplayStatus string          `json:"display_status"`
}

type ScheduleResponse struct {
	SaleID       uuid.UUID          `json:"sale_id"`
	Installments []*InstallmentView `json:"installments"`
}
