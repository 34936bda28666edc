package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the single completing payment recorded against an installment.
// Payments are immutable once created.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	InstallmentID uuid.UUID       `json:"installment_id" db:"installment_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        string          `json:"method" db:"method"`
	Comment       string          `json:"comment" db:"comment"`
	PaidAt        time.Time       `json:"paid_at" db:"paid_at"`
}

// PaymentMethod is one entry of the externally owned payment-methods
// catalog (cash, card, transfer, ...).
type PaymentMethod struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Active bool      `json:"active" db:"active"`
}

type ApplyPaymentRequest struct {
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	Method  string          `json:"method" validate:"required"`
	Comment string          `json:"comment"`
}

type ApplyPaymentResponse struct {
	Installment     *Installment    `json:"installment"`
	Payment         *Payment        `json:"payment"`
	OutstandingDebt decimal.Decimal `json:"outstanding_debt"`
}
