package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SaleStatusPending = "pending"
	SaleStatusPaid    = "paid"
	SaleStatusVoided  = "voided"
)

const (
	PaymentModeCash   = "cash"
	PaymentModeCredit = "credit"
)

// Sale represents a recorded sale. For credit sales the down payment plus
// the installment amounts always sum to the total.
type Sale struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Total       decimal.Decimal `json:"total" db:"total"`
	PaymentMode string          `json:"payment_mode" db:"payment_mode"`
	DownPayment decimal.Decimal `json:"down_payment" db:"down_payment"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsCredit reports whether the sale carries an installment schedule.
func (s *Sale) IsCredit() bool {
	return s.PaymentMode == PaymentModeCredit
}

// DTOs for requests and responses

type CreateSaleRequest struct {
	Total            decimal.Decimal `json:"total" validate:"required"`
	PaymentMode      string          `json:"payment_mode" validate:"required,oneof=cash credit"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	InstallmentCount int             `json:"installment_count"`
	StartDate        string          `json:"start_date"`
	IntervalDays     int             `json:"interval_days"`
}

type CreateSaleResponse struct {
	Sale         *Sale          `json:"sale"`
	Installments []*Installment `json:"installments,omitempty"`
}

type GeneratePlanRequest struct {
	Total            decimal.Decimal `json:"total" validate:"required"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	InstallmentCount int             `json:"installment_count" validate:"required,gte=1"`
	StartDate        string          `json:"start_date" validate:"required"`
	IntervalDays     int             `json:"interval_days" validate:"required,oneof=7 15 30"`
}

type SaleDebtResponse struct {
	SaleID          uuid.UUID       `json:"sale_id"`
	OutstandingDebt decimal.Decimal `json:"outstanding_debt"`
	Status          string          `json:"status"`
}
