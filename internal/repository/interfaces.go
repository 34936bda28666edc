package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crediario/credit-ledger/internal/domain"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	// Create persists a sale together with its installment set in one
	// transaction. A cash sale carries no installments.
	Create(ctx context.Context, sale *domain.Sale, installments []*domain.Installment) error

	// GetByID retrieves a sale by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)

	// UpdateStatus updates the status of a sale
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Void marks a sale voided and voids its still-pending installments in
	// one transaction. Paid installments keep their status.
	Void(ctx context.Context, id uuid.UUID) error
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// GetByID retrieves an installment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// GetBySaleID retrieves a sale's installments ordered by sequence
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]*domain.Installment, error)

	// GetOverdue retrieves all pending installments due before the given date
	GetOverdue(ctx context.Context, asOf time.Time) ([]*domain.Installment, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Apply records a payment and flips its installment from pending to
	// paid in one transaction. The flip is a conditional update; when the
	// installment is no longer pending, Apply returns
	// errors.ErrConcurrentPaymentConflict and nothing is committed.
	Apply(ctx context.Context, payment *domain.Payment) error

	// GetByInstallmentID retrieves the payment recorded for an installment
	GetByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*domain.Payment, error)
}

// PaymentMethodRepository defines the interface for the payment-methods catalog
type PaymentMethodRepository interface {
	// ListActive retrieves the active payment methods ordered by name
	ListActive(ctx context.Context) ([]*domain.PaymentMethod, error)
}
