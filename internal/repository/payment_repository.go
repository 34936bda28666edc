package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/crediario/credit-ledger/internal/domain"
	customError "github.com/crediario/credit-ledger/pkg/errors"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Apply flips the installment pending->paid and records the payment in one
// transaction. The WHERE status = 'pending' clause is the check-and-set
// that keeps two concurrent payments against the same installment from
// both succeeding: the loser matches zero rows and the whole transaction
// rolls back.
func (r *paymentRepository) Apply(ctx context.Context, payment *domain.Payment) error {
	markPaidQuery := `
		UPDATE installments
		SET status = 'paid'
		WHERE id = $1 AND status = 'pending'
	`

	insertQuery := `
		INSERT INTO payments (id, installment_id, amount, method, comment, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, markPaidQuery, payment.InstallmentID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrConcurrentPaymentConflict
	}

	_, err = tx.ExecContext(ctx, insertQuery,
		payment.ID,
		payment.InstallmentID,
		payment.Amount,
		payment.Method,
		payment.Comment,
		payment.PaidAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *paymentRepository) GetByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, installment_id, amount, method, comment, paid_at
		FROM payments
		WHERE installment_id = $1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, installmentID)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
