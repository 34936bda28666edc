package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/crediario/credit-ledger/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := `
		SELECT id, sale_id, sequence, due_date, amount, status, created_at
		FROM installments
		WHERE id = $1
	`

	var installment domain.Installment
	err := r.db.GetContext(ctx, &installment, query, id)
	if err != nil {
		return nil, err
	}

	return &installment, nil
}

func (r *installmentRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, sale_id, sequence, due_date, amount, status, created_at
		FROM installments
		WHERE sale_id = $1
		ORDER BY sequence
	`

	var installments []*domain.Installment
	err := r.db.SelectContext(ctx, &installments, query, saleID)
	if err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) GetOverdue(ctx context.Context, asOf time.Time) ([]*domain.Installment, error) {
	query := `
		SELECT i.id, i.sale_id, i.sequence, i.due_date, i.amount, i.status, i.created_at
		FROM installments i
		JOIN sales s ON s.id = i.sale_id
		WHERE i.status = 'pending' AND i.due_date < $1 AND s.status != 'voided'
		ORDER BY i.due_date
	`

	var installments []*domain.Installment
	err := r.db.SelectContext(ctx, &installments, query, asOf)
	if err != nil {
		return nil, err
	}

	return installments, nil
}
