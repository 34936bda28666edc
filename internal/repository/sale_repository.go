package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/crediario/credit-ledger/internal/domain"
)

type saleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale, installments []*domain.Installment) error {
	saleQuery := `
		INSERT INTO sales (id, total, payment_mode, down_payment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	installmentQuery := `
		INSERT INTO installments (id, sale_id, sequence, due_date, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, saleQuery,
		sale.ID,
		sale.Total,
		sale.PaymentMode,
		sale.DownPayment,
		sale.Status,
		sale.CreatedAt,
		sale.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, installment := range installments {
		_, err = tx.ExecContext(ctx, installmentQuery,
			installment.ID,
			installment.SaleID,
			installment.Sequence,
			installment.DueDate,
			installment.Amount,
			installment.Status,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `
		SELECT id, total, payment_mode, down_payment, status, created_at, updated_at
		FROM sales
		WHERE id = $1
	`

	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, query, id)
	if err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE sales
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *saleRepository) Void(ctx context.Context, id uuid.UUID) error {
	saleQuery := `
		UPDATE sales
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	installmentQuery := `
		UPDATE installments
		SET status = $2
		WHERE sale_id = $1 AND status = $3
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, saleQuery, id, domain.SaleStatusVoided, time.Now()); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, installmentQuery, id, domain.InstallmentStatusVoided, domain.InstallmentStatusPending); err != nil {
		return err
	}

	return tx.Commit()
}
