package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/crediario/credit-ledger/internal/domain"
)

type paymentMethodRepository struct {
	db *sqlx.DB
}

func NewPaymentMethodRepository(db *sqlx.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) ListActive(ctx context.Context) ([]*domain.PaymentMethod, error) {
	query := `
		SELECT id, name, active
		FROM payment_methods
		WHERE active = true
		ORDER BY name
	`

	var methods []*domain.PaymentMethod
	err := r.db.SelectContext(ctx, &methods, query)
	if err != nil {
		return nil, err
	}

	return methods, nil
}
