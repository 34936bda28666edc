package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/crediario/credit-ledger/internal/config"
	"github.com/crediario/credit-ledger/internal/domain"
	"github.com/crediario/credit-ledger/internal/plan"
	"github.com/crediario/credit-ledger/internal/repository"
	customError "github.com/crediario/credit-ledger/pkg/errors"
	"github.com/crediario/credit-ledger/pkg/utils"
)

const methodsCacheKey = "payment_methods:active"

// LedgerService owns the installment-credit workflow: plan generation and
// validation, credit sale persistence, payment application and the derived
// debt/status views.
type LedgerService struct {
	SaleRepo        repository.SaleRepository
	InstallmentRepo repository.InstallmentRepository
	PaymentRepo     repository.PaymentRepository
	MethodRepo      repository.PaymentMethodRepository

	redis  *redis.Client
	config *config.Config
	logger *zap.Logger
	clock  Clock
}

func NewLedgerService(
	saleRepo repository.SaleRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	methodRepo repository.PaymentMethodRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
	clock Clock,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = NewRealClock()
	}
	return &LedgerService{
		SaleRepo:        saleRepo,
		InstallmentRepo: installmentRepo,
		PaymentRepo:     paymentRepo,
		MethodRepo:      methodRepo,
		redis:           redisClient,
		config:          cfg,
		logger:          logger,
		clock:           clock,
	}
}

// GenerateAndValidatePlan computes an installment plan and checks it against
// the consistency rules. All input problems are reported together as
// field-tagged violations so the caller can render per-field feedback in a
// single round trip. Pure computation, nothing is persisted.
func (s *LedgerService) GenerateAndValidatePlan(request *domain.GeneratePlanRequest) ([]plan.Draft, error) {
	var violations []customError.Violation

	startDate, err := utils.ParseDate(request.StartDate)
	if err != nil {
		violations = append(violations, customError.Violation{
			Field:   "start_date",
			Message: fmt.Sprintf("start date must be in %s format", utils.DateLayout),
		})
	}
	if request.InstallmentCount < 1 {
		violations = append(violations, customError.Violation{
			Field:   plan.FieldInstallmentCount,
			Message: "installment count must be at least 1",
		})
	}
	if request.IntervalDays != 7 && request.IntervalDays != 15 && request.IntervalDays != 30 {
		violations = append(violations, customError.Violation{
			Field:   "interval_days",
			Message: "interval must be 7, 15 or 30 days",
		})
	}
	if request.DownPayment.IsNegative() {
		violations = append(violations, customError.Violation{
			Field:   plan.FieldDownPayment,
			Message: "down payment cannot be negative",
		})
	}
	if request.DownPayment.GreaterThanOrEqual(request.Total) {
		violations = append(violations, customError.Violation{
			Field:   plan.FieldDownPayment,
			Message: "down payment must be less than the sale total",
		})
	}

	if len(violations) > 0 {
		return nil, customError.WrapPlanValidationFailed(violations)
	}

	p, err := plan.Generate(request.Total, request.DownPayment, request.InstallmentCount, startDate, request.IntervalDays)
	if err != nil {
		return nil, err
	}

	drafts := p.Installments()
	if err := plan.ValidateWithTolerance(request.Total, request.DownPayment, startDate, drafts, s.sumTolerance()); err != nil {
		return nil, err
	}

	return drafts, nil
}

// CreateSale records a sale. Credit sales get their installment schedule
// generated and validated first; sale and schedule are persisted in one
// transaction, all or nothing. Cash sales carry no schedule and are paid
// at creation.
func (s *LedgerService) CreateSale(ctx context.Context, request *domain.CreateSaleRequest) (*domain.Sale, []*domain.Installment, error) {
	now := s.clock.Now()

	sale := &domain.Sale{
		ID:          uuid.New(),
		Total:       request.Total,
		PaymentMode: request.PaymentMode,
		DownPayment: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var installments []*domain.Installment

	switch request.PaymentMode {
	case domain.PaymentModeCash:
		sale.Status = domain.SaleStatusPaid

	case domain.PaymentModeCredit:
		drafts, err := s.GenerateAndValidatePlan(&domain.GeneratePlanRequest{
			Total:            request.Total,
			DownPayment:      request.DownPayment,
			InstallmentCount: request.InstallmentCount,
			StartDate:        request.StartDate,
			IntervalDays:     request.IntervalDays,
		})
		if err != nil {
			return nil, nil, err
		}

		sale.DownPayment = request.DownPayment
		sale.Status = domain.SaleStatusPending

		installments = make([]*domain.Installment, 0, len(drafts))
		for _, draft := range drafts {
			installments = append(installments, &domain.Installment{
				ID:        uuid.New(),
				SaleID:    sale.ID,
				Sequence:  draft.Sequence,
				DueDate:   draft.DueDate,
				Amount:    draft.Amount,
				Status:    domain.InstallmentStatusPending,
				CreatedAt: now,
			})
		}

	default:
		return nil, nil, customError.WrapInvalidPlanInput(fmt.Sprintf("unknown payment mode %q", request.PaymentMode))
	}

	if err := s.SaleRepo.Create(ctx, sale, installments); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("payment_mode", sale.PaymentMode),
		zap.Int("installments", len(installments)),
	)

	return sale, installments, nil
}

// ApplyPayment records the completing payment for an installment and flips
// it to paid. The pending->paid transition is guarded by a conditional
// update in the repository, so a concurrent duplicate observes a conflict
// instead of double-crediting. Never retried internally.
func (s *LedgerService) ApplyPayment(ctx context.Context, installmentID uuid.UUID, amount decimal.Decimal, method, comment string) (*domain.ApplyPaymentResponse, error) {
	installment, err := s.InstallmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInstallmentNotFound(installmentID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if installment.Status == domain.InstallmentStatusPaid {
		return nil, customError.WrapInstallmentAlreadyPaid(installmentID.String())
	}

	sale, err := s.SaleRepo.GetByID(ctx, installment.SaleID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if sale.Status == domain.SaleStatusVoided {
		return nil, customError.WrapSaleAlreadyVoided(sale.ID.String())
	}

	// One completing payment per installment: the amount must cover the
	// installment exactly.
	if !amount.Equal(installment.Amount) {
		return nil, customError.WrapInvalidPaymentAmount(installment.Amount.StringFixed(2), amount.StringFixed(2))
	}

	if err := s.validateMethod(ctx, method); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            uuid.New(),
		InstallmentID: installmentID,
		Amount:        amount,
		Method:        method,
		Comment:       comment,
		PaidAt:        s.clock.Now(),
	}

	if err := s.PaymentRepo.Apply(ctx, payment); err != nil {
		if errors.Is(err, customError.ErrConcurrentPaymentConflict) {
			// We saw the installment pending above, so another request
			// won the race in between.
			return nil, customError.WrapConcurrentPaymentConflict(installmentID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	installment.Status = domain.InstallmentStatusPaid

	debt, err := s.recomputeSaleStatus(ctx, sale)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment applied",
		zap.String("installment_id", installmentID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("method", method),
		zap.String("outstanding_debt", debt.StringFixed(2)),
	)

	return &domain.ApplyPaymentResponse{
		Installment:     installment,
		Payment:         payment,
		OutstandingDebt: debt,
	}, nil
}

// GetInstallments returns a sale's schedule with the display status derived
// fresh against today's date.
func (s *LedgerService) GetInstallments(ctx context.Context, saleID uuid.UUID) (*domain.ScheduleResponse, error) {
	if _, err := s.getSale(ctx, saleID); err != nil {
		return nil, err
	}

	installments, err := s.InstallmentRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	today := s.clock.Now()
	views := make([]*domain.InstallmentView, 0, len(installments))
	for _, installment := range installments {
		views = append(views, &domain.InstallmentView{
			ID:            installment.ID,
			Sequence:      installment.Sequence,
			DueDate:       utils.FormatDate(installment.DueDate),
			Amount:        installment.Amount,
			DisplayStatus: installment.DisplayStatus(today),
		})
	}

	return &domain.ScheduleResponse{SaleID: saleID, Installments: views}, nil
}

// GetSaleDebtAndStatus derives the outstanding debt and overall status of a
// sale from its installments. Always recomputed, never read from a cache:
// payments arrive asynchronously from different actors and a stored status
// would drift.
func (s *LedgerService) GetSaleDebtAndStatus(ctx context.Context, saleID uuid.UUID) (*domain.SaleDebtResponse, error) {
	sale, err := s.getSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	// A voided sale cannot be paid, so it owes nothing; cash sales never
	// carry a schedule.
	debt := decimal.Zero
	if sale.IsCredit() && sale.Status != domain.SaleStatusVoided {
		installments, err := s.InstallmentRepo.GetBySaleID(ctx, saleID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		debt = OutstandingDebt(installments)
	}

	return &domain.SaleDebtResponse{
		SaleID:          saleID,
		OutstandingDebt: debt,
		Status:          SaleStatus(sale, debt),
	}, nil
}

// VoidSale marks a sale and its still-open installments as voided, in one
// transaction. After voiding, nothing on the sale can be paid and it owes
// nothing. Stock reversal and other side effects stay with the sales
// system.
func (s *LedgerService) VoidSale(ctx context.Context, saleID uuid.UUID) (*domain.Sale, error) {
	sale, err := s.getSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if sale.Status == domain.SaleStatusVoided {
		return nil, customError.WrapSaleAlreadyVoided(saleID.String())
	}

	if err := s.SaleRepo.Void(ctx, saleID); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	sale.Status = domain.SaleStatusVoided
	s.logger.Info("sale voided", zap.String("sale_id", saleID.String()))

	return sale, nil
}

// ListPaymentMethods returns the active payment-methods catalog, served
// from redis when possible.
func (s *LedgerService) ListPaymentMethods(ctx context.Context) ([]*domain.PaymentMethod, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, methodsCacheKey).Result()
		if err == nil {
			var methods []*domain.PaymentMethod
			if err := json.Unmarshal([]byte(cached), &methods); err == nil {
				return methods, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("payment methods cache read failed", zap.Error(err))
		}
	}

	methods, err := s.MethodRepo.ListActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheMethods(ctx, methods)

	return methods, nil
}

// WarmMethodCache refreshes the payment-methods cache from the database.
// Used by the scheduler.
func (s *LedgerService) WarmMethodCache(ctx context.Context) error {
	methods, err := s.MethodRepo.ListActive(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.cacheMethods(ctx, methods)
	return nil
}

// OverdueInstallments lists every pending installment past due as of today.
func (s *LedgerService) OverdueInstallments(ctx context.Context) ([]*domain.Installment, error) {
	installments, err := s.InstallmentRepo.GetOverdue(ctx, s.clock.Now())
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return installments, nil
}

func (s *LedgerService) cacheMethods(ctx context.Context, methods []*domain.PaymentMethod) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(methods)
	if err != nil {
		return
	}

	ttl := time.Hour
	if s.config != nil {
		ttl = s.config.GetMethodsCacheTTL()
	}

	if err := s.redis.Set(ctx, methodsCacheKey, payload, ttl).Err(); err != nil {
		s.logger.Warn("payment methods cache write failed", zap.Error(err))
	}
}

func (s *LedgerService) validateMethod(ctx context.Context, method string) error {
	methods, err := s.ListPaymentMethods(ctx)
	if err != nil {
		return err
	}

	for _, m := range methods {
		if m.Name == method {
			return nil
		}
	}

	return customError.WrapUnknownPaymentMethod(method)
}

func (s *LedgerService) sumTolerance() decimal.Decimal {
	if s.config != nil {
		return s.config.GetSumTolerance()
	}
	return plan.Tolerance
}

func (s *LedgerService) getSale(ctx context.Context, saleID uuid.UUID) (*domain.Sale, error) {
	sale, err := s.SaleRepo.GetByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapSaleNotFound(saleID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return sale, nil
}

// recomputeSaleStatus marks the sale paid once its last open installment is
// settled and returns the remaining debt.
func (s *LedgerService) recomputeSaleStatus(ctx context.Context, sale *domain.Sale) (decimal.Decimal, error) {
	installments, err := s.InstallmentRepo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	debt := OutstandingDebt(installments)
	if debt.IsZero() && sale.Status == domain.SaleStatusPending {
		if err := s.SaleRepo.UpdateStatus(ctx, sale.ID, domain.SaleStatusPaid); err != nil {
			return decimal.Zero, customError.WrapDatabaseError(err)
		}
		sale.Status = domain.SaleStatusPaid
	}

	return debt, nil
}

// OutstandingDebt sums the amounts of every still-pending installment.
// Paid installments are settled and voided ones are no longer owed.
func OutstandingDebt(installments []*domain.Installment) decimal.Decimal {
	debt := decimal.Zero
	for _, installment := range installments {
		if installment.Status == domain.InstallmentStatusPending {
			debt = debt.Add(installment.Amount)
		}
	}
	return debt
}

// SaleStatus derives the overall status of a sale: voided wins, then paid
// when no debt remains, otherwise pending.
func SaleStatus(sale *domain.Sale, outstandingDebt decimal.Decimal) string {
	if sale.Status == domain.SaleStatusVoided {
		return domain.SaleStatusVoided
	}
	if outstandingDebt.IsZero() {
		return domain.SaleStatusPaid
	}
	return domain.SaleStatusPending
}
