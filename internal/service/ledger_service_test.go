package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crediario/credit-ledger/internal/domain"
	"github.com/crediario/credit-ledger/internal/service"
	customError "github.com/crediario/credit-ledger/pkg/errors"
	"github.com/crediario/credit-ledger/tests/mocks"
)

var testNow = time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	saleRepo        *mocks.MockSaleRepository
	installmentRepo *mocks.MockInstallmentRepository
	paymentRepo     *mocks.MockPaymentRepository
	methodRepo      *mocks.MockPaymentMethodRepository
	svc             *service.LedgerService
}

func newFixture() *fixture {
	f := &fixture{
		saleRepo:        &mocks.MockSaleRepository{},
		installmentRepo: &mocks.MockInstallmentRepository{},
		paymentRepo:     &mocks.MockPaymentRepository{},
		methodRepo:      &mocks.MockPaymentMethodRepository{},
	}
	f.svc = service.NewLedgerService(
		f.saleRepo, f.installmentRepo, f.paymentRepo, f.methodRepo,
		nil, nil, nil, service.FixedClock{Time: testNow},
	)
	return f
}

func (f *fixture) expectCatalog(names ...string) {
	methods := make([]*domain.PaymentMethod, 0, len(names))
	for _, name := range names {
		methods = append(methods, &domain.PaymentMethod{ID: uuid.New(), Name: name, Active: true})
	}
	f.methodRepo.On("ListActive", mock.Anything).Return(methods, nil)
}

func creditSale(total, downPayment string) *domain.Sale {
	return &domain.Sale{
		ID:          uuid.New(),
		Total:       decimal.RequireFromString(total),
		PaymentMode: domain.PaymentModeCredit,
		DownPayment: decimal.RequireFromString(downPayment),
		Status:      domain.SaleStatusPending,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}

func installmentsFor(saleID uuid.UUID, amounts []string, statuses []string) []*domain.Installment {
	installments := make([]*domain.Installment, len(amounts))
	for i := range amounts {
		installments[i] = &domain.Installment{
			ID:       uuid.New(),
			SaleID:   saleID,
			Sequence: i + 1,
			DueDate:  testNow.AddDate(0, 0, (i+1)*30),
			Amount:   decimal.RequireFromString(amounts[i]),
			Status:   statuses[i],
		}
	}
	return installments
}

func TestGenerateAndValidatePlan(t *testing.T) {
	f := newFixture()

	drafts, err := f.svc.GenerateAndValidatePlan(&domain.GeneratePlanRequest{
		Total:            decimal.RequireFromString("100.00"),
		DownPayment:      decimal.Zero,
		InstallmentCount: 3,
		StartDate:        "2025-07-10",
		IntervalDays:     30,
	})

	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.True(t, drafts[0].Amount.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, drafts[1].Amount.Equal(decimal.RequireFromString("33.33")))
	assert.True(t, drafts[2].Amount.Equal(decimal.RequireFromString("33.34")))
	assert.Equal(t, "2025-08-09", drafts[0].DueDate.Format("2006-01-02"))
}

func TestGenerateAndValidatePlan_CollectsViolations(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GenerateAndValidatePlan(&domain.GeneratePlanRequest{
		Total:            decimal.RequireFromString("500.00"),
		DownPayment:      decimal.RequireFromString("500.00"),
		InstallmentCount: 0,
		StartDate:        "not-a-date",
		IntervalDays:     13,
	})

	require.Error(t, err)
	var bizErr *customError.BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, customError.ErrCodePlanValidationFailed, bizErr.Code)

	fields := make(map[string]bool)
	for _, v := range bizErr.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["start_date"])
	assert.True(t, fields["installment_count"])
	assert.True(t, fields["interval_days"])
	assert.True(t, fields["down_payment"])
}

func TestCreateSale_Credit(t *testing.T) {
	f := newFixture()

	f.saleRepo.On("Create", mock.Anything,
		mock.MatchedBy(func(sale *domain.Sale) bool {
			return sale.PaymentMode == domain.PaymentModeCredit &&
				sale.Status == domain.SaleStatusPending &&
				sale.DownPayment.Equal(decimal.RequireFromString("100.00"))
		}),
		mock.MatchedBy(func(installments []*domain.Installment) bool {
			return len(installments) == 4
		}),
	).Return(nil)

	sale, installments, err := f.svc.CreateSale(context.Background(), &domain.CreateSaleRequest{
		Total:            decimal.RequireFromString("500.00"),
		PaymentMode:      domain.PaymentModeCredit,
		DownPayment:      decimal.RequireFromString("100.00"),
		InstallmentCount: 4,
		StartDate:        "2025-07-10",
		IntervalDays:     15,
	})

	require.NoError(t, err)
	require.Len(t, installments, 4)

	sum := sale.DownPayment
	for i, installment := range installments {
		assert.Equal(t, sale.ID, installment.SaleID)
		assert.Equal(t, i+1, installment.Sequence)
		assert.Equal(t, domain.InstallmentStatusPending, installment.Status)
		sum = sum.Add(installment.Amount)
	}
	assert.True(t, sum.Equal(sale.Total), "down payment plus installments must equal the total")

	f.saleRepo.AssertExpectations(t)
}

func TestCreateSale_Cash(t *testing.T) {
	f := newFixture()

	f.saleRepo.On("Create", mock.Anything,
		mock.MatchedBy(func(sale *domain.Sale) bool {
			return sale.Status == domain.SaleStatusPaid && sale.DownPayment.IsZero()
		}),
		mock.MatchedBy(func(installments []*domain.Installment) bool {
			return len(installments) == 0
		}),
	).Return(nil)

	sale, installments, err := f.svc.CreateSale(context.Background(), &domain.CreateSaleRequest{
		Total:       decimal.RequireFromString("80.00"),
		PaymentMode: domain.PaymentModeCash,
	})

	require.NoError(t, err)
	assert.Empty(t, installments)
	assert.Equal(t, domain.SaleStatusPaid, sale.Status)
}

func TestCreateSale_InvalidPlanIsNotPersisted(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.CreateSale(context.Background(), &domain.CreateSaleRequest{
		Total:            decimal.RequireFromString("500.00"),
		PaymentMode:      domain.PaymentModeCredit,
		DownPayment:      decimal.RequireFromString("500.00"),
		InstallmentCount: 3,
		StartDate:        "2025-07-10",
		IntervalDays:     30,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrPlanValidationFailed))
	f.saleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSale_CountTooLargeForFinancedAmountIsRejected(t *testing.T) {
	f := newFixture()

	// Splitting 0.02 across three installments would leave the last one
	// owing nothing; the plan is rejected before anything is persisted.
	_, _, err := f.svc.CreateSale(context.Background(), &domain.CreateSaleRequest{
		Total:            decimal.RequireFromString("0.02"),
		PaymentMode:      domain.PaymentModeCredit,
		DownPayment:      decimal.Zero,
		InstallmentCount: 3,
		StartDate:        "2025-07-10",
		IntervalDays:     30,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrInvalidPlanInput))
	f.saleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPayment_Success(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")
	installments := installmentsFor(sale.ID,
		[]string{"100.00", "100.00", "100.00"},
		[]string{domain.InstallmentStatusPending, domain.InstallmentStatusPending, domain.InstallmentStatusPending},
	)
	target := installments[0]

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.expectCatalog("Efectivo", "Tarjeta")
	f.paymentRepo.On("Apply", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.InstallmentID == target.ID &&
			p.Amount.Equal(decimal.RequireFromString("100.00")) &&
			p.Method == "Efectivo"
	})).Return(nil)
	f.installmentRepo.On("GetBySaleID", mock.Anything, sale.ID).Return(installments, nil)

	result, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString("100.00"), "Efectivo", "first installment")

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentStatusPaid, result.Installment.Status)
	assert.True(t, result.OutstandingDebt.Equal(decimal.RequireFromString("200.00")))
	assert.Equal(t, "first installment", result.Payment.Comment)
	assert.Equal(t, testNow, result.Payment.PaidAt)

	f.paymentRepo.AssertExpectations(t)
	// Two installments still owe money, so the sale stays pending.
	f.saleRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPayment_LastInstallmentClosesSale(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")
	installments := installmentsFor(sale.ID,
		[]string{"100.00", "100.00", "100.00"},
		[]string{domain.InstallmentStatusPaid, domain.InstallmentStatusPaid, domain.InstallmentStatusPending},
	)
	target := installments[2]

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.expectCatalog("Efectivo")
	f.paymentRepo.On("Apply", mock.Anything, mock.Anything).Return(nil)
	f.installmentRepo.On("GetBySaleID", mock.Anything, sale.ID).Return(installments, nil)
	f.saleRepo.On("UpdateStatus", mock.Anything, sale.ID, domain.SaleStatusPaid).Return(nil)

	result, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString("100.00"), "Efectivo", "")

	require.NoError(t, err)
	assert.True(t, result.OutstandingDebt.IsZero())
	f.saleRepo.AssertExpectations(t)
}

func TestApplyPayment_InstallmentNotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()

	f.installmentRepo.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := f.svc.ApplyPayment(context.Background(), id, decimal.NewFromInt(100), "Efectivo", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrInstallmentNotFound))
}

func TestApplyPayment_AlreadyPaidIsIdempotentByRejection(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")
	installments := installmentsFor(sale.ID,
		[]string{"100.00"},
		[]string{domain.InstallmentStatusPaid},
	)
	target := installments[0]
	amountBefore := target.Amount

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)

	_, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString("100.00"), "Efectivo", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrInstallmentAlreadyPaid))

	// Nothing about the installment changed and nothing was recorded.
	assert.True(t, target.Amount.Equal(amountBefore))
	assert.Equal(t, domain.InstallmentStatusPaid, target.Status)
	f.paymentRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestApplyPayment_ConcurrentConflict(t *testing.T) {
	f := newFixture()
	sale := creditSale("100.00", "0")
	installments := installmentsFor(sale.ID,
		[]string{"100.00"},
		[]string{domain.InstallmentStatusPending},
	)
	target := installments[0]

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.expectCatalog("Efectivo")
	f.paymentRepo.On("Apply", mock.Anything, mock.Anything).Return(customError.ErrConcurrentPaymentConflict)

	_, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString("100.00"), "Efectivo", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrConcurrentPaymentConflict))
}

func TestApplyPayment_AmountMustCoverInstallmentExactly(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")
	installments := installmentsFor(sale.ID,
		[]string{"100.00"},
		[]string{domain.InstallmentStatusPending},
	)
	target := installments[0]

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)

	for _, amount := range []string{"50.00", "150.00"} {
		_, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString(amount), "Efectivo", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, customError.ErrInvalidPaymentAmount), "amount %s", amount)
	}

	f.paymentRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestApplyPayment_UnknownMethod(t *testing.T) {
	f := newFixture()
	sale := creditSale("100.00", "0")
	installments := installmentsFor(sale.ID,
		[]string{"100.00"},
		[]string{domain.InstallmentStatusPending},
	)
	target := installments[0]

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.expectCatalog("Efectivo", "Tarjeta")

	_, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString("100.00"), "Cheque", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrUnknownPaymentMethod))
}

func TestApplyPayment_VoidedSaleRejected(t *testing.T) {
	f := newFixture()
	sale := creditSale("100.00", "0")
	sale.Status = domain.SaleStatusVoided
	installments := installmentsFor(sale.ID,
		[]string{"100.00"},
		[]string{domain.InstallmentStatusPending},
	)
	target := installments[0]

	f.installmentRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)

	_, err := f.svc.ApplyPayment(context.Background(), target.ID, decimal.RequireFromString("100.00"), "Efectivo", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrSaleAlreadyVoided))
}

func TestGetSaleDebtAndStatus_Recomputation(t *testing.T) {
	sale := creditSale("300.00", "0")

	statuses := [][]string{
		{domain.InstallmentStatusPaid, domain.InstallmentStatusPending, domain.InstallmentStatusPending},
		{domain.InstallmentStatusPaid, domain.InstallmentStatusPaid, domain.InstallmentStatusPaid},
	}
	expectedDebt := []string{"200.00", "0"}
	expectedStatus := []string{domain.SaleStatusPending, domain.SaleStatusPaid}

	for i := range statuses {
		f := newFixture()
		f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
		f.installmentRepo.On("GetBySaleID", mock.Anything, sale.ID).Return(
			installmentsFor(sale.ID, []string{"100.00", "100.00", "100.00"}, statuses[i]), nil)

		result, err := f.svc.GetSaleDebtAndStatus(context.Background(), sale.ID)
		require.NoError(t, err)
		assert.True(t, result.OutstandingDebt.Equal(decimal.RequireFromString(expectedDebt[i])))
		assert.Equal(t, expectedStatus[i], result.Status)
	}
}

func TestGetSaleDebtAndStatus_CashSaleHasNoDebt(t *testing.T) {
	f := newFixture()
	sale := &domain.Sale{
		ID:          uuid.New(),
		Total:       decimal.RequireFromString("80.00"),
		PaymentMode: domain.PaymentModeCash,
		DownPayment: decimal.Zero,
		Status:      domain.SaleStatusPaid,
	}

	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)

	result, err := f.svc.GetSaleDebtAndStatus(context.Background(), sale.ID)

	require.NoError(t, err)
	assert.True(t, result.OutstandingDebt.IsZero())
	assert.Equal(t, domain.SaleStatusPaid, result.Status)
	f.installmentRepo.AssertNotCalled(t, "GetBySaleID", mock.Anything, mock.Anything)
}

func TestGetSaleDebtAndStatus_VoidedSaleOwesNothing(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")
	sale.Status = domain.SaleStatusVoided

	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)

	result, err := f.svc.GetSaleDebtAndStatus(context.Background(), sale.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusVoided, result.Status)
	assert.True(t, result.OutstandingDebt.IsZero())
	// Nobody may pay a voided sale, so the schedule is not even consulted.
	f.installmentRepo.AssertNotCalled(t, "GetBySaleID", mock.Anything, mock.Anything)
}

func TestGetInstallments_DerivesDisplayStatusFresh(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")

	installments := []*domain.Installment{
		{ID: uuid.New(), SaleID: sale.ID, Sequence: 1, DueDate: testNow.AddDate(0, 0, -1),
			Amount: decimal.RequireFromString("100.00"), Status: domain.InstallmentStatusPending},
		{ID: uuid.New(), SaleID: sale.ID, Sequence: 2, DueDate: testNow.AddDate(0, 0, -1),
			Amount: decimal.RequireFromString("100.00"), Status: domain.InstallmentStatusPaid},
		{ID: uuid.New(), SaleID: sale.ID, Sequence: 3, DueDate: testNow.AddDate(0, 0, 29),
			Amount: decimal.RequireFromString("100.00"), Status: domain.InstallmentStatusPending},
	}

	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.installmentRepo.On("GetBySaleID", mock.Anything, sale.ID).Return(installments, nil)

	schedule, err := f.svc.GetInstallments(context.Background(), sale.ID)

	require.NoError(t, err)
	require.Len(t, schedule.Installments, 3)
	assert.Equal(t, domain.InstallmentStatusOverdue, schedule.Installments[0].DisplayStatus)
	assert.Equal(t, domain.InstallmentStatusPaid, schedule.Installments[1].DisplayStatus)
	assert.Equal(t, domain.InstallmentStatusPending, schedule.Installments[2].DisplayStatus)
}

func TestRoundTrip_GeneratedPlanSurvivesPersistence(t *testing.T) {
	f := newFixture()

	drafts, err := f.svc.GenerateAndValidatePlan(&domain.GeneratePlanRequest{
		Total:            decimal.RequireFromString("100.00"),
		DownPayment:      decimal.Zero,
		InstallmentCount: 3,
		StartDate:        "2025-07-10",
		IntervalDays:     30,
	})
	require.NoError(t, err)

	var persisted []*domain.Installment
	f.saleRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(2).([]*domain.Installment)
		}).Return(nil)

	sale, _, err := f.svc.CreateSale(context.Background(), &domain.CreateSaleRequest{
		Total:            decimal.RequireFromString("100.00"),
		PaymentMode:      domain.PaymentModeCredit,
		DownPayment:      decimal.Zero,
		InstallmentCount: 3,
		StartDate:        "2025-07-10",
		IntervalDays:     30,
	})
	require.NoError(t, err)

	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.installmentRepo.On("GetBySaleID", mock.Anything, sale.ID).Return(persisted, nil)

	schedule, err := f.svc.GetInstallments(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, schedule.Installments, len(drafts))

	for i, view := range schedule.Installments {
		assert.Equal(t, drafts[i].Sequence, view.Sequence)
		assert.Equal(t, drafts[i].DueDate.Format("2006-01-02"), view.DueDate)
		assert.True(t, view.Amount.Equal(drafts[i].Amount))
	}
}

func TestVoidSale(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")

	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.saleRepo.On("Void", mock.Anything, sale.ID).Return(nil)

	voided, err := f.svc.VoidSale(context.Background(), sale.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.SaleStatusVoided, voided.Status)
	f.saleRepo.AssertExpectations(t)

	// Voiding twice is rejected.
	_, err = f.svc.VoidSale(context.Background(), sale.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrSaleAlreadyVoided))
}

func TestGetInstallments_VoidedSaleShowsVoidedSchedule(t *testing.T) {
	f := newFixture()
	sale := creditSale("300.00", "0")
	sale.Status = domain.SaleStatusVoided

	// An installment paid before the void keeps its status; the open ones
	// were voided alongside the sale, even when past due.
	installments := []*domain.Installment{
		{ID: uuid.New(), SaleID: sale.ID, Sequence: 1, DueDate: testNow.AddDate(0, 0, -30),
			Amount: decimal.RequireFromString("100.00"), Status: domain.InstallmentStatusPaid},
		{ID: uuid.New(), SaleID: sale.ID, Sequence: 2, DueDate: testNow.AddDate(0, 0, -1),
			Amount: decimal.RequireFromString("100.00"), Status: domain.InstallmentStatusVoided},
		{ID: uuid.New(), SaleID: sale.ID, Sequence: 3, DueDate: testNow.AddDate(0, 0, 29),
			Amount: decimal.RequireFromString("100.00"), Status: domain.InstallmentStatusVoided},
	}

	f.saleRepo.On("GetByID", mock.Anything, sale.ID).Return(sale, nil)
	f.installmentRepo.On("GetBySaleID", mock.Anything, sale.ID).Return(installments, nil)

	schedule, err := f.svc.GetInstallments(context.Background(), sale.ID)

	require.NoError(t, err)
	require.Len(t, schedule.Installments, 3)
	assert.Equal(t, domain.InstallmentStatusPaid, schedule.Installments[0].DisplayStatus)
	assert.Equal(t, domain.InstallmentStatusVoided, schedule.Installments[1].DisplayStatus)
	assert.Equal(t, domain.InstallmentStatusVoided, schedule.Installments[2].DisplayStatus)
}

func TestListPaymentMethods_FallsBackToRepositoryWithoutCache(t *testing.T) {
	f := newFixture()
	f.expectCatalog("Efectivo", "Tarjeta", "Yape")

	methods, err := f.svc.ListPaymentMethods(context.Background())

	require.NoError(t, err)
	require.Len(t, methods, 3)
	assert.Equal(t, "Efectivo", methods[0].Name)
}

func TestOverdueInstallments(t *testing.T) {
	f := newFixture()
	saleID := uuid.New()
	overdue := installmentsFor(saleID, []string{"50.00"}, []string{domain.InstallmentStatusPending})

	f.installmentRepo.On("GetOverdue", mock.Anything, testNow).Return(overdue, nil)

	result, err := f.svc.OverdueInstallments(context.Background())

	require.NoError(t, err)
	assert.Len(t, result, 1)
	f.installmentRepo.AssertExpectations(t)
}
