package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/crediario/credit-ledger/internal/domain"
	"github.com/crediario/credit-ledger/internal/service"
	customError "github.com/crediario/credit-ledger/pkg/errors"
	"github.com/crediario/credit-ledger/pkg/response"
	"github.com/crediario/credit-ledger/pkg/utils"
)

type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: validator.New(),
	}
}

// GeneratePlan is the dry-run endpoint used by the sales form: it returns
// the computed schedule or the full set of field violations without
// persisting anything.
func (h *LedgerHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var request domain.GeneratePlanRequest
	if !h.decode(w, r, &request) {
		return
	}

	drafts, err := h.service.GenerateAndValidatePlan(&request)
	if err != nil {
		h.renderError(w, err)
		return
	}

	views := make([]*domain.InstallmentView, 0, len(drafts))
	for _, draft := range drafts {
		views = append(views, &domain.InstallmentView{
			Sequence:      draft.Sequence,
			DueDate:       utils.FormatDate(draft.DueDate),
			Amount:        draft.Amount,
			DisplayStatus: domain.InstallmentStatusPending,
		})
	}

	response.Success(w, views)
}

func (h *LedgerHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateSaleRequest
	if !h.decode(w, r, &request) {
		return
	}

	sale, installments, err := h.service.CreateSale(r.Context(), &request)
	if err != nil {
		h.renderError(w, err)
		return
	}

	response.Created(w, domain.CreateSaleResponse{Sale: sale, Installments: installments})
}

func (h *LedgerHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	installmentID, ok := h.pathID(w, r, "installmentId")
	if !ok {
		return
	}

	var request domain.ApplyPaymentRequest
	if !h.decode(w, r, &request) {
		return
	}

	result, err := h.service.ApplyPayment(r.Context(), installmentID, request.Amount, request.Method, request.Comment)
	if err != nil {
		h.renderError(w, err)
		return
	}

	response.Created(w, result)
}

func (h *LedgerHandler) GetInstallments(w http.ResponseWriter, r *http.Request) {
	saleID, ok := h.pathID(w, r, "saleId")
	if !ok {
		return
	}

	schedule, err := h.service.GetInstallments(r.Context(), saleID)
	if err != nil {
		h.renderError(w, err)
		return
	}

	response.Success(w, schedule)
}

func (h *LedgerHandler) GetSaleDebt(w http.ResponseWriter, r *http.Request) {
	saleID, ok := h.pathID(w, r, "saleId")
	if !ok {
		return
	}

	debt, err := h.service.GetSaleDebtAndStatus(r.Context(), saleID)
	if err != nil {
		h.renderError(w, err)
		return
	}

	response.Success(w, debt)
}

func (h *LedgerHandler) VoidSale(w http.ResponseWriter, r *http.Request) {
	saleID, ok := h.pathID(w, r, "saleId")
	if !ok {
		return
	}

	sale, err := h.service.VoidSale(r.Context(), saleID)
	if err != nil {
		h.renderError(w, err)
		return
	}

	response.Success(w, sale)
}

func (h *LedgerHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.service.ListPaymentMethods(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}

	response.Success(w, methods)
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, request interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return false
	}

	if err := h.validator.Struct(request); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			violations := make([]customError.Violation, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				violations = append(violations, customError.Violation{
					Field:   fe.Field(),
					Message: "failed validation on '" + fe.Tag() + "'",
				})
			}
			response.ValidationError(w, violations)
			return false
		}
		response.BadRequest(w, "invalid request", err)
		return false
	}

	return true
}

func (h *LedgerHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *LedgerHandler) renderError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if errors.As(err, &bizErr) {
		response.BusinessError(w, bizErr)
		return
	}
	response.InternalServerError(w, "unexpected error", err)
}
