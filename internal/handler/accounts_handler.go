package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/service"
)

// ============================================================
// Applications & lifecycle
// ============================================================

type depositTermsPayload struct {
	Amount            decimal.Decimal   `json:"amount"`
	Period            int               `json:"period"`
	PeriodUnit        domain.PeriodUnit `json:"periodUnit"`
	OnClosure         domain.ClosureType `json:"onClosure"`
	TransferAccountID string            `json:"transferAccountId,omitempty"`
	RecurringAmount   decimal.Decimal   `json:"recurringAmount,omitempty"`
}

type applicationPayload struct {
	ClientID    string                  `json:"clientId,omitempty"`
	GroupID     string                  `json:"groupId,omitempty"`
	ProductID   string                  `json:"productId"`
	SubmittedOn string                  `json:"submittedOn,omitempty"`
	ClientAttrs domain.ClientAttributes `json:"clientAttrs,omitempty"`
	Deposit     *depositTermsPayload    `json:"deposit,omitempty"`
}

func (p *applicationPayload) toRequest() (*domain.ApplicationRequest, error) {
	submitted, err := parseDate(p.SubmittedOn)
	if err != nil {
		return nil, err
	}
	req := &domain.ApplicationRequest{
		ClientID:    p.ClientID,
		GroupID:     p.GroupID,
		ProductID:   p.ProductID,
		SubmittedOn: submitted,
		ClientAttrs: p.ClientAttrs,
	}
	if p.Deposit != nil {
		req.Deposit = &domain.DepositTermsRequest{
			Amount:            p.Deposit.Amount,
			Period:            p.Deposit.Period,
			PeriodUnit:        p.Deposit.PeriodUnit,
			OnClosure:         p.Deposit.OnClosure,
			TransferAccountID: p.Deposit.TransferAccountID,
			RecurringAmount:   p.Deposit.RecurringAmount,
		}
	}
	return req, nil
}

func submitApplicationHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts")
		defer span.End()

		var payload applicationPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid submittedOn date")
			return
		}
		acc, err := svc.SubmitApplication(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, acc)
	}
}

func modifyApplicationHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /accounts/{accountId}")
		defer span.End()

		var payload applicationPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid submittedOn date")
			return
		}
		acc, err := svc.ModifyApplication(ctx, chi.URLParam(r, "accountId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func getAccountHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /accounts/{accountId}")
		defer span.End()

		acc, err := svc.GetAccount(ctx, chi.URLParam(r, "accountId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func getBalanceHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /accounts/{accountId}/balance")
		defer span.End()

		acc, err := svc.GetAccount(ctx, chi.URLParam(r, "accountId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"account_id":        acc.ID,
			"balance":           acc.Balance,
			"on_hold_funds":     acc.OnHoldFunds(),
			"available_balance": acc.AvailableBalance(),
			"currency":          acc.Currency,
		})
	}
}

type datePayload struct {
	Date string `json:"date,omitempty"`
}

func approveHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/approve")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.Approve(ctx, chi.URLParam(r, "accountId"), on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func undoApprovalHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/undo-approval")
		defer span.End()

		acc, err := svc.UndoApproval(ctx, chi.URLParam(r, "accountId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func rejectHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/reject")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.Reject(ctx, chi.URLParam(r, "accountId"), on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func withdrawApplicationHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/withdraw-application")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.WithdrawApplication(ctx, chi.URLParam(r, "accountId"), on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

type activatePayload struct {
	Date    string                 `json:"date,omitempty"`
	Amount  decimal.Decimal        `json:"amount,omitempty"`
	Channel *domain.PaymentChannel `json:"channel,omitempty"`
}

func activateHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/activate")
		defer span.End()

		var payload activatePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		var initial *domain.TransactionRequest
		if payload.Amount.IsPositive() {
			initial = &domain.TransactionRequest{
				Amount:  payload.Amount,
				Date:    on,
				Channel: payload.Channel,
			}
		}
		acc, err := svc.Activate(ctx, chi.URLParam(r, "accountId"), on, initial)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}
