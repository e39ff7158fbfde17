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
// Money movement
// ============================================================

type transactionPayload struct {
	Amount  decimal.Decimal        `json:"amount"`
	Date    string                 `json:"date,omitempty"`
	Channel *domain.PaymentChannel `json:"channel,omitempty"`
}

func (p *transactionPayload) toRequest() (*domain.TransactionRequest, error) {
	on, err := parseDate(p.Date)
	if err != nil {
		return nil, err
	}
	return &domain.TransactionRequest{
		Amount:  p.Amount,
		Date:    on,
		Channel: p.Channel,
	}, nil
}

func depositHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/deposits")
		defer span.End()

		var payload transactionPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		tx, err := svc.Deposit(ctx, chi.URLParam(r, "accountId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func withdrawHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/withdrawals")
		defer span.End()

		var payload transactionPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		tx, err := svc.Withdraw(ctx, chi.URLParam(r, "accountId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func reverseTransactionHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/transactions/{transactionId}/reverse")
		defer span.End()

		rev, err := svc.Reverse(ctx,
			chi.URLParam(r, "accountId"),
			chi.URLParam(r, "transactionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, rev)
	}
}

func holdAmountHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/holds")
		defer span.End()

		var payload transactionPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		hold, err := svc.HoldAmount(ctx, chi.URLParam(r, "accountId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, hold)
	}
}

func releaseHoldHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/holds/{holdId}/release")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		tx, err := svc.ReleaseHold(ctx,
			chi.URLParam(r, "accountId"),
			chi.URLParam(r, "holdId"), on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

type transferPayload struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date,omitempty"`
}

func transferHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /transfers")
		defer span.End()

		var payload transferPayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		err = svc.Transfer(ctx, &domain.TransferRequest{
			FromAccountID: payload.FromAccountID,
			ToAccountID:   payload.ToAccountID,
			Amount:        payload.Amount,
			Date:          on,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
	}
}

// ============================================================
// Charges
// ============================================================

type attachChargePayload struct {
	DefinitionID string `json:"definitionId"`
	DueDate      string `json:"dueDate,omitempty"`
}

func attachChargeHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/charges")
		defer span.End()

		var payload attachChargePayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		due, err := parseDate(payload.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dueDate")
			return
		}
		inst, err := svc.AttachCharge(ctx, chi.URLParam(r, "accountId"), payload.DefinitionID, due)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, inst)
	}
}

type payChargePayload struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date,omitempty"`
}

func payChargeHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/charges/{chargeId}/pay")
		defer span.End()

		var payload payChargePayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		tx, err := svc.PayCharge(ctx,
			chi.URLParam(r, "accountId"),
			chi.URLParam(r, "chargeId"), payload.Amount, on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func waiveChargeHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/charges/{chargeId}/waive")
		defer span.End()

		waived, err := svc.WaiveCharge(ctx,
			chi.URLParam(r, "accountId"),
			chi.URLParam(r, "chargeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"waived": waived})
	}
}

// ============================================================
// Interest
// ============================================================

func postInterestHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/interest")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		asOf, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		tx, err := svc.PostInterest(ctx, chi.URLParam(r, "accountId"), asOf)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if tx == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "no interest due"})
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}
