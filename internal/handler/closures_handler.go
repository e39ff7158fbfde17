package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/service"
)

// ============================================================
// Closure, maturity, and housekeeping sweeps
// ============================================================

type closurePayload struct {
	Date              string             `json:"date,omitempty"`
	Closure           domain.ClosureType `json:"closure,omitempty"`
	TransferAccountID string             `json:"transferAccountId,omitempty"`
}

func (p *closurePayload) toRequest() (*domain.ClosureRequest, error) {
	on, err := parseDate(p.Date)
	if err != nil {
		return nil, err
	}
	return &domain.ClosureRequest{
		Date:              on,
		Closure:           p.Closure,
		TransferAccountID: p.TransferAccountID,
	}, nil
}

type closeAccountPayload struct {
	Date            string `json:"date,omitempty"`
	WithdrawBalance bool   `json:"withdrawBalance,omitempty"`
}

func closeAccountHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/close")
		defer span.End()

		var payload closeAccountPayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.Close(ctx, chi.URLParam(r, "accountId"), on, payload.WithdrawBalance)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func matureHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/mature")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.Mature(ctx, chi.URLParam(r, "accountId"), on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func prematureCloseHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/premature-close")
		defer span.End()

		var payload closurePayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.PrematureClose(ctx, chi.URLParam(r, "accountId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func closeMaturedHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/close-matured")
		defer span.End()

		var payload closurePayload
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		req, err := payload.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		acc, err := svc.CloseMatured(ctx, chi.URLParam(r, "accountId"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	}
}

func escheatHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/escheat")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		on, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		tx, err := svc.Escheat(ctx, chi.URLParam(r, "accountId"), on)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func sweepInactivityHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /sweeps/inactivity")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		asOf, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		changed, err := svc.SweepInactivity(ctx, asOf)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"changed": changed})
	}
}

func sweepFeesHandler(svc *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /sweeps/fees")
		defer span.End()

		var payload datePayload
		_ = decodeBody(r, &payload)
		asOf, err := parseDate(payload.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		collected, err := svc.AssessFees(ctx, asOf)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"collected": collected})
	}
}
