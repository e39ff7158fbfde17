package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string                   `json:"error"`
	Errors []domain.ValidationError `json:"errors"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeBody parses the JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseDate parses a day-granular YYYY-MM-DD value, defaulting to today
// when absent.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return domain.Day(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return domain.Day(t), nil
}

// handleServiceError maps domain errors to HTTP responses. Validation
// batches come back 400 with the per-parameter list; state conflicts are
// 409; financial-integrity rejections are 422.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validation domain.ValidationErrors
	var notFound *domain.ErrNotFound
	var invalidState *domain.ErrInvalidState
	var insufficientFunds *domain.ErrInsufficientFunds
	var alreadyReversed *domain.ErrAlreadyReversed
	var notOnHold *domain.ErrNotOnHold
	var overpayment *domain.ErrOverpayment
	var noChart *domain.ErrNoApplicableChart
	var noSlab *domain.ErrNoMatchingSlab
	var ambiguousSlab *domain.ErrAmbiguousSlab
	var chargeCombination *domain.ErrInvalidChargeCombination
	var reinvest *domain.ErrReinvestNotAllowed
	var missingTarget *domain.ErrMissingTargetAccount
	var locked *domain.ErrAccountLocked
	var duplicate *domain.ErrDuplicate
	var unauthorized *domain.ErrUnauthorized

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation failed", zap.Int("violations", len(validation)))
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Error:  "validation failed",
			Errors: validation,
		})
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalidState):
		logger.Debug("invalid state", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &alreadyReversed), errors.As(err, &notOnHold), errors.As(err, &duplicate):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &insufficientFunds):
		logger.Warn("insufficient funds",
			zap.String("available", insufficientFunds.Available.String()),
			zap.String("required", insufficientFunds.Required.String()),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &overpayment),
		errors.As(err, &chargeCombination),
		errors.As(err, &reinvest),
		errors.As(err, &missingTarget),
		errors.As(err, &locked):
		logger.Warn("operation rejected", zap.String("error", err.Error()))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &noChart), errors.As(err, &noSlab), errors.As(err, &ambiguousSlab):
		logger.Error("rate resolution failed", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
