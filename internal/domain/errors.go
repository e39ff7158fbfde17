package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Error taxonomy: validation errors are accumulated into ValidationErrors and
// reported as a batch; state and financial-integrity errors are single typed
// errors that abort the unit of work immediately.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidState indicates an operation is illegal in the account's
// current lifecycle state.
type ErrInvalidState struct {
	Op     string
	Status AccountStatus
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("illegal state transition: cannot %s while %s", e.Op, e.Status)
}

// ErrInsufficientFunds indicates not enough available balance for the
// operation. Never coerced: a withdrawal is rejected, not clamped.
type ErrInsufficientFunds struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: available=%s required=%s", e.Available, e.Required)
}

// ErrAlreadyReversed indicates a reversal was attempted twice.
type ErrAlreadyReversed struct {
	TransactionID string
}

func (e *ErrAlreadyReversed) Error() string {
	return fmt.Sprintf("transaction already reversed: %s", e.TransactionID)
}

// ErrNotOnHold indicates a release was attempted on an already-released hold.
type ErrNotOnHold struct {
	HoldID string
}

func (e *ErrNotOnHold) Error() string {
	return fmt.Sprintf("hold already released: %s", e.HoldID)
}

// ErrOverpayment indicates a charge payment exceeding the amount outstanding.
type ErrOverpayment struct {
	Outstanding decimal.Decimal
	Paid        decimal.Decimal
}

func (e *ErrOverpayment) Error() string {
	return fmt.Sprintf("charge overpayment: outstanding=%s paid=%s", e.Outstanding, e.Paid)
}

// ErrNoApplicableChart indicates no rate chart covers the reference date.
type ErrNoApplicableChart struct {
	AsOf time.Time
}

func (e *ErrNoApplicableChart) Error() string {
	return fmt.Sprintf("no applicable interest rate chart as of %s", e.AsOf.Format("2006-01-02"))
}

// ErrNoMatchingSlab indicates no slab covers the period/amount pair.
type ErrNoMatchingSlab struct {
	Period  int
	Balance decimal.Decimal
}

func (e *ErrNoMatchingSlab) Error() string {
	return fmt.Sprintf("no interest rate slab matches period=%d balance=%s", e.Period, e.Balance)
}

// ErrAmbiguousSlab indicates more than one slab matched; the chart data
// violates the non-overlap invariant.
type ErrAmbiguousSlab struct {
	ChartID string
	Period  int
	Balance decimal.Decimal
}

func (e *ErrAmbiguousSlab) Error() string {
	return fmt.Sprintf("ambiguous interest rate slab in chart %s for period=%d balance=%s", e.ChartID, e.Period, e.Balance)
}

// ErrInvalidChargeCombination indicates a second active charge of an
// exclusive category (annual fee, withdrawal fee).
type ErrInvalidChargeCombination struct {
	Category ChargeTime
}

func (e *ErrInvalidChargeCombination) Error() string {
	return fmt.Sprintf("an active %s charge already exists on the account", e.Category)
}

// ErrReinvestNotAllowed indicates a reinvest disposal on a premature closure.
type ErrReinvestNotAllowed struct{}

func (e *ErrReinvestNotAllowed) Error() string {
	return "reinvestment is only allowed at natural maturity"
}

// ErrMissingTargetAccount indicates a transfer-to-savings closure with no
// target account.
type ErrMissingTargetAccount struct{}

func (e *ErrMissingTargetAccount) Error() string {
	return "transfer-to-savings closure requires a target savings account"
}

// ErrAccountLocked indicates a withdrawal during the lock-in period.
type ErrAccountLocked struct {
	Until time.Time
}

func (e *ErrAccountLocked) Error() string {
	return fmt.Sprintf("account is locked in until %s", e.Until.Format("2006-01-02"))
}

// ErrDuplicate indicates a duplicate operation (idempotency check).
type ErrDuplicate struct {
	Key string
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate operation: %s", e.Key)
}

// ErrUnauthorized indicates invalid credentials or token on the ops surface.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ============================================================
// Validation errors (accumulated, never fail-fast)
// ============================================================

// ValidationError is a single parameter-level violation.
type ValidationError struct {
	Param   string `json:"parameter"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Param, e.Message, e.Code)
}

// ValidationErrors accumulates violations so the caller sees every problem
// in one response.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a violation.
func (e *ValidationErrors) Add(param, code, message string) {
	*e = append(*e, ValidationError{Param: param, Code: code, Message: message})
}

// AsError returns the batch as an error, or nil when empty.
func (e ValidationErrors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
