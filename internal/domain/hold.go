package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hold earmarks an amount against the available balance without touching the
// running balance. A hold is released at most once; the releasing
// transaction reference is immutable once set.
type Hold struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	TransactionID string          `json:"transaction_id"`
	ReleasedByID  string          `json:"released_by_id,omitempty"`
	ReleasedOn    time.Time       `json:"released_on,omitempty"`
}

// Released reports whether the hold has been released.
func (h *Hold) Released() bool {
	return h.ReleasedByID != ""
}
