package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentChannel is the optional payment-channel detail on a transaction
// (teller, card, transfer rail). Carried for audit; the core does not
// interpret it.
type PaymentChannel struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference,omitempty"`
}

// Transaction is one ledger entry. Immutable once posted; flipping Reversed
// from false to true is the only allowed mutation, and the running balances
// of later entries are recomputed by the ledger when that happens.
type Transaction struct {
	ID             string          `json:"id"`
	Type           TransactionType `json:"type"`
	Date           time.Time       `json:"date"`
	Seq            int64           `json:"seq"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	Reversed       bool            `json:"reversed"`
	// IsReversal marks the offsetting entry appended when another
	// transaction is reversed. Reversal entries carry the amount for audit
	// but have no balance effect of their own.
	IsReversal bool `json:"is_reversal,omitempty"`
	// RefID links a reversal to its original, a release to its hold, and
	// the two legs of a transfer to each other.
	RefID     string          `json:"ref_id,omitempty"`
	Channel   *PaymentChannel `json:"channel,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AffectsRunningBalance reports whether this entry moves the running
// balance: reversed entries, reversal markers, transfer markers and
// hold/release entries do not.
func (t *Transaction) AffectsRunningBalance() bool {
	if t.Reversed || t.IsReversal {
		return false
	}
	return t.Type.IsCredit() || t.Type.IsDebit()
}

// SignedAmount returns the running-balance delta: positive for credits,
// negative for debits, zero otherwise.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if !t.AffectsRunningBalance() {
		return decimal.Zero
	}
	if t.Type.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Before orders transactions by (date, seq); seq breaks same-date ties
// deterministically.
func (t *Transaction) Before(other *Transaction) bool {
	if !SameDay(t.Date, other.Date) {
		return t.Date.Before(other.Date)
	}
	return t.Seq < other.Seq
}
