package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingEvent is the structured record handed to the accounting/GL
// collaborator for each ledger transaction. GL account mapping happens on
// the other side of the port.
type PostingEvent struct {
	AccountID     string          `json:"account_id"`
	TransactionID string          `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	Reversal      bool            `json:"reversal,omitempty"`
}

// PostingEventFrom builds the GL posting event for a transaction.
func PostingEventFrom(acc *Account, tx *Transaction) PostingEvent {
	return PostingEvent{
		AccountID:     acc.ID,
		TransactionID: tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Currency:      acc.Currency,
		Date:          tx.Date,
		Reversal:      tx.IsReversal,
	}
}
