package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositTermsRequest is the deposit extension of an application.
type DepositTermsRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Period            int             `json:"period"`
	PeriodUnit        PeriodUnit      `json:"period_unit"`
	OnClosure         ClosureType     `json:"on_closure"`
	TransferAccountID string          `json:"transfer_account_id,omitempty"`
	RecurringAmount   decimal.Decimal `json:"recurring_amount,omitempty"`
}

// ApplicationRequest opens a new account application against a product.
// Exactly one of ClientID or GroupID must be set.
type ApplicationRequest struct {
	ClientID    string               `json:"client_id,omitempty"`
	GroupID     string               `json:"group_id,omitempty"`
	ProductID   string               `json:"product_id"`
	SubmittedOn time.Time            `json:"submitted_on"`
	ClientAttrs ClientAttributes     `json:"client_attrs,omitempty"`
	Deposit     *DepositTermsRequest `json:"deposit,omitempty"`
}

// TransactionRequest is a deposit or withdrawal instruction.
type TransactionRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date"`
	Channel *PaymentChannel `json:"channel,omitempty"`
}

// TransferRequest moves funds between two accounts held in the core.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
}

// ClosureRequest closes an account and disposes of the proceeds.
type ClosureRequest struct {
	Date              time.Time   `json:"date"`
	Closure           ClosureType `json:"closure"`
	TransferAccountID string      `json:"transfer_account_id,omitempty"`
}
