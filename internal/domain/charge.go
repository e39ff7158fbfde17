package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeDefinition is the product-level template a charge instance is
// created from. Read-only configuration.
type ChargeDefinition struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Time        ChargeTime        `json:"time"`
	Calculation ChargeCalculation `json:"calculation"`
	Amount      decimal.Decimal   `json:"amount"`
	Percentage  decimal.Decimal   `json:"percentage"`
	// Annual fee month-day.
	FeeOnMonth time.Month `json:"fee_on_month,omitempty"`
	FeeOnDay   int        `json:"fee_on_day,omitempty"`
	// Periodic interval in months.
	IntervalMonths int  `json:"interval_months,omitempty"`
	Penalty        bool `json:"penalty,omitempty"`
}

// ChargeInstance is a charge attached to one account. Amount is the
// per-occurrence configuration; AmountAccrued is the lifetime total the
// assessment engine has made due, so recurring fees keep a positive
// outstanding across collection cycles.
// Invariant: Outstanding() is never negative.
type ChargeInstance struct {
	ID               string            `json:"id"`
	DefinitionID     string            `json:"definition_id"`
	Name             string            `json:"name"`
	Time             ChargeTime        `json:"time"`
	Calculation      ChargeCalculation `json:"calculation"`
	Amount           decimal.Decimal   `json:"amount"`
	Percentage       decimal.Decimal   `json:"percentage"`
	AmountAccrued    decimal.Decimal   `json:"amount_accrued"`
	AmountPaid       decimal.Decimal   `json:"amount_paid"`
	AmountWaived     decimal.Decimal   `json:"amount_waived"`
	AmountWrittenOff decimal.Decimal   `json:"amount_written_off"`
	DueDate          time.Time         `json:"due_date,omitempty"`
	FeeOnMonth       time.Month        `json:"fee_on_month,omitempty"`
	FeeOnDay         int               `json:"fee_on_day,omitempty"`
	IntervalMonths   int               `json:"interval_months,omitempty"`
	Penalty          bool              `json:"penalty,omitempty"`
	Active           bool              `json:"active"`
	LastAssessedOn   time.Time         `json:"last_assessed_on,omitempty"`
}

// Outstanding returns accrued - paid - waived - written off.
func (c *ChargeInstance) Outstanding() decimal.Decimal {
	return c.AmountAccrued.Sub(c.AmountPaid).Sub(c.AmountWaived).Sub(c.AmountWrittenOff)
}

// IsFullyPaid reports whether nothing remains outstanding.
func (c *ChargeInstance) IsFullyPaid() bool {
	return !c.Outstanding().IsPositive()
}

// TransactionType returns the ledger entry type used when this charge is
// collected.
func (c *ChargeInstance) TransactionType() TransactionType {
	if c.Penalty {
		return TxPenalty
	}
	return TxFee
}

func (c *ChargeInstance) Copy() *ChargeInstance {
	cp := *c
	return &cp
}
