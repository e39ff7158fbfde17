// Package domain defines the core entities of the savings and time-deposit
// engine: accounts, transactions, holds, charges and interest rate charts.
// These models are independent of transport and persistence; each enumerated
// concept carries its own behaviour predicates instead of external
// integer-code comparisons.
package domain

import "time"

// ============================================================
// Account kind / status / sub-status
// ============================================================

// AccountKind distinguishes the savings variant from time deposits.
type AccountKind int

const (
	KindSavings AccountKind = iota
	KindFixedDeposit
	KindRecurringDeposit
)

func (k AccountKind) String() string {
	switch k {
	case KindSavings:
		return "savings"
	case KindFixedDeposit:
		return "fixed_deposit"
	case KindRecurringDeposit:
		return "recurring_deposit"
	}
	return "unknown"
}

// IsDeposit reports whether the kind is a time deposit (fixed or recurring).
func (k AccountKind) IsDeposit() bool {
	return k == KindFixedDeposit || k == KindRecurringDeposit
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus int

const (
	StatusSubmitted AccountStatus = iota
	StatusApproved
	StatusActive
	StatusClosed
	StatusRejected
	StatusWithdrawn
	StatusPrematurelyClosed
	StatusMatured
)

func (s AccountStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted_and_pending_approval"
	case StatusApproved:
		return "approved"
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	case StatusRejected:
		return "rejected"
	case StatusWithdrawn:
		return "withdrawn_by_applicant"
	case StatusPrematurelyClosed:
		return "premature_closed"
	case StatusMatured:
		return "matured"
	}
	return "unknown"
}

func (s AccountStatus) IsSubmitted() bool { return s == StatusSubmitted }
func (s AccountStatus) IsApproved() bool  { return s == StatusApproved }
func (s AccountStatus) IsActive() bool    { return s == StatusActive }
func (s AccountStatus) IsMatured() bool   { return s == StatusMatured }
func (s AccountStatus) IsClosed() bool {
	return s == StatusClosed || s == StatusPrematurelyClosed
}

// IsTerminal reports whether no further transitions are legal.
func (s AccountStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusRejected || s == StatusWithdrawn || s == StatusPrematurelyClosed
}

// AccountSubStatus refines an active account with inactivity states.
type AccountSubStatus int

const (
	SubStatusNone AccountSubStatus = iota
	SubStatusInactive
	SubStatusDormant
	SubStatusEscheat
)

func (s AccountSubStatus) String() string {
	switch s {
	case SubStatusNone:
		return "none"
	case SubStatusInactive:
		return "inactive"
	case SubStatusDormant:
		return "dormant"
	case SubStatusEscheat:
		return "escheat"
	}
	return "unknown"
}

func (s AccountSubStatus) IsDormant() bool { return s == SubStatusDormant }
func (s AccountSubStatus) IsEscheat() bool { return s == SubStatusEscheat }

// ============================================================
// Transaction type
// ============================================================

// TransactionType classifies ledger entries. Credit and debit types move the
// running balance; hold/release move only the available balance; transfer
// markers move neither.
type TransactionType int

const (
	TxDeposit TransactionType = iota
	TxWithdrawal
	TxInterestPosting
	TxFee
	TxPenalty
	TxTransferInitiate
	TxTransferApprove
	TxTransferReject
	TxTransferWithdraw
	TxAmountHold
	TxAmountRelease
	TxWriteOff
	TxEscheat
)

func (t TransactionType) String() string {
	switch t {
	case TxDeposit:
		return "deposit"
	case TxWithdrawal:
		return "withdrawal"
	case TxInterestPosting:
		return "interest_posting"
	case TxFee:
		return "fee"
	case TxPenalty:
		return "penalty"
	case TxTransferInitiate:
		return "transfer_initiate"
	case TxTransferApprove:
		return "transfer_approve"
	case TxTransferReject:
		return "transfer_reject"
	case TxTransferWithdraw:
		return "transfer_withdraw"
	case TxAmountHold:
		return "amount_hold"
	case TxAmountRelease:
		return "amount_release"
	case TxWriteOff:
		return "write_off"
	case TxEscheat:
		return "escheat"
	}
	return "unknown"
}

// IsCredit reports whether the type increases the running balance.
func (t TransactionType) IsCredit() bool {
	return t == TxDeposit || t == TxInterestPosting
}

// IsDebit reports whether the type decreases the running balance.
func (t TransactionType) IsDebit() bool {
	switch t {
	case TxWithdrawal, TxFee, TxPenalty, TxWriteOff, TxEscheat:
		return true
	}
	return false
}

func (t TransactionType) IsHold() bool    { return t == TxAmountHold }
func (t TransactionType) IsRelease() bool { return t == TxAmountRelease }

// IsTransferMarker reports whether the type records a transfer lifecycle
// event without a balance effect of its own.
func (t TransactionType) IsTransferMarker() bool {
	switch t {
	case TxTransferInitiate, TxTransferApprove, TxTransferReject, TxTransferWithdraw:
		return true
	}
	return false
}

// ============================================================
// Period unit
// ============================================================

// PeriodUnit is the calendar unit for terms and lock-in periods.
type PeriodUnit int

const (
	UnitDays PeriodUnit = iota
	UnitWeeks
	UnitMonths
	UnitYears
)

func (u PeriodUnit) String() string {
	switch u {
	case UnitDays:
		return "days"
	case UnitWeeks:
		return "weeks"
	case UnitMonths:
		return "months"
	case UnitYears:
		return "years"
	}
	return "unknown"
}

// AddTo advances date by n units.
func (u PeriodUnit) AddTo(date time.Time, n int) time.Time {
	switch u {
	case UnitDays:
		return date.AddDate(0, 0, n)
	case UnitWeeks:
		return date.AddDate(0, 0, 7*n)
	case UnitMonths:
		return date.AddDate(0, n, 0)
	case UnitYears:
		return date.AddDate(n, 0, 0)
	}
	return date
}

// ============================================================
// Charges
// ============================================================

// ChargeTime is the trigger that makes a charge due.
type ChargeTime int

const (
	ChargeOneTime ChargeTime = iota
	ChargeOnActivation
	ChargeOnWithdrawal
	ChargeAnnual
	ChargePeriodic
)

func (c ChargeTime) String() string {
	switch c {
	case ChargeOneTime:
		return "one_time"
	case ChargeOnActivation:
		return "on_activation"
	case ChargeOnWithdrawal:
		return "on_withdrawal"
	case ChargeAnnual:
		return "annual"
	case ChargePeriodic:
		return "periodic"
	}
	return "unknown"
}

// IsWithdrawalFee reports whether the charge is triggered by withdrawals.
func (c ChargeTime) IsWithdrawalFee() bool { return c == ChargeOnWithdrawal }

// IsAnnualFee reports whether the charge recurs yearly on a month-day.
func (c ChargeTime) IsAnnualFee() bool { return c == ChargeAnnual }

// ChargeCalculation determines how a charge amount is derived.
type ChargeCalculation int

const (
	CalcFlat ChargeCalculation = iota
	CalcPercentOfAmount
)

func (c ChargeCalculation) String() string {
	if c == CalcPercentOfAmount {
		return "percent_of_amount"
	}
	return "flat"
}

func (c ChargeCalculation) IsPercentage() bool { return c == CalcPercentOfAmount }

// ============================================================
// Closure
// ============================================================

// ClosureType is how deposit proceeds are dispatched at closure.
type ClosureType int

const (
	ClosureWithdraw ClosureType = iota
	ClosureTransferToSavings
	ClosureReinvest
)

func (c ClosureType) String() string {
	switch c {
	case ClosureWithdraw:
		return "withdraw"
	case ClosureTransferToSavings:
		return "transfer_to_savings"
	case ClosureReinvest:
		return "reinvest"
	}
	return "unknown"
}

func (c ClosureType) IsReinvest() bool          { return c == ClosureReinvest }
func (c ClosureType) IsTransferToSavings() bool { return c == ClosureTransferToSavings }

// PenalInterestOn selects the chart-lookup period basis for the premature
// closure penalty.
type PenalInterestOn int

const (
	PenalWholeTerm PenalInterestOn = iota
	PenalTillPrematureWithdrawal
)

func (p PenalInterestOn) String() string {
	if p == PenalTillPrematureWithdrawal {
		return "till_premature_withdrawal"
	}
	return "whole_term"
}

func (p PenalInterestOn) IsWholeTerm() bool { return p == PenalWholeTerm }

// ============================================================
// Interest compounding
// ============================================================

// CompoundingPeriod is the interest compounding frequency for deposits.
type CompoundingPeriod int

const (
	CompoundNone CompoundingPeriod = iota // simple interest
	CompoundMonthly
	CompoundQuarterly
	CompoundSemiAnnual
	CompoundAnnual
)

func (c CompoundingPeriod) String() string {
	switch c {
	case CompoundNone:
		return "simple"
	case CompoundMonthly:
		return "monthly"
	case CompoundQuarterly:
		return "quarterly"
	case CompoundSemiAnnual:
		return "semi_annual"
	case CompoundAnnual:
		return "annual"
	}
	return "unknown"
}

// PeriodsPerYear returns the number of compounding periods in a year,
// or 0 for simple interest.
func (c CompoundingPeriod) PeriodsPerYear() int {
	switch c {
	case CompoundMonthly:
		return 12
	case CompoundQuarterly:
		return 4
	case CompoundSemiAnnual:
		return 2
	case CompoundAnnual:
		return 1
	}
	return 0
}
