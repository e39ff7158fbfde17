package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositTerms is the deposit-specific extension of an account, present only
// for fixed and recurring deposit accounts. MaturityDate stays zero until
// the term parameters are fully resolved.
type DepositTerms struct {
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Period        int             `json:"period"`
	PeriodUnit    PeriodUnit      `json:"period_unit"`

	MaturityDate   time.Time       `json:"maturity_date,omitempty"`
	MaturityAmount decimal.Decimal `json:"maturity_amount,omitempty"`

	PenalApplicable bool            `json:"penal_applicable,omitempty"`
	PenalRate       decimal.Decimal `json:"penal_rate,omitempty"`
	PenalOn         PenalInterestOn `json:"penal_on,omitempty"`

	OnClosure         ClosureType `json:"on_closure"`
	TransferAccountID string      `json:"transfer_account_id,omitempty"`

	// Recurring deposits: expected instalment per period.
	RecurringAmount decimal.Decimal `json:"recurring_amount,omitempty"`
}

// ResolveMaturityDate computes and stores the maturity date from the term
// and the given start date.
func (d *DepositTerms) ResolveMaturityDate(start time.Time) time.Time {
	d.MaturityDate = d.PeriodUnit.AddTo(Day(start), d.Period)
	return d.MaturityDate
}

// Summary carries derived per-account totals, updated by the ledger.
type Summary struct {
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals    decimal.Decimal `json:"total_withdrawals"`
	TotalInterestPosted decimal.Decimal `json:"total_interest_posted"`
	TotalFeesCharged    decimal.Decimal `json:"total_fees_charged"`
}

// Account is a savings or time-deposit account. The deposit variant is the
// base record plus the DepositTerms extension selected by Kind.
// Owner is exactly one of ClientID or GroupID.
type Account struct {
	ID        string `json:"id"`
	AccountNo string `json:"account_no"`

	ClientID string `json:"client_id,omitempty"`
	GroupID  string `json:"group_id,omitempty"`

	ProductID string      `json:"product_id"`
	Currency  string      `json:"currency"`
	Kind      AccountKind `json:"kind"`

	Status    AccountStatus    `json:"status"`
	SubStatus AccountSubStatus `json:"sub_status"`

	SubmittedOn time.Time `json:"submitted_on"`
	ApprovedOn  time.Time `json:"approved_on,omitempty"`
	ActivatedOn time.Time `json:"activated_on,omitempty"`
	ClosedOn    time.Time `json:"closed_on,omitempty"`

	OpeningBalance decimal.Decimal `json:"opening_balance"`

	LockinPeriod int        `json:"lockin_period,omitempty"`
	LockinUnit   PeriodUnit `json:"lockin_unit,omitempty"`

	// Overdraft configuration, savings only.
	AllowOverdraft bool            `json:"allow_overdraft,omitempty"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit,omitempty"`

	// Fallback rate when the product has no applicable chart.
	NominalAnnualRate decimal.Decimal `json:"nominal_annual_rate,omitempty"`

	ClientAttrs ClientAttributes `json:"client_attrs,omitempty"`

	Deposit *DepositTerms `json:"deposit,omitempty"`

	// Balance is the running balance after the last effective transaction.
	Balance decimal.Decimal `json:"balance"`

	Transactions []*Transaction    `json:"transactions"`
	Holds        []*Hold           `json:"holds"`
	Charges      []*ChargeInstance `json:"charges"`

	Summary Summary `json:"summary"`

	// NextSeq is the per-account monotonic sequence counter used to break
	// same-date transaction ties.
	NextSeq int64 `json:"next_seq"`

	LastActivityOn time.Time `json:"last_activity_on,omitempty"`

	SoftDeleted bool `json:"soft_deleted,omitempty"`
}

// IsDepositAccount reports whether the account carries deposit terms.
func (a *Account) IsDepositAccount() bool {
	return a.Kind.IsDeposit() && a.Deposit != nil
}

// OnHoldFunds sums the unreleased holds.
func (a *Account) OnHoldFunds() decimal.Decimal {
	total := decimal.Zero
	for _, h := range a.Holds {
		if !h.Released() {
			total = total.Add(h.Amount)
		}
	}
	return total
}

// AvailableBalance is the running balance minus on-hold funds.
func (a *Account) AvailableBalance() decimal.Decimal {
	return a.Balance.Sub(a.OnHoldFunds())
}

// LockedInUntil returns the end of the lock-in period, or the zero time when
// no lock-in is configured or the account is not yet active.
func (a *Account) LockedInUntil() time.Time {
	if a.LockinPeriod == 0 || a.ActivatedOn.IsZero() {
		return time.Time{}
	}
	return a.LockinUnit.AddTo(Day(a.ActivatedOn), a.LockinPeriod)
}

// IsLocked reports whether date falls inside the lock-in period.
func (a *Account) IsLocked(date time.Time) bool {
	until := a.LockedInUntil()
	return !until.IsZero() && Day(date).Before(until)
}

// FindTransaction returns the transaction with the given ID, or nil.
func (a *Account) FindTransaction(id string) *Transaction {
	for _, tx := range a.Transactions {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}

// FindHold returns the hold with the given ID, or nil.
func (a *Account) FindHold(id string) *Hold {
	for _, h := range a.Holds {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// FindCharge returns the charge instance with the given ID, or nil.
func (a *Account) FindCharge(id string) *ChargeInstance {
	for _, c := range a.Charges {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// LastTransactionDate returns the latest transaction date on the account, or
// the zero time for an empty ledger.
func (a *Account) LastTransactionDate() time.Time {
	var last time.Time
	for _, tx := range a.Transactions {
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	return last
}

// Copy returns a deep copy of the account. The service layer mutates a copy
// and swaps it in only after the persistence write succeeds, so a failed
// commit leaves the in-memory state untouched.
func (a *Account) Copy() *Account {
	cp := *a
	if a.Deposit != nil {
		dep := *a.Deposit
		cp.Deposit = &dep
	}
	cp.Transactions = make([]*Transaction, len(a.Transactions))
	for i, tx := range a.Transactions {
		t := *tx
		if tx.Channel != nil {
			ch := *tx.Channel
			t.Channel = &ch
		}
		cp.Transactions[i] = &t
	}
	cp.Holds = make([]*Hold, len(a.Holds))
	for i, h := range a.Holds {
		hh := *h
		cp.Holds[i] = &hh
	}
	cp.Charges = make([]*ChargeInstance, len(a.Charges))
	for i, c := range a.Charges {
		cp.Charges[i] = c.Copy()
	}
	return &cp
}
