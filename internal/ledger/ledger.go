// Package ledger maintains the append-only transaction sequence of one
// account: running balances, on-hold funds, reversals and the backdated
// recomputation cascade. All mutations for a given account must run inside
// the service layer's per-account scope; the ledger itself is not
// goroutine-safe.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/charge"
	"github.com/abreu/savings-core-go/internal/domain"
)

// Ledger wraps an account and applies money movements to it.
type Ledger struct {
	acc *domain.Account
}

// New returns a ledger over the given account.
func New(acc *domain.Account) *Ledger {
	return &Ledger{acc: acc}
}

// Account returns the underlying account.
func (l *Ledger) Account() *domain.Account {
	return l.acc
}

// Post validates and appends a transaction of the given type. Debits are
// checked against the available balance (running balance minus unreleased
// holds); a withdrawal may draw the balance down to -OverdraftLimit when
// overdraft is enabled. Posting a date earlier than the latest existing
// transaction triggers the recomputation cascade.
func (l *Ledger) Post(typ domain.TransactionType, amount decimal.Decimal, date time.Time, channel *domain.PaymentChannel) (*domain.Transaction, error) {
	if err := l.gate(typ); err != nil {
		return nil, err
	}
	if !amount.IsPositive() && !typ.IsTransferMarker() {
		var errs domain.ValidationErrors
		errs.Add("transactionAmount", "amount.not.positive", "transaction amount must be greater than zero")
		return nil, errs
	}
	if typ == domain.TxWithdrawal && l.acc.IsLocked(date) {
		return nil, &domain.ErrAccountLocked{Until: l.acc.LockedInUntil()}
	}
	if typ.IsDebit() {
		if err := l.checkFunds(typ, amount); err != nil {
			return nil, err
		}
	}

	tx := l.append(typ, amount, date, channel)
	l.Recompute()

	if typ == domain.TxDeposit || typ == domain.TxWithdrawal {
		l.acc.LastActivityOn = domain.Day(date)
		l.acc.SubStatus = domain.SubStatusNone
	}
	return tx, nil
}

// Withdraw posts a withdrawal and, when applyFee is set, assesses and
// collects the account's on-withdrawal charges against the withdrawal
// amount.
func (l *Ledger) Withdraw(amount decimal.Decimal, date time.Time, channel *domain.PaymentChannel, applyFee bool) (*domain.Transaction, error) {
	var feeTotal decimal.Decimal
	var due []*domain.ChargeInstance
	var rollback func()
	if applyFee {
		// Resolve fee amounts up front so withdrawal + fees are funded
		// together; assessment is rolled back if the withdrawal is rejected.
		rollback = l.snapshotCharges(domain.ChargeOnWithdrawal)
		due = charge.Assess(l.acc, domain.ChargeOnWithdrawal, amount, date)
		for _, c := range due {
			feeTotal = feeTotal.Add(c.Outstanding())
		}
	}

	if feeTotal.IsPositive() {
		if err := l.checkFunds(domain.TxWithdrawal, amount.Add(feeTotal)); err != nil {
			rollback()
			return nil, err
		}
	}

	tx, err := l.Post(domain.TxWithdrawal, amount, date, channel)
	if err != nil {
		if rollback != nil {
			rollback()
		}
		return nil, err
	}

	for _, c := range due {
		outstanding := c.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		feeTx := l.append(c.TransactionType(), outstanding, date, nil)
		feeTx.RefID = tx.ID
		if err := charge.Pay(c, outstanding, date); err != nil {
			return nil, err
		}
	}
	l.Recompute()
	return tx, nil
}

// Payout posts the closure withdrawal. Closure is exempt from the lock-in
// window; the funds check still applies.
func (l *Ledger) Payout(amount decimal.Decimal, date time.Time) (*domain.Transaction, error) {
	if err := l.gate(domain.TxWithdrawal); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		var errs domain.ValidationErrors
		errs.Add("transactionAmount", "amount.not.positive", "transaction amount must be greater than zero")
		return nil, errs
	}
	if err := l.checkFunds(domain.TxWithdrawal, amount); err != nil {
		return nil, err
	}
	tx := l.append(domain.TxWithdrawal, amount, date, nil)
	l.Recompute()
	return tx, nil
}

// CollectCharge posts the fee/penalty transaction for a charge payment of
// the given amount and records the payment on the charge.
func (l *Ledger) CollectCharge(c *domain.ChargeInstance, amount decimal.Decimal, date time.Time) (*domain.Transaction, error) {
	if err := l.gate(c.TransactionType()); err != nil {
		return nil, err
	}
	if amount.GreaterThan(c.Outstanding()) {
		return nil, &domain.ErrOverpayment{Outstanding: c.Outstanding(), Paid: amount}
	}
	if err := l.checkFunds(c.TransactionType(), amount); err != nil {
		return nil, err
	}
	if err := charge.Pay(c, amount, date); err != nil {
		return nil, err
	}
	tx := l.append(c.TransactionType(), amount, date, nil)
	tx.RefID = c.ID
	l.Recompute()
	return tx, nil
}

// Reverse marks the transaction reversed, appends the offsetting reversal
// entry referencing it, and recomputes every running balance dated on or
// after the reversed transaction.
func (l *Ledger) Reverse(transactionID string) (*domain.Transaction, error) {
	orig := l.acc.FindTransaction(transactionID)
	if orig == nil {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	if orig.Reversed {
		return nil, &domain.ErrAlreadyReversed{TransactionID: transactionID}
	}
	// Hold and release entries mirror the Hold record; reversing the entry
	// alone would leave the two contradicting each other.
	if orig.Type == domain.TxAmountHold || orig.Type == domain.TxAmountRelease || orig.IsReversal {
		var errs domain.ValidationErrors
		errs.Add("transactionId", "reversal.not.supported",
			"hold, release and reversal entries cannot be reversed")
		return nil, errs
	}

	orig.Reversed = true
	rev := l.append(orig.Type, orig.Amount, orig.Date, nil)
	rev.IsReversal = true
	rev.RefID = orig.ID
	l.Recompute()
	return rev, nil
}

// HoldAmount earmarks amount against the available balance. The running
// balance is unchanged; only the available balance drops.
func (l *Ledger) HoldAmount(amount decimal.Decimal, date time.Time) (*domain.Hold, error) {
	if !l.acc.Status.IsActive() {
		return nil, &domain.ErrInvalidState{Op: "hold", Status: l.acc.Status}
	}
	if !amount.IsPositive() {
		var errs domain.ValidationErrors
		errs.Add("amount", "amount.not.positive", "hold amount must be greater than zero")
		return nil, errs
	}
	available := l.acc.AvailableBalance()
	if amount.GreaterThan(available) {
		return nil, &domain.ErrInsufficientFunds{Available: available, Required: amount}
	}

	tx := l.append(domain.TxAmountHold, amount, date, nil)
	hold := &domain.Hold{
		ID:            uuid.NewString(),
		Amount:        amount,
		Date:          domain.Day(date),
		TransactionID: tx.ID,
	}
	l.acc.Holds = append(l.acc.Holds, hold)
	l.Recompute()
	return hold, nil
}

// ReleaseHold releases a hold exactly once, posting the release entry that
// references the original hold transaction. Holds never expire implicitly.
func (l *Ledger) ReleaseHold(holdID string, date time.Time) (*domain.Transaction, error) {
	hold := l.acc.FindHold(holdID)
	if hold == nil {
		return nil, &domain.ErrNotFound{Resource: "hold", ID: holdID}
	}
	if hold.Released() {
		return nil, &domain.ErrNotOnHold{HoldID: holdID}
	}

	tx := l.append(domain.TxAmountRelease, hold.Amount, date, nil)
	tx.RefID = hold.TransactionID
	hold.ReleasedByID = tx.ID
	hold.ReleasedOn = domain.Day(date)
	l.Recompute()
	return tx, nil
}

// snapshotCharges captures the assessment state of all charges on the given
// trigger and returns the func that restores it.
func (l *Ledger) snapshotCharges(trigger domain.ChargeTime) func() {
	type state struct {
		c        *domain.ChargeInstance
		accrued  decimal.Decimal
		amount   decimal.Decimal
		assessed time.Time
	}
	var saved []state
	for _, c := range l.acc.Charges {
		if c.Time == trigger {
			saved = append(saved, state{c: c, accrued: c.AmountAccrued, amount: c.Amount, assessed: c.LastAssessedOn})
		}
	}
	return func() {
		for _, s := range saved {
			s.c.AmountAccrued = s.accrued
			s.c.Amount = s.amount
			s.c.LastAssessedOn = s.assessed
		}
	}
}

// gate rejects postings the account state does not allow. Transactions are
// accepted while active or matured; an escheated sub-state only admits the
// escheat sweep itself and hold releases.
func (l *Ledger) gate(typ domain.TransactionType) error {
	if !l.acc.Status.IsActive() && !l.acc.Status.IsMatured() {
		return &domain.ErrInvalidState{Op: "post " + typ.String(), Status: l.acc.Status}
	}
	if l.acc.SubStatus.IsEscheat() && typ != domain.TxEscheat && !typ.IsRelease() {
		return &domain.ErrInvalidState{Op: "post " + typ.String() + " on escheated account", Status: l.acc.Status}
	}
	return nil
}

// checkFunds enforces the available-balance rule for debits. Failure is
// surfaced, never coerced.
func (l *Ledger) checkFunds(typ domain.TransactionType, amount decimal.Decimal) error {
	available := l.acc.AvailableBalance()
	remaining := available.Sub(amount)
	if remaining.GreaterThanOrEqual(decimal.Zero) {
		return nil
	}
	if typ == domain.TxWithdrawal && l.acc.AllowOverdraft &&
		remaining.GreaterThanOrEqual(l.acc.OverdraftLimit.Neg()) {
		return nil
	}
	return &domain.ErrInsufficientFunds{Available: available, Required: amount}
}

// append creates the transaction with the next sequence number and adds it
// to the account. Callers recompute afterwards.
func (l *Ledger) append(typ domain.TransactionType, amount decimal.Decimal, date time.Time, channel *domain.PaymentChannel) *domain.Transaction {
	tx := &domain.Transaction{
		ID:        uuid.NewString(),
		Type:      typ,
		Date:      domain.Day(date),
		Seq:       l.acc.NextSeq,
		Amount:    amount,
		Channel:   channel,
		CreatedAt: time.Now().UTC(),
	}
	l.acc.NextSeq++
	l.acc.Transactions = append(l.acc.Transactions, tx)
	return tx
}

// Recompute replays the whole ledger in (date, seq) order from the opening
// balance, rewriting every running balance and the account summary. It is
// the single balance-derivation routine: reversals and backdated inserts
// both funnel through it, so the invariant
// runningBalance[n] = runningBalance[n-1] + signedAmount[n] holds for every
// effective transaction regardless of posting order.
func (l *Ledger) Recompute() {
	txs := l.sorted()

	running := l.acc.OpeningBalance
	var summary domain.Summary
	summary.TotalDeposits = decimal.Zero
	summary.TotalWithdrawals = decimal.Zero
	summary.TotalInterestPosted = decimal.Zero
	summary.TotalFeesCharged = decimal.Zero

	for _, tx := range txs {
		running = running.Add(tx.SignedAmount())
		tx.RunningBalance = running

		if tx.Reversed || tx.IsReversal {
			continue
		}
		switch tx.Type {
		case domain.TxDeposit:
			summary.TotalDeposits = summary.TotalDeposits.Add(tx.Amount)
		case domain.TxWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(tx.Amount)
		case domain.TxInterestPosting:
			summary.TotalInterestPosted = summary.TotalInterestPosted.Add(tx.Amount)
		case domain.TxFee, domain.TxPenalty:
			summary.TotalFeesCharged = summary.TotalFeesCharged.Add(tx.Amount)
		}
	}

	l.acc.Balance = running
	l.acc.Summary = summary
}

// sorted returns the transactions ordered by (date, seq) without mutating
// the account's append-order slice.
func (l *Ledger) sorted() []*domain.Transaction {
	txs := make([]*domain.Transaction, len(l.acc.Transactions))
	copy(txs, l.acc.Transactions)
	// insertion sort keeps the common already-ordered case cheap
	for i := 1; i < len(txs); i++ {
		for j := i; j > 0 && txs[j].Before(txs[j-1]); j-- {
			txs[j], txs[j-1] = txs[j-1], txs[j]
		}
	}
	return txs
}
