// Package lifecycle implements the account state machine: application
// approval, activation, closure and maturity transitions, plus the
// inactivity sub-state sweep. Transitions fail fast with ErrInvalidState;
// they never accumulate.
package lifecycle

import (
	"time"

	"github.com/abreu/savings-core-go/internal/domain"
)

// Approve moves a submitted application to approved. Milestone dates are
// monotonic: the approval date may not precede the submission date.
func Approve(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsSubmitted() {
		return &domain.ErrInvalidState{Op: "approve", Status: acc.Status}
	}
	if domain.Day(on).Before(domain.Day(acc.SubmittedOn)) {
		var errs domain.ValidationErrors
		errs.Add("approvedOnDate", "approval.before.submission",
			"approval date cannot precede the submission date")
		return errs
	}
	acc.Status = domain.StatusApproved
	acc.ApprovedOn = domain.Day(on)
	return nil
}

// UndoApproval returns an approved application to submitted. Once the
// account is active the approval can no longer be undone.
func UndoApproval(acc *domain.Account) error {
	if !acc.Status.IsApproved() {
		return &domain.ErrInvalidState{Op: "undo approval", Status: acc.Status}
	}
	acc.Status = domain.StatusSubmitted
	acc.ApprovedOn = time.Time{}
	return nil
}

// Reject terminates a submitted application.
func Reject(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsSubmitted() {
		return &domain.ErrInvalidState{Op: "reject", Status: acc.Status}
	}
	acc.Status = domain.StatusRejected
	acc.ClosedOn = domain.Day(on)
	return nil
}

// WithdrawApplication terminates a submitted application at the applicant's
// request.
func WithdrawApplication(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsSubmitted() {
		return &domain.ErrInvalidState{Op: "withdraw application", Status: acc.Status}
	}
	acc.Status = domain.StatusWithdrawn
	acc.ClosedOn = domain.Day(on)
	return nil
}

// Activate opens an approved account for transactions. The activation date
// anchors the lock-in window and, for deposit accounts, fixes the maturity
// date from the agreed term.
func Activate(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsApproved() {
		return &domain.ErrInvalidState{Op: "activate", Status: acc.Status}
	}
	if domain.Day(on).Before(domain.Day(acc.ApprovedOn)) {
		var errs domain.ValidationErrors
		errs.Add("activatedOnDate", "activation.before.approval",
			"activation date cannot precede the approval date")
		return errs
	}
	acc.Status = domain.StatusActive
	acc.ActivatedOn = domain.Day(on)
	acc.LastActivityOn = domain.Day(on)
	if acc.IsDepositAccount() {
		acc.Deposit.ResolveMaturityDate(on)
	}
	return nil
}

// Close performs a regular closure. The available balance must be exactly
// zero: residual funds or unreleased holds both block closure.
func Close(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsActive() && !acc.Status.IsMatured() {
		return &domain.ErrInvalidState{Op: "close", Status: acc.Status}
	}
	if !acc.AvailableBalance().IsZero() || !acc.OnHoldFunds().IsZero() {
		var errs domain.ValidationErrors
		errs.Add("balance", "close.with.balance",
			"account cannot be closed while funds remain on balance or on hold")
		return errs
	}
	if domain.Day(on).Before(acc.LastTransactionDate()) {
		var errs domain.ValidationErrors
		errs.Add("closedOnDate", "close.before.last.transaction",
			"closure date cannot precede the last transaction date")
		return errs
	}
	acc.Status = domain.StatusClosed
	acc.ClosedOn = domain.Day(on)
	acc.SubStatus = domain.SubStatusNone
	return nil
}

// MarkPrematurelyClosed records the terminal state after a premature
// closure payout has been disposed of.
func MarkPrematurelyClosed(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsActive() {
		return &domain.ErrInvalidState{Op: "premature close", Status: acc.Status}
	}
	acc.Status = domain.StatusPrematurelyClosed
	acc.ClosedOn = domain.Day(on)
	acc.SubStatus = domain.SubStatusNone
	return nil
}

// Mature flips an active deposit account whose maturity date has arrived.
func Mature(acc *domain.Account, on time.Time) error {
	if !acc.Status.IsActive() {
		return &domain.ErrInvalidState{Op: "mature", Status: acc.Status}
	}
	if !acc.IsDepositAccount() || acc.Deposit.MaturityDate.IsZero() {
		return &domain.ErrInvalidState{Op: "mature non-deposit account", Status: acc.Status}
	}
	if domain.Day(on).Before(acc.Deposit.MaturityDate) {
		var errs domain.ValidationErrors
		errs.Add("maturityDate", "maturity.not.reached",
			"account has not reached its maturity date")
		return errs
	}
	acc.Status = domain.StatusMatured
	return nil
}

// UpdateSubStatus advances an active savings account along the inactivity
// ladder (none, inactive, dormant, escheat) from the days since its last
// customer activity. Thresholds come from the product; a zero threshold
// disables that rung. The sweep only ever moves forward; any customer
// transaction resets the sub-state through the ledger.
func UpdateSubStatus(acc *domain.Account, product *domain.Product, asOf time.Time) (domain.AccountSubStatus, bool) {
	if !acc.Status.IsActive() || acc.Kind.IsDeposit() {
		return acc.SubStatus, false
	}
	anchor := acc.LastActivityOn
	if anchor.IsZero() {
		anchor = acc.ActivatedOn
	}
	if anchor.IsZero() {
		return acc.SubStatus, false
	}

	idle := domain.DaysBetween(anchor, domain.Day(asOf))
	next := domain.SubStatusNone
	switch {
	case product.DaysToEscheat > 0 && idle >= product.DaysToEscheat:
		next = domain.SubStatusEscheat
	case product.DaysToDormancy > 0 && idle >= product.DaysToDormancy:
		next = domain.SubStatusDormant
	case product.DaysToInactive > 0 && idle >= product.DaysToInactive:
		next = domain.SubStatusInactive
	}

	if next <= acc.SubStatus {
		return acc.SubStatus, false
	}
	acc.SubStatus = next
	return next, true
}
