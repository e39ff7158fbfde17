// Package closure computes deposit payouts: projected maturity amounts and
// premature closure with penal interest. All arithmetic is decimal; interest
// is rounded to 2 places only at the end of an accrual, never per period.
package closure

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ratechart"
)

var hundred = decimal.NewFromInt(100)

// Result is the outcome of a closure computation.
type Result struct {
	// Rate is the annual rate the payout was computed at, after any penal
	// deduction.
	Rate decimal.Decimal
	// Interest is the interest earned over the accrual window at Rate.
	Interest decimal.Decimal
	// Payout is the account balance plus Interest.
	Payout decimal.Decimal
}

// ComputeMaturity projects the maturity amount of a deposit account: the
// chart rate for the whole agreed term applied from activation to the
// maturity date with the product's compounding.
func ComputeMaturity(acc *domain.Account, product *domain.Product) (Result, error) {
	if !acc.IsDepositAccount() || acc.Deposit.MaturityDate.IsZero() {
		return Result{}, &domain.ErrInvalidState{Op: "compute maturity", Status: acc.Status}
	}
	start := domain.Day(acc.ActivatedOn)
	end := acc.Deposit.MaturityDate
	principal := acc.Deposit.DepositAmount

	rate, err := LookupRate(acc, product, start, end, principal)
	if err != nil {
		return Result{}, err
	}
	interest := Accrue(principal, rate, start, end, product.Compounding, product.InterestDaysInYear())
	return Result{
		Rate:     rate,
		Interest: interest,
		Payout:   acc.Balance.Add(interest),
	}, nil
}

// ComputePremature computes the payout when a deposit account is closed
// before maturity. The chart rate is looked up on the penal basis (the whole
// agreed term, or only the elapsed period), the penal rate is subtracted and
// the result floored at zero, then interest accrues from activation to the
// closure date at that reduced rate.
func ComputePremature(acc *domain.Account, product *domain.Product, closeDate time.Time) (Result, error) {
	if !acc.IsDepositAccount() || acc.Deposit.MaturityDate.IsZero() {
		return Result{}, &domain.ErrInvalidState{Op: "compute premature closure", Status: acc.Status}
	}
	closeDate = domain.Day(closeDate)
	start := domain.Day(acc.ActivatedOn)
	if !closeDate.After(start) {
		var errs domain.ValidationErrors
		errs.Add("closedOnDate", "closure.not.after.activation",
			"premature closure date must be after the activation date")
		return Result{}, errs
	}
	if !closeDate.Before(acc.Deposit.MaturityDate) {
		var errs domain.ValidationErrors
		errs.Add("closedOnDate", "closure.not.premature",
			"closure date is on or after maturity; close the matured account instead")
		return Result{}, errs
	}

	principal := acc.Deposit.DepositAmount

	lookupEnd := closeDate
	if acc.Deposit.PenalApplicable && acc.Deposit.PenalOn.IsWholeTerm() {
		lookupEnd = acc.Deposit.MaturityDate
	}
	rate, err := LookupRate(acc, product, start, lookupEnd, principal)
	if err != nil {
		return Result{}, err
	}
	if acc.Deposit.PenalApplicable {
		rate = rate.Sub(acc.Deposit.PenalRate)
		if rate.IsNegative() {
			rate = decimal.Zero
		}
	}

	interest := Accrue(principal, rate, start, closeDate, product.Compounding, product.InterestDaysInYear())
	return Result{
		Rate:     rate,
		Interest: interest,
		Payout:   acc.Balance.Add(interest),
	}, nil
}

// ValidateDisposition gates the requested proceeds disposition. Reinvestment
// is a maturity-only option.
func ValidateDisposition(closure domain.ClosureType, premature bool, transferAccountID string) error {
	if premature && closure.IsReinvest() {
		return &domain.ErrReinvestNotAllowed{}
	}
	if closure.IsTransferToSavings() && transferAccountID == "" {
		return &domain.ErrMissingTargetAccount{}
	}
	return nil
}

// LookupRate resolves the chart rate for the window, falling back to the
// account's (then the product's) nominal rate only when no chart covers the
// start date. A chart that covers the date but yields no slab is a data
// error and propagates.
func LookupRate(acc *domain.Account, product *domain.Product, start, end time.Time, balance decimal.Decimal) (decimal.Decimal, error) {
	rate, err := ratechart.ApplicableRate(product.Charts, start, end, balance, acc.ClientAttrs)
	if err == nil {
		return rate, nil
	}
	var noChart *domain.ErrNoApplicableChart
	if errors.As(err, &noChart) {
		if !acc.NominalAnnualRate.IsZero() {
			return acc.NominalAnnualRate, nil
		}
		if !product.NominalAnnualRate.IsZero() {
			return product.NominalAnnualRate, nil
		}
	}
	return decimal.Zero, err
}

// Accrue runs day-count interest over [start, end) at the annual rate.
// With compounding, earned interest is folded into the base at each
// compounding period boundary; simple interest accrues on the principal
// alone.
func Accrue(principal, annualRate decimal.Decimal, start, end time.Time, compounding domain.CompoundingPeriod, daysInYear int) decimal.Decimal {
	if !end.After(start) || !annualRate.IsPositive() || !principal.IsPositive() {
		return decimal.Zero
	}
	daily := annualRate.Div(hundred).Div(decimal.NewFromInt(int64(daysInYear)))

	periods := compounding.PeriodsPerYear()
	if periods == 0 {
		days := decimal.NewFromInt(int64(domain.DaysBetween(start, end)))
		return principal.Mul(daily).Mul(days).Round(2)
	}

	stepMonths := 12 / periods
	base := principal
	interest := decimal.Zero
	cursor := start
	for cursor.Before(end) {
		next := cursor.AddDate(0, stepMonths, 0)
		if next.After(end) {
			next = end
		}
		days := decimal.NewFromInt(int64(domain.DaysBetween(cursor, next)))
		earned := base.Mul(daily).Mul(days)
		interest = interest.Add(earned)
		base = base.Add(earned)
		cursor = next
	}
	return interest.Round(2)
}
