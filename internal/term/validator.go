// Package term validates deposit term and amount constraints for fixed and
// recurring deposit products. Violations are accumulated, never fail-fast,
// so the caller sees every problem in one response.
package term

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
)

// Validate enforces the product's term-length, multiples-of-term and
// amount-range constraints on a requested deposit. A nil return means the
// request is acceptable; otherwise the error is a domain.ValidationErrors
// batch listing every violation.
func Validate(product *domain.Product, requestedTerm int, unit domain.PeriodUnit, depositAmount decimal.Decimal) error {
	var errs domain.ValidationErrors

	// Misconfigured bounds are reported before the bounds themselves are
	// applied.
	if product.MinTerm > 0 && product.MaxTerm > 0 && product.MinTerm > product.MaxTerm {
		errs.Add("maxDepositTerm", "max.term.lessthan.min.term",
			"product maximum term is less than its minimum term")
	}
	if product.MinDepositAmount != nil && product.MaxDepositAmount != nil &&
		product.MinDepositAmount.GreaterThan(*product.MaxDepositAmount) {
		errs.Add("maxDepositAmount", "max.amount.lessthan.min.amount",
			"product maximum deposit amount is less than its minimum")
	}

	if !unitAllowed(product, unit) {
		errs.Add("depositPeriodFrequencyType", "term.unit.not.supported",
			fmt.Sprintf("term unit %s is not supported by the product", unit))
	}

	if product.MinTerm > 0 && requestedTerm < product.MinTerm {
		errs.Add("depositPeriod", "deposit.period.below.minimum",
			fmt.Sprintf("requested term %d is below the minimum term %d", requestedTerm, product.MinTerm))
	}
	if product.MaxTerm > 0 && requestedTerm > product.MaxTerm {
		errs.Add("depositPeriod", "deposit.period.above.maximum",
			fmt.Sprintf("requested term %d exceeds the maximum term %d", requestedTerm, product.MaxTerm))
	}
	if product.InMultiplesOf > 0 && requestedTerm%product.InMultiplesOf != 0 {
		errs.Add("depositPeriod", "deposit.period.not.multiple.of.term",
			fmt.Sprintf("requested term %d is not a multiple of %d", requestedTerm, product.InMultiplesOf))
	}

	if product.MinDepositAmount != nil && depositAmount.LessThan(*product.MinDepositAmount) {
		errs.Add("depositAmount", "deposit.amount.below.minimum",
			fmt.Sprintf("deposit amount %s is below the minimum %s", depositAmount, product.MinDepositAmount))
	}
	if product.MaxDepositAmount != nil && depositAmount.GreaterThan(*product.MaxDepositAmount) {
		errs.Add("depositAmount", "deposit.amount.above.maximum",
			fmt.Sprintf("deposit amount %s exceeds the maximum %s", depositAmount, product.MaxDepositAmount))
	}

	return errs.AsError()
}

func unitAllowed(product *domain.Product, unit domain.PeriodUnit) bool {
	if len(product.TermUnits) == 0 {
		return true
	}
	for _, u := range product.TermUnits {
		if u == unit {
			return true
		}
	}
	return false
}
