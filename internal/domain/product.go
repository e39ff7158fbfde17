package domain

import (
	"github.com/shopspring/decimal"
)

// Product is the immutable configuration an account is opened against:
// term bounds, rate charts, charge definitions and inactivity thresholds.
// Loaded once and treated as read-only by the core.
type Product struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Currency string      `json:"currency"`
	Kind     AccountKind `json:"kind"`

	// Deposit term bounds (deposit products only). MaxTerm and
	// InMultiplesOf are optional (0 = not configured).
	MinTerm       int          `json:"min_term,omitempty"`
	MaxTerm       int          `json:"max_term,omitempty"`
	InMultiplesOf int          `json:"in_multiples_of,omitempty"`
	TermUnits     []PeriodUnit `json:"term_units,omitempty"`

	// Deposit amount bounds, both optional.
	MinDepositAmount *decimal.Decimal `json:"min_deposit_amount,omitempty"`
	MaxDepositAmount *decimal.Decimal `json:"max_deposit_amount,omitempty"`

	LockinPeriod int        `json:"lockin_period,omitempty"`
	LockinUnit   PeriodUnit `json:"lockin_unit,omitempty"`

	AllowOverdraft bool            `json:"allow_overdraft,omitempty"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit,omitempty"`

	MinRequiredOpeningBalance decimal.Decimal `json:"min_required_opening_balance,omitempty"`

	// Fallback when no chart applies. A product must always carry either a
	// default chart or a nominal rate.
	NominalAnnualRate decimal.Decimal `json:"nominal_annual_rate,omitempty"`

	Compounding CompoundingPeriod `json:"compounding"`
	DaysInYear  int               `json:"days_in_year,omitempty"`

	// Premature closure penalty defaults.
	PenalApplicable bool            `json:"penal_applicable,omitempty"`
	PenalRate       decimal.Decimal `json:"penal_rate,omitempty"`
	PenalOn         PenalInterestOn `json:"penal_on,omitempty"`

	// Inactivity thresholds in days; 0 disables the sweep. Strict ordering
	// DaysToInactive < DaysToDormancy < DaysToEscheat is enforced at
	// configuration time.
	DaysToInactive int `json:"days_to_inactive,omitempty"`
	DaysToDormancy int `json:"days_to_dormancy,omitempty"`
	DaysToEscheat  int `json:"days_to_escheat,omitempty"`

	Charges []ChargeDefinition `json:"charges,omitempty"`
	Charts  []Chart            `json:"charts,omitempty"`
}

// InterestDaysInYear returns the configured day-count basis, defaulting
// to 365.
func (p *Product) InterestDaysInYear() int {
	if p.DaysInYear == 0 {
		return 365
	}
	return p.DaysInYear
}

// Validate checks product configuration invariants, accumulating every
// violation.
func (p *Product) Validate() error {
	var errs ValidationErrors

	if p.MinTerm > 0 && p.MaxTerm > 0 && p.MinTerm > p.MaxTerm {
		errs.Add("maxTerm", "max.term.lessthan.min.term", "maximum term must not be less than minimum term")
	}
	if p.MinDepositAmount != nil && p.MaxDepositAmount != nil && p.MinDepositAmount.GreaterThan(*p.MaxDepositAmount) {
		errs.Add("maxDepositAmount", "max.amount.lessthan.min.amount", "maximum deposit amount must not be less than minimum")
	}
	if p.DaysToInactive != 0 || p.DaysToDormancy != 0 || p.DaysToEscheat != 0 {
		if !(p.DaysToInactive < p.DaysToDormancy && p.DaysToDormancy < p.DaysToEscheat) {
			errs.Add("daysToEscheat", "inactivity.thresholds.not.ordered",
				"daysToInactive < daysToDormancy < daysToEscheat must hold")
		}
	}
	for i := range p.Charts {
		chart := &p.Charts[i]
		for a := range chart.Slabs {
			for b := a + 1; b < len(chart.Slabs); b++ {
				if chart.Slabs[a].SameRanges(chart.Slabs[b]) {
					errs.Add("charts", "slab.ranges.overlap",
						"chart "+chart.ID+" contains slabs with identical ranges")
				}
			}
		}
	}
	return errs.AsError()
}
