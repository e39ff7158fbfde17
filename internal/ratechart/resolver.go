// Package ratechart selects the applicable interest rate from a product's
// date- and amount-indexed rate charts. Resolution is a pure function of its
// inputs: the same chart, elapsed period, balance and client attributes
// always yield the same slab.
package ratechart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
)

// ResolveChart picks the chart whose from-date is the latest one not after
// asOf, respecting chart end dates. The account cannot accrue interest
// without an applicable chart.
func ResolveChart(charts []domain.Chart, asOf time.Time) (*domain.Chart, error) {
	asOf = domain.Day(asOf)
	var best *domain.Chart
	for i := range charts {
		c := &charts[i]
		if !c.Covers(asOf) {
			continue
		}
		if best == nil || c.FromDate.After(best.FromDate) {
			best = c
		}
	}
	if best == nil {
		return nil, &domain.ErrNoApplicableChart{AsOf: asOf}
	}
	return best, nil
}

// ResolveSlab filters the chart's slabs by period and amount range. When the
// chart is primary-grouped by amount, the amount range is applied first and
// the period range narrows within it; either way exactly one slab must
// remain. More than one match means the chart data violates the non-overlap
// invariant and resolution fails rather than guessing a precedence order.
func ResolveSlab(chart *domain.Chart, periodElapsed int, balance decimal.Decimal) (*domain.Slab, error) {
	var matches []*domain.Slab

	if chart.PrimaryGroupingByAmount {
		for i := range chart.Slabs {
			s := &chart.Slabs[i]
			if !s.AmountMatches(balance) {
				continue
			}
			if s.PeriodMatches(periodElapsed) {
				matches = append(matches, s)
			}
		}
	} else {
		for i := range chart.Slabs {
			s := &chart.Slabs[i]
			if s.PeriodMatches(periodElapsed) && s.AmountMatches(balance) {
				matches = append(matches, s)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, &domain.ErrNoMatchingSlab{Period: periodElapsed, Balance: balance}
	case 1:
		return matches[0], nil
	default:
		return nil, &domain.ErrAmbiguousSlab{ChartID: chart.ID, Period: periodElapsed, Balance: balance}
	}
}

// EffectiveRate is the slab's base annual rate plus the sum of matching
// incentive deltas, floored at zero.
func EffectiveRate(slab *domain.Slab, attrs domain.ClientAttributes) decimal.Decimal {
	rate := slab.AnnualRate
	for _, inc := range slab.Incentives {
		if inc.Matches(attrs) {
			rate = rate.Add(inc.RateDelta)
		}
	}
	if rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}

// ApplicableRate composes chart, slab and incentive resolution: the annual
// rate for an account whose deposit started at start, evaluated up to end,
// for the given balance.
func ApplicableRate(charts []domain.Chart, start, end time.Time, balance decimal.Decimal, attrs domain.ClientAttributes) (decimal.Decimal, error) {
	chart, err := ResolveChart(charts, start)
	if err != nil {
		return decimal.Zero, err
	}
	slab, err := ResolveSlab(chart, chart.PeriodElapsed(start, end), balance)
	if err != nil {
		return decimal.Zero, err
	}
	return EffectiveRate(slab, attrs), nil
}
