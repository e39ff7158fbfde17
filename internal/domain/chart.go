package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncentiveAttribute is the client attribute an incentive keys on.
type IncentiveAttribute int

const (
	AttrGender IncentiveAttribute = iota
	AttrClientType
	AttrClassification
)

func (a IncentiveAttribute) String() string {
	switch a {
	case AttrGender:
		return "gender"
	case AttrClientType:
		return "client_type"
	case AttrClassification:
		return "classification"
	}
	return "unknown"
}

// ClientAttributes are the client facts incentives match against. Supplied
// by the caller; empty values never match.
type ClientAttributes struct {
	Gender         string `json:"gender,omitempty"`
	ClientType     string `json:"client_type,omitempty"`
	Classification string `json:"classification,omitempty"`
}

func (c ClientAttributes) value(attr IncentiveAttribute) string {
	switch attr {
	case AttrGender:
		return c.Gender
	case AttrClientType:
		return c.ClientType
	case AttrClassification:
		return c.Classification
	}
	return ""
}

// Incentive is a rate delta applied when a client attribute matches.
type Incentive struct {
	Attribute IncentiveAttribute `json:"attribute"`
	Value     string             `json:"value"`
	RateDelta decimal.Decimal    `json:"rate_delta"`
}

// Matches reports whether the client attribute equals the incentive value.
func (i Incentive) Matches(attrs ClientAttributes) bool {
	v := attrs.value(i.Attribute)
	return v != "" && v == i.Value
}

// Slab is one tier of a chart: a period range [FromPeriod, ToPeriod]
// (ToPeriod 0 = open-ended) and/or an amount range [AmountFrom, AmountTo)
// (AmountTo zero = open-ended), with an annual rate.
type Slab struct {
	ID         string          `json:"id"`
	FromPeriod int             `json:"from_period"`
	ToPeriod   int             `json:"to_period,omitempty"`
	AmountFrom decimal.Decimal `json:"amount_from"`
	AmountTo   decimal.Decimal `json:"amount_to,omitempty"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	Incentives []Incentive     `json:"incentives,omitempty"`
}

// PeriodMatches reports whether periodElapsed falls inside the slab's
// period range.
func (s Slab) PeriodMatches(periodElapsed int) bool {
	if periodElapsed < s.FromPeriod {
		return false
	}
	return s.ToPeriod == 0 || periodElapsed <= s.ToPeriod
}

// AmountMatches reports whether balance falls inside [AmountFrom, AmountTo).
func (s Slab) AmountMatches(balance decimal.Decimal) bool {
	if balance.LessThan(s.AmountFrom) {
		return false
	}
	return s.AmountTo.IsZero() || balance.LessThan(s.AmountTo)
}

// SameRanges reports whether two slabs cover identical period and amount
// ranges. Used to reject ties at authoring time.
func (s Slab) SameRanges(other Slab) bool {
	return s.FromPeriod == other.FromPeriod && s.ToPeriod == other.ToPeriod &&
		s.AmountFrom.Equal(other.AmountFrom) && s.AmountTo.Equal(other.AmountTo)
}

// Chart is a dated, tiered interest-rate schedule effective over
// [FromDate, EndDate). A zero EndDate means open-ended. Slab period ranges
// are expressed in PeriodUnit.
type Chart struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	FromDate time.Time `json:"from_date"`
	EndDate  time.Time `json:"end_date,omitempty"`

	PeriodUnit PeriodUnit `json:"period_unit"`

	// PrimaryGroupingByAmount makes the amount range the first filter
	// dimension; period range narrows within it.
	PrimaryGroupingByAmount bool `json:"primary_grouping_by_amount,omitempty"`

	Slabs []Slab `json:"slabs"`
}

// Covers reports whether asOf falls inside the chart's effective range.
func (c *Chart) Covers(asOf time.Time) bool {
	if asOf.Before(c.FromDate) {
		return false
	}
	return c.EndDate.IsZero() || asOf.Before(c.EndDate)
}

// PeriodElapsed returns the elapsed period between from and to in the
// chart's period unit, rounded down.
func (c *Chart) PeriodElapsed(from, to time.Time) int {
	days := DaysBetween(from, to)
	switch c.PeriodUnit {
	case UnitDays:
		return days
	case UnitWeeks:
		return days / 7
	case UnitMonths:
		months := 0
		for !c.PeriodUnit.AddTo(Day(from), months+1).After(Day(to)) {
			months++
		}
		return months
	case UnitYears:
		years := 0
		for !c.PeriodUnit.AddTo(Day(from), years+1).After(Day(to)) {
			years++
		}
		return years
	}
	return days
}
