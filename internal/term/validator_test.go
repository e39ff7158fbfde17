package term_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/term"
)

func fixedDepositProduct() *domain.Product {
	min := decimal.NewFromInt(1000)
	max := decimal.NewFromInt(100000)
	return &domain.Product{
		ID:               "fd-1",
		Kind:             domain.KindFixedDeposit,
		MinTerm:          6,
		MaxTerm:          60,
		InMultiplesOf:    3,
		TermUnits:        []domain.PeriodUnit{domain.UnitMonths},
		MinDepositAmount: &min,
		MaxDepositAmount: &max,
	}
}

func violations(t *testing.T, err error) domain.ValidationErrors {
	t.Helper()
	var errs domain.ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	return errs
}

func hasCode(errs domain.ValidationErrors, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidate_AcceptsBoundaries(t *testing.T) {
	p := fixedDepositProduct()

	for _, months := range []int{6, 24, 60} {
		if err := term.Validate(p, months, domain.UnitMonths, decimal.NewFromInt(5000)); err != nil {
			t.Errorf("term %d months rejected: %v", months, err)
		}
	}
}

func TestValidate_BelowMinimum(t *testing.T) {
	p := fixedDepositProduct()

	// 5 is below the minimum of 6 and also not a multiple of 3, so both
	// violations come back in one batch.
	err := term.Validate(p, 5, domain.UnitMonths, decimal.NewFromInt(5000))
	errs := violations(t, err)
	if !hasCode(errs, "deposit.period.below.minimum") {
		t.Error("missing below-minimum violation")
	}
	if !hasCode(errs, "deposit.period.not.multiple.of.term") {
		t.Error("missing multiples-of violation")
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 violations, got %d", len(errs))
	}
}

func TestValidate_AboveMaximum(t *testing.T) {
	p := fixedDepositProduct()
	err := term.Validate(p, 63, domain.UnitMonths, decimal.NewFromInt(5000))
	errs := violations(t, err)
	if !hasCode(errs, "deposit.period.above.maximum") {
		t.Error("missing above-maximum violation")
	}
}

func TestValidate_UnsupportedUnit(t *testing.T) {
	p := fixedDepositProduct()
	err := term.Validate(p, 6, domain.UnitDays, decimal.NewFromInt(5000))
	errs := violations(t, err)
	if !hasCode(errs, "term.unit.not.supported") {
		t.Error("missing unsupported-unit violation")
	}
}

func TestValidate_AmountBounds(t *testing.T) {
	p := fixedDepositProduct()

	err := term.Validate(p, 12, domain.UnitMonths, decimal.NewFromInt(999))
	errs := violations(t, err)
	if !hasCode(errs, "deposit.amount.below.minimum") {
		t.Error("missing below-minimum amount violation")
	}

	err = term.Validate(p, 12, domain.UnitMonths, decimal.NewFromInt(100001))
	errs = violations(t, err)
	if !hasCode(errs, "deposit.amount.above.maximum") {
		t.Error("missing above-maximum amount violation")
	}

	// Exact boundaries are acceptable.
	if err := term.Validate(p, 12, domain.UnitMonths, decimal.NewFromInt(1000)); err != nil {
		t.Errorf("minimum amount rejected: %v", err)
	}
	if err := term.Validate(p, 12, domain.UnitMonths, decimal.NewFromInt(100000)); err != nil {
		t.Errorf("maximum amount rejected: %v", err)
	}
}

func TestValidate_MisconfiguredBounds(t *testing.T) {
	p := fixedDepositProduct()
	p.MinTerm = 24
	p.MaxTerm = 6

	err := term.Validate(p, 12, domain.UnitMonths, decimal.NewFromInt(5000))
	errs := violations(t, err)
	if !hasCode(errs, "max.term.lessthan.min.term") {
		t.Error("missing misconfigured-bounds violation")
	}
}

func TestValidate_NoConstraintsConfigured(t *testing.T) {
	p := &domain.Product{ID: "open", Kind: domain.KindFixedDeposit}
	if err := term.Validate(p, 1, domain.UnitDays, decimal.NewFromInt(1)); err != nil {
		t.Fatalf("unconstrained product rejected: %v", err)
	}
}
