package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/lifecycle"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func submitted() *domain.Account {
	return &domain.Account{
		ID:          "acc-1",
		Kind:        domain.KindSavings,
		Status:      domain.StatusSubmitted,
		SubmittedOn: day(2025, 1, 1),
	}
}

func expectInvalidState(t *testing.T, err error) {
	t.Helper()
	var invalid *domain.ErrInvalidState
	if !errors.As(err, &invalid) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestApprove_FromSubmittedOnly(t *testing.T) {
	acc := submitted()
	if err := lifecycle.Approve(acc, day(2025, 1, 5)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !acc.Status.IsApproved() {
		t.Fatalf("expected approved, got %s", acc.Status)
	}
	expectInvalidState(t, lifecycle.Approve(acc, day(2025, 1, 6)))
}

func TestUndoApproval_ReturnsToSubmitted(t *testing.T) {
	acc := submitted()
	if err := lifecycle.Approve(acc, day(2025, 1, 5)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := lifecycle.UndoApproval(acc); err != nil {
		t.Fatalf("undo approval: %v", err)
	}
	if !acc.Status.IsSubmitted() || !acc.ApprovedOn.IsZero() {
		t.Fatalf("undo did not restore submitted state")
	}
}

func TestUndoApproval_NotAfterActivation(t *testing.T) {
	acc := submitted()
	lifecycle.Approve(acc, day(2025, 1, 5))
	lifecycle.Activate(acc, day(2025, 1, 10))
	expectInvalidState(t, lifecycle.UndoApproval(acc))
}

func TestRejectAndWithdraw_AreTerminal(t *testing.T) {
	acc := submitted()
	if err := lifecycle.Reject(acc, day(2025, 1, 5)); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if !acc.Status.IsTerminal() {
		t.Fatal("rejected not terminal")
	}
	expectInvalidState(t, lifecycle.Approve(acc, day(2025, 1, 6)))

	acc2 := submitted()
	if err := lifecycle.WithdrawApplication(acc2, day(2025, 1, 5)); err != nil {
		t.Fatalf("withdraw application: %v", err)
	}
	if !acc2.Status.IsTerminal() {
		t.Fatal("withdrawn not terminal")
	}
}

func TestApprove_BeforeSubmissionDateRejected(t *testing.T) {
	acc := submitted()

	err := lifecycle.Approve(acc, day(2024, 12, 20))
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !acc.Status.IsSubmitted() || !acc.ApprovedOn.IsZero() {
		t.Fatal("rejected approval mutated the account")
	}
}

func TestActivate_BeforeApprovalDateRejected(t *testing.T) {
	acc := submitted()
	lifecycle.Approve(acc, day(2025, 1, 10))

	err := lifecycle.Activate(acc, day(2025, 1, 5))
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestActivate_FixesDepositMaturityDate(t *testing.T) {
	acc := submitted()
	acc.Kind = domain.KindFixedDeposit
	acc.Deposit = &domain.DepositTerms{
		DepositAmount: decimal.NewFromInt(10000),
		Period:        12,
		PeriodUnit:    domain.UnitMonths,
	}
	lifecycle.Approve(acc, day(2025, 1, 5))

	if err := lifecycle.Activate(acc, day(2025, 1, 10)); err != nil {
		t.Fatalf("activate: %v", err)
	}
	want := day(2026, 1, 10)
	if !acc.Deposit.MaturityDate.Equal(want) {
		t.Fatalf("expected maturity %s, got %s", want, acc.Deposit.MaturityDate)
	}
}

func TestClose_RejectsResidualBalanceOrHolds(t *testing.T) {
	acc := submitted()
	lifecycle.Approve(acc, day(2025, 1, 5))
	lifecycle.Activate(acc, day(2025, 1, 10))
	acc.Balance = decimal.NewFromInt(50)

	err := lifecycle.Close(acc, day(2025, 2, 1))
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for residual balance, got %v", err)
	}

	// Balance on hold also blocks closure even though available is zero.
	acc.Holds = []*domain.Hold{{ID: "h1", Amount: decimal.NewFromInt(50)}}
	err = lifecycle.Close(acc, day(2025, 2, 1))
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for held funds, got %v", err)
	}

	acc.Balance = decimal.Zero
	acc.Holds = nil
	if err := lifecycle.Close(acc, day(2025, 2, 1)); err != nil {
		t.Fatalf("close with zero balance: %v", err)
	}
	if !acc.Status.IsClosed() {
		t.Fatalf("expected closed, got %s", acc.Status)
	}
}

func TestMature_RequiresDepositAndDate(t *testing.T) {
	acc := submitted()
	acc.Kind = domain.KindFixedDeposit
	acc.Deposit = &domain.DepositTerms{Period: 12, PeriodUnit: domain.UnitMonths}
	lifecycle.Approve(acc, day(2025, 1, 5))
	lifecycle.Activate(acc, day(2025, 1, 10))

	err := lifecycle.Mature(acc, day(2025, 6, 1))
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error before maturity, got %v", err)
	}

	if err := lifecycle.Mature(acc, day(2026, 1, 10)); err != nil {
		t.Fatalf("mature on maturity date: %v", err)
	}
	if !acc.Status.IsMatured() {
		t.Fatalf("expected matured, got %s", acc.Status)
	}
}

func TestMature_SavingsRejected(t *testing.T) {
	acc := submitted()
	lifecycle.Approve(acc, day(2025, 1, 5))
	lifecycle.Activate(acc, day(2025, 1, 10))
	expectInvalidState(t, lifecycle.Mature(acc, day(2026, 1, 10)))
}

func TestUpdateSubStatus_Ladder(t *testing.T) {
	product := &domain.Product{
		DaysToInactive: 30,
		DaysToDormancy: 90,
		DaysToEscheat:  365,
	}
	acc := submitted()
	lifecycle.Approve(acc, day(2025, 1, 1))
	lifecycle.Activate(acc, day(2025, 1, 1))

	cases := []struct {
		asOf time.Time
		want domain.AccountSubStatus
	}{
		{day(2025, 1, 15), domain.SubStatusNone},
		{day(2025, 1, 31), domain.SubStatusInactive},
		{day(2025, 4, 1), domain.SubStatusDormant},
		{day(2026, 1, 1), domain.SubStatusEscheat},
	}
	for _, tc := range cases {
		got, _ := lifecycle.UpdateSubStatus(acc, product, tc.asOf)
		if got != tc.want {
			t.Errorf("asOf %s: expected %s, got %s", tc.asOf.Format("2006-01-02"), tc.want, got)
		}
	}
}

func TestUpdateSubStatus_ForwardOnly(t *testing.T) {
	product := &domain.Product{DaysToInactive: 30, DaysToDormancy: 90, DaysToEscheat: 365}
	acc := submitted()
	lifecycle.Approve(acc, day(2025, 1, 1))
	lifecycle.Activate(acc, day(2025, 1, 1))
	acc.SubStatus = domain.SubStatusDormant

	// An earlier as-of date never walks the ladder backwards.
	got, changed := lifecycle.UpdateSubStatus(acc, product, day(2025, 2, 15))
	if changed || got != domain.SubStatusDormant {
		t.Fatalf("sweep moved backwards: %s (changed=%v)", got, changed)
	}
}

func TestUpdateSubStatus_SkipsDepositsAndDisabled(t *testing.T) {
	product := &domain.Product{DaysToInactive: 30, DaysToDormancy: 90, DaysToEscheat: 365}

	dep := submitted()
	dep.Kind = domain.KindFixedDeposit
	dep.Deposit = &domain.DepositTerms{Period: 12, PeriodUnit: domain.UnitMonths}
	lifecycle.Approve(dep, day(2025, 1, 1))
	lifecycle.Activate(dep, day(2025, 1, 1))

	if _, changed := lifecycle.UpdateSubStatus(dep, product, day(2026, 1, 1)); changed {
		t.Fatal("deposit account swept")
	}

	// All thresholds zero disables the ladder.
	sav := submitted()
	lifecycle.Approve(sav, day(2025, 1, 1))
	lifecycle.Activate(sav, day(2025, 1, 1))
	if _, changed := lifecycle.UpdateSubStatus(sav, &domain.Product{}, day(2030, 1, 1)); changed {
		t.Fatal("disabled ladder swept")
	}
}
