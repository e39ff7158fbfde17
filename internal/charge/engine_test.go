package charge_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/charge"
	"github.com/abreu/savings-core-go/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAttach_RejectsSecondAnnualFee(t *testing.T) {
	acc := &domain.Account{ID: "acc-1"}
	annual := domain.ChargeDefinition{
		ID: "def-annual", Name: "annual fee", Time: domain.ChargeAnnual,
		Amount: decimal.NewFromInt(20), FeeOnMonth: time.January, FeeOnDay: 1,
	}

	if _, err := charge.Attach(acc, annual, time.Time{}); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	_, err := charge.Attach(acc, annual, time.Time{})
	var combo *domain.ErrInvalidChargeCombination
	if !errors.As(err, &combo) {
		t.Fatalf("expected invalid charge combination, got %v", err)
	}
}

func TestAttach_FlatOneTimeDueImmediately(t *testing.T) {
	acc := &domain.Account{ID: "acc-1"}
	def := domain.ChargeDefinition{
		ID: "def-1", Name: "setup fee", Time: domain.ChargeOneTime,
		Calculation: domain.CalcFlat, Amount: decimal.NewFromInt(15),
	}

	inst, err := charge.Attach(acc, def, day(2025, 3, 1))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if got := inst.Outstanding().String(); got != "15" {
		t.Fatalf("expected outstanding 15 at attach, got %s", got)
	}
}

func TestAssess_PercentageWithdrawalFee(t *testing.T) {
	acc := &domain.Account{ID: "acc-1", Charges: []*domain.ChargeInstance{{
		ID: "chg-1", Time: domain.ChargeOnWithdrawal,
		Calculation: domain.CalcPercentOfAmount,
		Percentage:  decimal.RequireFromString("1.5"),
		Active:      true,
	}}}

	due := charge.Assess(acc, domain.ChargeOnWithdrawal, decimal.NewFromInt(200), day(2025, 3, 1))
	if len(due) != 1 {
		t.Fatalf("expected 1 due charge, got %d", len(due))
	}
	if got := due[0].Outstanding().String(); got != "3" {
		t.Fatalf("expected fee 3 (1.5%% of 200), got %s", got)
	}
}

func TestAssess_WithdrawalFeeRecursPerWithdrawal(t *testing.T) {
	c := &domain.ChargeInstance{
		ID: "chg-1", Time: domain.ChargeOnWithdrawal,
		Calculation: domain.CalcFlat, Amount: decimal.NewFromInt(5), Active: true,
	}
	acc := &domain.Account{ID: "acc-1", Charges: []*domain.ChargeInstance{c}}

	charge.Assess(acc, domain.ChargeOnWithdrawal, decimal.NewFromInt(100), day(2025, 3, 1))
	if err := charge.Pay(c, c.Outstanding(), day(2025, 3, 1)); err != nil {
		t.Fatalf("pay: %v", err)
	}

	// The next withdrawal makes the fee due again.
	due := charge.Assess(acc, domain.ChargeOnWithdrawal, decimal.NewFromInt(100), day(2025, 3, 5))
	if len(due) != 1 {
		t.Fatalf("expected fee due again, got %d", len(due))
	}
	if got := c.Outstanding().String(); got != "5" {
		t.Fatalf("expected outstanding 5 on second cycle, got %s", got)
	}
}

func TestAssess_AnnualFeeOncePerYear(t *testing.T) {
	c := &domain.ChargeInstance{
		ID: "chg-1", Time: domain.ChargeAnnual,
		Calculation: domain.CalcFlat, Amount: decimal.NewFromInt(20),
		FeeOnMonth: time.June, FeeOnDay: 1, Active: true,
	}
	acc := &domain.Account{ID: "acc-1", Charges: []*domain.ChargeInstance{c}}

	// Before the fee month-day nothing is due.
	if due := charge.Assess(acc, domain.ChargeAnnual, decimal.Zero, day(2025, 5, 31)); len(due) != 0 {
		t.Fatalf("fee due before month-day")
	}

	if due := charge.Assess(acc, domain.ChargeAnnual, decimal.Zero, day(2025, 6, 1)); len(due) != 1 {
		t.Fatalf("fee not due on month-day")
	}

	// Same year, already assessed.
	if due := charge.Assess(acc, domain.ChargeAnnual, decimal.Zero, day(2025, 9, 1)); len(due) != 0 {
		t.Fatalf("fee assessed twice in one year")
	}

	// Next year it recurs.
	if due := charge.Assess(acc, domain.ChargeAnnual, decimal.Zero, day(2026, 6, 1)); len(due) != 1 {
		t.Fatalf("fee not due the following year")
	}
	if got := c.Outstanding().String(); got != "40" {
		t.Fatalf("expected outstanding 40 after two unpaid cycles, got %s", got)
	}
}

func TestAssess_PeriodicInterval(t *testing.T) {
	c := &domain.ChargeInstance{
		ID: "chg-1", Time: domain.ChargePeriodic,
		Calculation: domain.CalcFlat, Amount: decimal.NewFromInt(10),
		IntervalMonths: 3, Active: true,
	}
	acc := &domain.Account{ID: "acc-1", Charges: []*domain.ChargeInstance{c}}

	if due := charge.Assess(acc, domain.ChargePeriodic, decimal.Zero, day(2025, 1, 15)); len(due) != 1 {
		t.Fatal("first periodic assessment not due")
	}
	if due := charge.Assess(acc, domain.ChargePeriodic, decimal.Zero, day(2025, 3, 15)); len(due) != 0 {
		t.Fatal("periodic fee due before the interval elapsed")
	}
	if due := charge.Assess(acc, domain.ChargePeriodic, decimal.Zero, day(2025, 4, 15)); len(due) != 1 {
		t.Fatal("periodic fee not due after the interval")
	}
}

func TestPay_OverpaymentRejected(t *testing.T) {
	c := &domain.ChargeInstance{
		ID: "chg-1", Time: domain.ChargeOneTime,
		Calculation: domain.CalcFlat,
		Amount:      decimal.NewFromInt(10), AmountAccrued: decimal.NewFromInt(10),
		Active: true,
	}

	err := charge.Pay(c, decimal.NewFromInt(15), day(2025, 3, 1))
	var over *domain.ErrOverpayment
	if !errors.As(err, &over) {
		t.Fatalf("expected overpayment error, got %v", err)
	}
	if !c.AmountPaid.IsZero() {
		t.Fatalf("payment recorded despite rejection: %s", c.AmountPaid)
	}
}

func TestPay_PartialThenFullDeactivatesOneTime(t *testing.T) {
	c := &domain.ChargeInstance{
		ID: "chg-1", Time: domain.ChargeOneTime,
		Calculation: domain.CalcFlat,
		Amount:      decimal.NewFromInt(10), AmountAccrued: decimal.NewFromInt(10),
		Active: true,
	}

	if err := charge.Pay(c, decimal.NewFromInt(4), day(2025, 3, 1)); err != nil {
		t.Fatalf("partial pay: %v", err)
	}
	if !c.Active {
		t.Fatal("charge deactivated while outstanding remains")
	}
	if err := charge.Pay(c, decimal.NewFromInt(6), day(2025, 3, 2)); err != nil {
		t.Fatalf("final pay: %v", err)
	}
	if c.Active {
		t.Fatal("one-time charge still active after full payment")
	}
}

func TestWaive_ClearsOutstanding(t *testing.T) {
	c := &domain.ChargeInstance{
		ID: "chg-1", Time: domain.ChargeOneTime,
		Calculation: domain.CalcFlat,
		Amount:      decimal.NewFromInt(10), AmountAccrued: decimal.NewFromInt(10),
		Active: true,
	}

	waived := charge.Waive(c)
	if waived.String() != "10" {
		t.Fatalf("expected waived 10, got %s", waived)
	}
	if !c.IsFullyPaid() {
		t.Fatal("outstanding remains after waiver")
	}
}
