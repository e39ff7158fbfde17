// Package charge computes one-time and periodic charges attached to an
// account: attachment rules, trigger-driven assessment, and payment/waiver
// accounting against the amount outstanding.
package charge

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abreu/savings-core-go/internal/domain"
)

// hundred is the divisor for percentage-based charge calculation.
var hundred = decimal.NewFromInt(100)

// Attach creates a charge instance on the account from a product charge
// definition. At most one active annual fee and one active withdrawal fee
// may exist per account.
func Attach(acc *domain.Account, def domain.ChargeDefinition, dueDate time.Time) (*domain.ChargeInstance, error) {
	if def.Time.IsAnnualFee() || def.Time.IsWithdrawalFee() {
		for _, existing := range acc.Charges {
			if existing.Active && existing.Time == def.Time {
				return nil, &domain.ErrInvalidChargeCombination{Category: def.Time}
			}
		}
	}

	inst := &domain.ChargeInstance{
		ID:             uuid.NewString(),
		DefinitionID:   def.ID,
		Name:           def.Name,
		Time:           def.Time,
		Calculation:    def.Calculation,
		Amount:         def.Amount,
		Percentage:     def.Percentage,
		DueDate:        domain.Day(dueDate),
		FeeOnMonth:     def.FeeOnMonth,
		FeeOnDay:       def.FeeOnDay,
		IntervalMonths: def.IntervalMonths,
		Penalty:        def.Penalty,
		Active:         true,
	}
	// Flat non-recurring charges are due from attachment; percentage ones
	// resolve their amount at assessment time.
	if !recurring(def.Time) && !def.Calculation.IsPercentage() {
		inst.AmountAccrued = def.Amount
	}
	acc.Charges = append(acc.Charges, inst)
	return inst, nil
}

// recurring reports whether the trigger makes a charge due more than once.
func recurring(t domain.ChargeTime) bool {
	return t.IsWithdrawalFee() || t.IsAnnualFee() || t == domain.ChargePeriodic
}

// Assess returns the account's charges due for the given trigger on date.
// Percentage-based charges resolve their amount against base (the account
// balance for time-driven triggers, the transaction amount for withdrawal
// fees) at assessment time.
func Assess(acc *domain.Account, trigger domain.ChargeTime, base decimal.Decimal, date time.Time) []*domain.ChargeInstance {
	date = domain.Day(date)
	var due []*domain.ChargeInstance
	for _, c := range acc.Charges {
		if !c.Active || c.Time != trigger {
			continue
		}
		switch trigger {
		case domain.ChargeAnnual:
			if !annualDue(c, date) {
				continue
			}
		case domain.ChargePeriodic:
			if !periodicDue(c, date) {
				continue
			}
		case domain.ChargeOneTime:
			if !c.DueDate.IsZero() && date.Before(c.DueDate) {
				continue
			}
			if !c.LastAssessedOn.IsZero() {
				continue
			}
		}
		occurrence := c.Amount
		if c.Calculation.IsPercentage() {
			occurrence = c.Percentage.Mul(base).Div(hundred).Round(2)
		}
		if recurring(trigger) {
			c.AmountAccrued = c.AmountAccrued.Add(occurrence)
		} else {
			c.AmountAccrued = occurrence
		}
		c.LastAssessedOn = date
		due = append(due, c)
	}
	return due
}

// annualDue reports whether an annual month-day fee is due: the configured
// month-day has been reached and the fee was not already assessed this year.
func annualDue(c *domain.ChargeInstance, date time.Time) bool {
	feeDate := domain.Date(date.Year(), c.FeeOnMonth, c.FeeOnDay)
	if date.Before(feeDate) {
		return false
	}
	return c.LastAssessedOn.IsZero() || c.LastAssessedOn.Year() < date.Year()
}

// periodicDue reports whether an every-N-months fee is due again.
func periodicDue(c *domain.ChargeInstance, date time.Time) bool {
	if c.IntervalMonths <= 0 {
		return false
	}
	if c.LastAssessedOn.IsZero() {
		return c.DueDate.IsZero() || !date.Before(c.DueDate)
	}
	next := c.LastAssessedOn.AddDate(0, c.IntervalMonths, 0)
	return !date.Before(next)
}

// Pay records a payment against the charge. Paying more than the amount
// outstanding is a financial-integrity error, never silently clamped.
func Pay(c *domain.ChargeInstance, amount decimal.Decimal, date time.Time) error {
	outstanding := c.Outstanding()
	if amount.GreaterThan(outstanding) {
		return &domain.ErrOverpayment{Outstanding: outstanding, Paid: amount}
	}
	c.AmountPaid = c.AmountPaid.Add(amount)
	if c.IsFullyPaid() && !c.Time.IsAnnualFee() && c.Time != domain.ChargePeriodic && !c.Time.IsWithdrawalFee() {
		c.Active = false
	}
	return nil
}

// Waive forgives the full amount outstanding and returns the waived amount.
func Waive(c *domain.ChargeInstance) decimal.Decimal {
	outstanding := c.Outstanding()
	c.AmountWaived = c.AmountWaived.Add(outstanding)
	return outstanding
}

// WriteOff writes off the full amount outstanding and returns the amount
// written off.
func WriteOff(c *domain.ChargeInstance) decimal.Decimal {
	outstanding := c.Outstanding()
	c.AmountWrittenOff = c.AmountWrittenOff.Add(outstanding)
	return outstanding
}
