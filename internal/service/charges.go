package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/charge"
	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ledger"
)

// ============================================================
// Charges
// ============================================================

// AttachCharge adds a charge to an account from a product charge
// definition. Exclusive categories (annual fee, withdrawal fee) admit one
// active instance per account.
func (s *Service) AttachCharge(ctx context.Context, accountID, definitionID string, dueDate time.Time) (inst *domain.ChargeInstance, err error) {
	ctx, span := tracer.Start(ctx, "Service.AttachCharge")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("attach_charge", start, err) }()

	_, err = s.withAccount(ctx, accountID, func(acc *domain.Account, product *domain.Product) error {
		if acc.Status.IsTerminal() {
			return &domain.ErrInvalidState{Op: "attach charge", Status: acc.Status}
		}
		var def *domain.ChargeDefinition
		for i := range product.Charges {
			if product.Charges[i].ID == definitionID {
				def = &product.Charges[i]
				break
			}
		}
		if def == nil {
			return &domain.ErrNotFound{Resource: "charge definition", ID: definitionID}
		}
		var aerr error
		inst, aerr = charge.Attach(acc, *def, dueDate)
		return aerr
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("charge attached",
		zap.String("account_id", accountID),
		zap.String("charge_id", inst.ID),
		zap.String("charge", inst.Name),
	)
	return inst, nil
}

// PayCharge collects a payment against a charge. Paying more than the
// amount outstanding is rejected, never clamped.
func (s *Service) PayCharge(ctx context.Context, accountID, chargeID string, amount decimal.Decimal, on time.Time) (tx *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.PayCharge")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("pay_charge", start, err) }()

	var acc *domain.Account
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		c := acc.FindCharge(chargeID)
		if c == nil {
			return &domain.ErrNotFound{Resource: "charge", ID: chargeID}
		}
		var perr error
		tx, perr = ledger.New(acc).CollectCharge(c, amount, on)
		return perr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrTransaction(tx.Type.String())
	s.publish(ctx, acc, tx)
	s.logger.Info("charge paid",
		zap.String("account_id", accountID),
		zap.String("charge_id", chargeID),
		zap.String("amount", amount.String()),
	)
	return tx, nil
}

// WaiveCharge forgives the full amount outstanding on a charge. No ledger
// entry is posted; the waiver lives on the charge record.
func (s *Service) WaiveCharge(ctx context.Context, accountID, chargeID string) (waived decimal.Decimal, err error) {
	ctx, span := tracer.Start(ctx, "Service.WaiveCharge")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("waive_charge", start, err) }()

	_, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		c := acc.FindCharge(chargeID)
		if c == nil {
			return &domain.ErrNotFound{Resource: "charge", ID: chargeID}
		}
		waived = charge.Waive(c)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("charge waived",
		zap.String("account_id", accountID),
		zap.String("charge_id", chargeID),
		zap.String("amount", waived.String()),
	)
	return waived, nil
}

// AssessFees runs the time-driven charge triggers (annual month-day fees and
// every-N-months fees) over all active accounts as of the given date,
// collecting what the available balance covers. Accounts that cannot cover
// a fee are skipped and logged; the sweep continues.
func (s *Service) AssessFees(ctx context.Context, asOf time.Time) (collected int, err error) {
	ctx, span := tracer.Start(ctx, "Service.AssessFees")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("assess_fees", start, err) }()

	active, err := s.accounts.ListAccountsByStatus(ctx, domain.StatusActive)
	if err != nil {
		return 0, err
	}

	for _, candidate := range active {
		n, ferr := s.assessAccountFees(ctx, candidate.ID, asOf)
		if ferr != nil {
			s.logger.Warn("fee assessment skipped",
				zap.String("account_id", candidate.ID),
				zap.Error(ferr),
			)
			continue
		}
		collected += n
	}
	return collected, nil
}

func (s *Service) assessAccountFees(ctx context.Context, accountID string, asOf time.Time) (int, error) {
	var posted []*domain.Transaction
	acc, err := s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		led := ledger.New(acc)
		due := charge.Assess(acc, domain.ChargeAnnual, acc.Balance, asOf)
		due = append(due, charge.Assess(acc, domain.ChargePeriodic, acc.Balance, asOf)...)
		for _, c := range due {
			tx, cerr := led.CollectCharge(c, c.Outstanding(), asOf)
			if cerr != nil {
				return cerr
			}
			posted = append(posted, tx)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, tx := range posted {
		s.metrics.IncrTransaction(tx.Type.String())
		s.publish(ctx, acc, tx)
	}
	return len(posted), nil
}
