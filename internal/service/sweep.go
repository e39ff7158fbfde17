package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ledger"
	"github.com/abreu/savings-core-go/internal/lifecycle"
)

// ============================================================
// Inactivity sweep
// ============================================================

// SweepInactivity walks the active savings accounts and advances their
// inactivity sub-state (inactive, dormant, escheat) from the product
// thresholds. Returns the number of accounts whose sub-state changed.
func (s *Service) SweepInactivity(ctx context.Context, asOf time.Time) (changed int, err error) {
	ctx, span := tracer.Start(ctx, "Service.SweepInactivity")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("sweep_inactivity", start, err) }()

	active, err := s.accounts.ListAccountsByStatus(ctx, domain.StatusActive)
	if err != nil {
		return 0, err
	}

	for _, candidate := range active {
		var next domain.AccountSubStatus
		var moved bool
		_, uerr := s.withAccount(ctx, candidate.ID, func(acc *domain.Account, product *domain.Product) error {
			next, moved = lifecycle.UpdateSubStatus(acc, product, asOf)
			return nil
		})
		if uerr != nil {
			s.logger.Warn("inactivity sweep skipped account",
				zap.String("account_id", candidate.ID),
				zap.Error(uerr),
			)
			continue
		}
		if moved {
			changed++
			s.metrics.IncrSubStatusChange(next.String())
			s.logger.Info("sub-status advanced",
				zap.String("account_id", candidate.ID),
				zap.String("sub_status", next.String()),
			)
		}
	}
	return changed, nil
}

// Escheat turns over the full balance of an escheated account to the state:
// the remaining funds leave through an escheat entry and the account closes.
func (s *Service) Escheat(ctx context.Context, accountID string, on time.Time) (tx *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.Escheat")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("escheat", start, err) }()

	var acc *domain.Account
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		if !acc.SubStatus.IsEscheat() {
			return &domain.ErrInvalidState{Op: "escheat", Status: acc.Status}
		}
		balance := acc.AvailableBalance()
		if balance.IsPositive() {
			var perr error
			tx, perr = ledger.New(acc).Post(domain.TxEscheat, balance, on, nil)
			if perr != nil {
				return perr
			}
		}
		return lifecycle.Close(acc, on)
	})
	if err != nil {
		return nil, err
	}

	if tx != nil {
		s.metrics.IncrTransaction(tx.Type.String())
		s.publish(ctx, acc, tx)
	}
	s.logger.Info("account escheated", zap.String("account_id", accountID))
	return tx, nil
}
