package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/closure"
	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ledger"
)

// ============================================================
// Interest posting
// ============================================================

// PostInterest accrues interest on the account balance from the last
// interest posting (or activation) up to asOf and posts it as a ledger
// entry. Accounts that earn nothing over the window post nothing.
func (s *Service) PostInterest(ctx context.Context, accountID string, asOf time.Time) (tx *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.PostInterest")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("post_interest", start, err) }()

	var acc *domain.Account
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, product *domain.Product) error {
		if !acc.Status.IsActive() {
			return &domain.ErrInvalidState{Op: "post interest", Status: acc.Status}
		}
		from := lastInterestPosting(acc)
		if from.IsZero() {
			from = domain.Day(acc.ActivatedOn)
		}
		to := domain.Day(asOf)
		if !to.After(from) {
			return nil
		}
		if !acc.Balance.IsPositive() {
			return nil
		}

		rate, rerr := closure.LookupRate(acc, product, from, to, acc.Balance)
		if rerr != nil {
			return rerr
		}
		interest := closure.Accrue(acc.Balance, rate, from, to, product.Compounding, product.InterestDaysInYear())
		if !interest.IsPositive() {
			return nil
		}

		var perr error
		tx, perr = ledger.New(acc).Post(domain.TxInterestPosting, interest, to, nil)
		return perr
	})
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}

	s.metrics.IncrTransaction(tx.Type.String())
	s.publish(ctx, acc, tx)
	s.logger.Info("interest posted",
		zap.String("account_id", accountID),
		zap.String("amount", tx.Amount.String()),
	)
	return tx, nil
}

// lastInterestPosting returns the date of the latest effective interest
// posting, or the zero time.
func lastInterestPosting(acc *domain.Account) time.Time {
	var last time.Time
	for _, tx := range acc.Transactions {
		if tx.Type == domain.TxInterestPosting && !tx.Reversed && !tx.IsReversal && tx.Date.After(last) {
			last = tx.Date
		}
	}
	return last
}
