package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ledger"
)

// ============================================================
// Money movement
// ============================================================

// Deposit posts a deposit transaction.
func (s *Service) Deposit(ctx context.Context, accountID string, req *domain.TransactionRequest) (tx *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.Deposit")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("deposit", start, err) }()

	var acc *domain.Account
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		var perr error
		tx, perr = ledger.New(acc).Post(domain.TxDeposit, req.Amount, req.Date, req.Channel)
		return perr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrTransaction(tx.Type.String())
	s.publish(ctx, acc, tx)
	s.logger.Info("deposit posted",
		zap.String("account_id", accountID),
		zap.String("transaction_id", tx.ID),
		zap.String("amount", req.Amount.String()),
	)
	return tx, nil
}

// Withdraw posts a withdrawal, collecting the account's on-withdrawal
// charges alongside it.
func (s *Service) Withdraw(ctx context.Context, accountID string, req *domain.TransactionRequest) (tx *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.Withdraw")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("withdraw", start, err) }()

	var acc *domain.Account
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		var perr error
		tx, perr = ledger.New(acc).Withdraw(req.Amount, req.Date, req.Channel, true)
		return perr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrTransaction(tx.Type.String())
	s.publish(ctx, acc, tx)
	s.logger.Info("withdrawal posted",
		zap.String("account_id", accountID),
		zap.String("transaction_id", tx.ID),
		zap.String("amount", req.Amount.String()),
	)
	return tx, nil
}

// Reverse undoes a posted transaction: the original is excluded from the
// balance derivation and an offsetting reversal entry is recorded.
// Reversing twice fails.
func (s *Service) Reverse(ctx context.Context, accountID, transactionID string) (rev *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.Reverse")
	defer span.End()
	span.SetAttributes(
		attribute.String("account.id", accountID),
		attribute.String("transaction.id", transactionID),
	)
	start := time.Now()
	defer func() { s.observe("reverse", start, err) }()

	var acc *domain.Account
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		var perr error
		rev, perr = ledger.New(acc).Reverse(transactionID)
		return perr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrReversal()
	s.publish(ctx, acc, rev)
	s.logger.Info("transaction reversed",
		zap.String("account_id", accountID),
		zap.String("transaction_id", transactionID),
		zap.String("reversal_id", rev.ID),
	)
	return rev, nil
}

// HoldAmount earmarks funds against the available balance.
func (s *Service) HoldAmount(ctx context.Context, accountID string, req *domain.TransactionRequest) (hold *domain.Hold, err error) {
	ctx, span := tracer.Start(ctx, "Service.HoldAmount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("hold_amount", start, err) }()

	_, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		var perr error
		hold, perr = ledger.New(acc).HoldAmount(req.Amount, req.Date)
		return perr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrTransaction(domain.TxAmountHold.String())
	s.logger.Info("amount held",
		zap.String("account_id", accountID),
		zap.String("hold_id", hold.ID),
		zap.String("amount", req.Amount.String()),
	)
	return hold, nil
}

// ReleaseHold releases a hold exactly once.
func (s *Service) ReleaseHold(ctx context.Context, accountID, holdID string, on time.Time) (tx *domain.Transaction, err error) {
	ctx, span := tracer.Start(ctx, "Service.ReleaseHold")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("release_hold", start, err) }()

	_, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		var perr error
		tx, perr = ledger.New(acc).ReleaseHold(holdID, on)
		return perr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrTransaction(domain.TxAmountRelease.String())
	s.logger.Info("hold released",
		zap.String("account_id", accountID),
		zap.String("hold_id", holdID),
	)
	return tx, nil
}

// Transfer moves funds between two accounts in the core: a withdrawal on
// the source and a deposit on the destination, cross-linked through
// transfer marker entries. Both accounts are locked in ascending ID order
// for the whole unit of work.
func (s *Service) Transfer(ctx context.Context, req *domain.TransferRequest) (err error) {
	ctx, span := tracer.Start(ctx, "Service.Transfer")
	defer span.End()
	span.SetAttributes(
		attribute.String("account.from", req.FromAccountID),
		attribute.String("account.to", req.ToAccountID),
	)
	start := time.Now()
	defer func() { s.observe("transfer", start, err) }()

	if req.FromAccountID == req.ToAccountID {
		var errs domain.ValidationErrors
		errs.Add("toAccountId", "transfer.to.self", "cannot transfer to the same account")
		return errs
	}

	unlock := s.lockPair(req.FromAccountID, req.ToAccountID)
	defer unlock()

	fromStored, err := s.accounts.GetAccount(ctx, req.FromAccountID)
	if err != nil {
		return err
	}
	toStored, err := s.accounts.GetAccount(ctx, req.ToAccountID)
	if err != nil {
		return err
	}
	if fromStored.Currency != toStored.Currency {
		var errs domain.ValidationErrors
		errs.Add("toAccountId", "transfer.currency.mismatch",
			"both accounts must share a currency")
		return errs
	}

	from, to := fromStored.Copy(), toStored.Copy()

	fromLedger, toLedger := ledger.New(from), ledger.New(to)
	out, err := fromLedger.Post(domain.TxWithdrawal, req.Amount, req.Date, nil)
	if err != nil {
		return err
	}
	in, err := toLedger.Post(domain.TxDeposit, req.Amount, req.Date, nil)
	if err != nil {
		return err
	}
	out.RefID, in.RefID = in.ID, out.ID

	markOut, err := fromLedger.Post(domain.TxTransferInitiate, req.Amount, req.Date, nil)
	if err != nil {
		return err
	}
	markOut.RefID = out.ID
	markIn, err := toLedger.Post(domain.TxTransferApprove, req.Amount, req.Date, nil)
	if err != nil {
		return err
	}
	markIn.RefID = in.ID

	if err := s.accounts.SaveAccount(ctx, from); err != nil {
		return err
	}
	if err := s.accounts.SaveAccount(ctx, to); err != nil {
		// The source leg is already persisted; this needs operator
		// attention, so log with both transaction IDs before failing.
		s.logger.Error("transfer destination save failed after source commit",
			zap.String("from_account_id", from.ID),
			zap.String("to_account_id", to.ID),
			zap.String("withdrawal_id", out.ID),
			zap.String("deposit_id", in.ID),
			zap.Error(err),
		)
		return err
	}

	s.metrics.IncrTransaction(domain.TxWithdrawal.String())
	s.metrics.IncrTransaction(domain.TxDeposit.String())
	s.publish(ctx, from, out)
	s.publish(ctx, to, in)
	s.logger.Info("transfer completed",
		zap.String("from_account_id", from.ID),
		zap.String("to_account_id", to.ID),
		zap.String("amount", req.Amount.String()),
	)
	return nil
}
