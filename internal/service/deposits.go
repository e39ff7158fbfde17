package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/closure"
	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ledger"
	"github.com/abreu/savings-core-go/internal/lifecycle"
)

// ============================================================
// Closure and maturity
// ============================================================

// Close performs a regular closure of a savings account. The available
// balance must be zero; with withdrawBalance set, residual available funds
// are paid out first. Unreleased holds block closure either way.
func (s *Service) Close(ctx context.Context, accountID string, on time.Time, withdrawBalance bool) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.Close")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("close", start, err) }()

	var payoutTx *domain.Transaction
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		if withdrawBalance {
			if available := acc.AvailableBalance(); available.IsPositive() {
				tx, perr := ledger.New(acc).Payout(available, on)
				if perr != nil {
					return perr
				}
				payoutTx = tx
			}
		}
		return lifecycle.Close(acc, on)
	})
	if err != nil {
		return nil, err
	}
	if payoutTx != nil {
		s.metrics.IncrTransaction(payoutTx.Type.String())
		s.publish(ctx, acc, payoutTx)
	}
	s.logger.Info("account closed",
		zap.String("account_id", accountID),
		zap.Bool("balance_withdrawn", payoutTx != nil),
	)
	return acc, nil
}

// Mature flips a deposit account whose maturity date has arrived, posting
// the earned interest and recording the maturity amount.
func (s *Service) Mature(ctx context.Context, accountID string, on time.Time) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.Mature")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("mature", start, err) }()

	var interestTx *domain.Transaction
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, product *domain.Product) error {
		result, cerr := closure.ComputeMaturity(acc, product)
		if cerr != nil {
			return cerr
		}
		if lerr := lifecycle.Mature(acc, on); lerr != nil {
			return lerr
		}
		// Interest already posted over the term stays; only the remainder
		// of the whole-term amount is posted at maturity.
		due := result.Interest.Sub(acc.Summary.TotalInterestPosted)
		if due.IsPositive() {
			tx, perr := ledger.New(acc).Post(domain.TxInterestPosting, due, acc.Deposit.MaturityDate, nil)
			if perr != nil {
				return perr
			}
			interestTx = tx
		}
		acc.Deposit.MaturityAmount = acc.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	if interestTx != nil {
		s.metrics.IncrTransaction(interestTx.Type.String())
		s.publish(ctx, acc, interestTx)
	}
	s.logger.Info("account matured",
		zap.String("account_id", accountID),
		zap.String("maturity_amount", acc.Deposit.MaturityAmount.String()),
	)
	return acc, nil
}

// PrematureClose closes a deposit account before its maturity date. The
// payout is computed at the penal-reduced rate, posted as interest, and
// disposed of by withdrawal or transfer to a savings account. Reinvestment
// is rejected.
func (s *Service) PrematureClose(ctx context.Context, accountID string, req *domain.ClosureRequest) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.PrematureClose")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("premature_close", start, err) }()

	if err = closure.ValidateDisposition(req.Closure, true, req.TransferAccountID); err != nil {
		return nil, err
	}
	return s.closeDeposit(ctx, accountID, req, true)
}

// CloseMatured disposes of a matured deposit account: withdraw the
// proceeds, transfer them to a savings account, or reinvest them into a
// successor deposit on the same terms.
func (s *Service) CloseMatured(ctx context.Context, accountID string, req *domain.ClosureRequest) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.CloseMatured")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))
	start := time.Now()
	defer func() { s.observe("close_matured", start, err) }()

	if err = closure.ValidateDisposition(req.Closure, false, req.TransferAccountID); err != nil {
		return nil, err
	}
	if req.Closure.IsReinvest() {
		return s.reinvest(ctx, accountID, req.Date)
	}
	return s.closeDeposit(ctx, accountID, req, false)
}

// closeDeposit runs the shared premature/matured closure flow under the
// account lock (and the target's, in ascending ID order, for transfers).
func (s *Service) closeDeposit(ctx context.Context, accountID string, req *domain.ClosureRequest, premature bool) (*domain.Account, error) {
	var unlock func()
	transfer := req.Closure.IsTransferToSavings()
	if transfer {
		unlock = s.lockPair(accountID, req.TransferAccountID)
	} else {
		unlock = s.lock(accountID)
	}
	defer unlock()

	stored, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	product, err := s.product(ctx, stored.ProductID)
	if err != nil {
		return nil, err
	}
	acc := stored.Copy()

	var target *domain.Account
	if transfer {
		targetStored, terr := s.accounts.GetAccount(ctx, req.TransferAccountID)
		if terr != nil {
			return nil, terr
		}
		target = targetStored.Copy()
		if verr := validateTransferTarget(acc, target); verr != nil {
			return nil, verr
		}
	}

	led := ledger.New(acc)
	var posted []*domain.Transaction

	if premature {
		result, cerr := closure.ComputePremature(acc, product, req.Date)
		if cerr != nil {
			return nil, cerr
		}
		due := result.Interest.Sub(acc.Summary.TotalInterestPosted)
		if due.IsPositive() {
			tx, perr := led.Post(domain.TxInterestPosting, due, req.Date, nil)
			if perr != nil {
				return nil, perr
			}
			posted = append(posted, tx)
		}
	} else if !acc.Status.IsMatured() {
		return nil, &domain.ErrInvalidState{Op: "close matured", Status: acc.Status}
	}

	payout := acc.AvailableBalance()
	if payout.IsPositive() {
		out, perr := led.Payout(payout, req.Date)
		if perr != nil {
			return nil, perr
		}
		posted = append(posted, out)

		if transfer {
			in, derr := ledger.New(target).Post(domain.TxDeposit, payout, req.Date, nil)
			if derr != nil {
				return nil, derr
			}
			out.RefID, in.RefID = in.ID, out.ID
			posted = append(posted, in)
		}
	}

	if premature {
		if err := lifecycle.MarkPrematurelyClosed(acc, req.Date); err != nil {
			return nil, err
		}
	} else {
		if err := lifecycle.Close(acc, req.Date); err != nil {
			return nil, err
		}
	}

	if err := s.accounts.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	if transfer {
		if err := s.accounts.SaveAccount(ctx, target); err != nil {
			s.logger.Error("closure transfer target save failed after source commit",
				zap.String("account_id", acc.ID),
				zap.String("target_account_id", target.ID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	for _, tx := range posted {
		s.metrics.IncrTransaction(tx.Type.String())
		owner := acc
		if transfer && tx.Type == domain.TxDeposit {
			owner = target
		}
		s.publish(ctx, owner, tx)
	}
	s.logger.Info("deposit account closed",
		zap.String("account_id", acc.ID),
		zap.Bool("premature", premature),
		zap.String("disposition", req.Closure.String()),
		zap.String("payout", payout.String()),
	)
	return acc, nil
}

// reinvest closes a matured account and opens an active successor deposit
// on the same terms, funded with the full proceeds.
func (s *Service) reinvest(ctx context.Context, accountID string, on time.Time) (*domain.Account, error) {
	unlock := s.lock(accountID)
	defer unlock()

	stored, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	acc := stored.Copy()
	if !acc.Status.IsMatured() {
		return nil, &domain.ErrInvalidState{Op: "reinvest", Status: acc.Status}
	}

	led := ledger.New(acc)
	payout := acc.AvailableBalance()
	if !payout.IsPositive() {
		var errs domain.ValidationErrors
		errs.Add("balance", "reinvest.nothing.to.reinvest",
			"matured account has no proceeds to reinvest")
		return nil, errs
	}
	out, err := led.Payout(payout, on)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Close(acc, on); err != nil {
		return nil, err
	}

	successor := newSuccessor(acc, payout, on)
	in, err := ledger.New(successor).Post(domain.TxDeposit, payout, on, nil)
	if err != nil {
		return nil, err
	}
	out.RefID, in.RefID = in.ID, out.ID

	if err := s.accounts.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	if err := s.accounts.CreateAccount(ctx, successor); err != nil {
		s.logger.Error("reinvest successor create failed after source commit",
			zap.String("account_id", acc.ID),
			zap.String("successor_id", successor.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncrTransaction(out.Type.String())
	s.metrics.IncrTransaction(in.Type.String())
	s.publish(ctx, acc, out)
	s.publish(ctx, successor, in)
	s.logger.Info("deposit reinvested",
		zap.String("account_id", acc.ID),
		zap.String("successor_id", successor.ID),
		zap.String("amount", payout.String()),
	)
	return successor, nil
}

// newSuccessor builds the reinvestment account: same owner, product and
// term, active immediately with a fresh maturity window.
func newSuccessor(acc *domain.Account, payout decimal.Decimal, on time.Time) *domain.Account {
	dep := *acc.Deposit
	dep.DepositAmount = payout
	dep.MaturityDate = time.Time{}
	dep.MaturityAmount = decimal.Zero

	successor := &domain.Account{
		ID:                uuid.NewString(),
		AccountNo:         newAccountNo(acc.Kind),
		ClientID:          acc.ClientID,
		GroupID:           acc.GroupID,
		ProductID:         acc.ProductID,
		Currency:          acc.Currency,
		Kind:              acc.Kind,
		Status:            domain.StatusActive,
		SubmittedOn:       domain.Day(on),
		ApprovedOn:        domain.Day(on),
		ActivatedOn:       domain.Day(on),
		LockinPeriod:      acc.LockinPeriod,
		LockinUnit:        acc.LockinUnit,
		NominalAnnualRate: acc.NominalAnnualRate,
		ClientAttrs:       acc.ClientAttrs,
		Deposit:           &dep,
		LastActivityOn:    domain.Day(on),
	}
	successor.Deposit.ResolveMaturityDate(on)
	return successor
}

// validateTransferTarget checks the closure-transfer destination: an active
// savings account in the same currency, held by the same owner.
func validateTransferTarget(acc, target *domain.Account) error {
	var errs domain.ValidationErrors
	if !target.Status.IsActive() {
		return &domain.ErrInvalidState{Op: "receive closure transfer", Status: target.Status}
	}
	if target.Kind.IsDeposit() {
		errs.Add("transferAccountId", "transfer.target.not.savings",
			"closure proceeds can only be transferred to a savings account")
	}
	if target.Currency != acc.Currency {
		errs.Add("transferAccountId", "transfer.currency.mismatch",
			"target account uses a different currency")
	}
	if target.ClientID != acc.ClientID || target.GroupID != acc.GroupID {
		errs.Add("transferAccountId", "transfer.target.different.owner",
			"target account belongs to a different client")
	}
	return errs.AsError()
}
