package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/charge"
	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/ledger"
	"github.com/abreu/savings-core-go/internal/lifecycle"
	"github.com/abreu/savings-core-go/internal/term"
)

// ============================================================
// Applications
// ============================================================

// SubmitApplication validates an application against the product and stores
// the new account in the submitted state. Validation problems are
// accumulated and returned as one batch.
func (s *Service) SubmitApplication(ctx context.Context, req *domain.ApplicationRequest) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.SubmitApplication")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", req.ProductID))
	start := time.Now()
	defer func() { s.observe("submit_application", start, err) }()

	var errs domain.ValidationErrors
	if (req.ClientID == "") == (req.GroupID == "") {
		errs.Add("clientId", "owner.not.exclusive",
			"exactly one of clientId or groupId must be provided")
	}
	if req.ProductID == "" {
		errs.Add("productId", "product.required", "productId is required")
	}
	if e := errs.AsError(); e != nil {
		return nil, e
	}

	product, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	acc, err = buildAccount(req, product)
	if err != nil {
		return nil, err
	}

	if err = s.accounts.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	s.logger.Info("application submitted",
		zap.String("account_id", acc.ID),
		zap.String("account_no", acc.AccountNo),
		zap.String("product_id", product.ID),
		zap.String("kind", acc.Kind.String()),
	)
	return acc, nil
}

// ModifyApplication replaces the mutable application fields while the
// account is still submitted. The same validation as submission applies.
func (s *Service) ModifyApplication(ctx context.Context, accountID string, req *domain.ApplicationRequest) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.ModifyApplication")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("modify_application", start, err) }()

	return s.withAccount(ctx, accountID, func(acc *domain.Account, product *domain.Product) error {
		if !acc.Status.IsSubmitted() {
			return &domain.ErrInvalidState{Op: "modify application", Status: acc.Status}
		}
		if req.ClientID != "" && req.GroupID != "" {
			var errs domain.ValidationErrors
			errs.Add("clientId", "owner.not.exclusive",
				"exactly one of clientId or groupId must be provided")
			return errs
		}
		if req.ClientID != "" {
			acc.ClientID, acc.GroupID = req.ClientID, ""
		}
		if req.GroupID != "" {
			acc.GroupID, acc.ClientID = req.GroupID, ""
		}
		acc.ClientAttrs = req.ClientAttrs
		if req.Deposit != nil {
			if !acc.Kind.IsDeposit() {
				var errs domain.ValidationErrors
				errs.Add("deposit", "deposit.terms.not.applicable",
					"deposit terms are only valid for deposit products")
				return errs
			}
			if err := term.Validate(product, req.Deposit.Period, req.Deposit.PeriodUnit, req.Deposit.Amount); err != nil {
				return err
			}
			applyDepositTerms(acc, req.Deposit, product)
		}
		return nil
	})
}

// Approve moves a submitted application to approved.
func (s *Service) Approve(ctx context.Context, accountID string, on time.Time) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.Approve")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("approve", start, err) }()

	return s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		return lifecycle.Approve(acc, on)
	})
}

// UndoApproval returns an approved application to submitted.
func (s *Service) UndoApproval(ctx context.Context, accountID string) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.UndoApproval")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("undo_approval", start, err) }()

	return s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		return lifecycle.UndoApproval(acc)
	})
}

// Reject terminates a submitted application.
func (s *Service) Reject(ctx context.Context, accountID string, on time.Time) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.Reject")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("reject", start, err) }()

	return s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		return lifecycle.Reject(acc, on)
	})
}

// WithdrawApplication terminates a submitted application at the applicant's
// request.
func (s *Service) WithdrawApplication(ctx context.Context, accountID string, on time.Time) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.WithdrawApplication")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("withdraw_application", start, err) }()

	return s.withAccount(ctx, accountID, func(acc *domain.Account, _ *domain.Product) error {
		return lifecycle.WithdrawApplication(acc, on)
	})
}

// Activate opens an approved account. An optional initial deposit is posted
// as the first ledger entry, then activation charges are assessed against it
// and collected.
func (s *Service) Activate(ctx context.Context, accountID string, on time.Time, initial *domain.TransactionRequest) (acc *domain.Account, err error) {
	ctx, span := tracer.Start(ctx, "Service.Activate")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("activate", start, err) }()

	var posted []*domain.Transaction
	acc, err = s.withAccount(ctx, accountID, func(acc *domain.Account, product *domain.Product) error {
		if err := lifecycle.Activate(acc, on); err != nil {
			return err
		}

		led := ledger.New(acc)
		if initial != nil && initial.Amount.IsPositive() {
			tx, err := led.Post(domain.TxDeposit, initial.Amount, on, initial.Channel)
			if err != nil {
				return err
			}
			posted = append(posted, tx)
		}

		if product.MinRequiredOpeningBalance.IsPositive() &&
			acc.Balance.LessThan(product.MinRequiredOpeningBalance) {
			var errs domain.ValidationErrors
			errs.Add("openingBalance", "opening.balance.below.minimum",
				"opening balance is below the product minimum")
			return errs
		}

		for _, c := range charge.Assess(acc, domain.ChargeOnActivation, acc.Balance, on) {
			tx, err := led.CollectCharge(c, c.Outstanding(), on)
			if err != nil {
				return err
			}
			posted = append(posted, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, tx := range posted {
		s.metrics.IncrTransaction(tx.Type.String())
		s.publish(ctx, acc, tx)
	}
	s.logger.Info("account activated",
		zap.String("account_id", acc.ID),
		zap.Time("activated_on", acc.ActivatedOn),
	)
	return acc, nil
}

// buildAccount assembles the submitted account from the request and the
// product defaults.
func buildAccount(req *domain.ApplicationRequest, product *domain.Product) (*domain.Account, error) {
	acc := &domain.Account{
		ID:                uuid.NewString(),
		AccountNo:         newAccountNo(product.Kind),
		ClientID:          req.ClientID,
		GroupID:           req.GroupID,
		ProductID:         product.ID,
		Currency:          product.Currency,
		Kind:              product.Kind,
		Status:            domain.StatusSubmitted,
		SubmittedOn:       domain.Day(req.SubmittedOn),
		LockinPeriod:      product.LockinPeriod,
		LockinUnit:        product.LockinUnit,
		AllowOverdraft:    product.AllowOverdraft,
		OverdraftLimit:    product.OverdraftLimit,
		NominalAnnualRate: product.NominalAnnualRate,
		ClientAttrs:       req.ClientAttrs,
	}

	if product.Kind.IsDeposit() {
		if req.Deposit == nil {
			var errs domain.ValidationErrors
			errs.Add("deposit", "deposit.terms.required",
				"deposit products require deposit terms")
			return nil, errs
		}
		if err := term.Validate(product, req.Deposit.Period, req.Deposit.PeriodUnit, req.Deposit.Amount); err != nil {
			return nil, err
		}
		applyDepositTerms(acc, req.Deposit, product)
	} else if req.Deposit != nil {
		var errs domain.ValidationErrors
		errs.Add("deposit", "deposit.terms.not.applicable",
			"deposit terms are only valid for deposit products")
		return nil, errs
	}

	for _, def := range product.Charges {
		if _, err := charge.Attach(acc, def, acc.SubmittedOn); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// applyDepositTerms sets the deposit extension, pulling penalty defaults
// from the product.
func applyDepositTerms(acc *domain.Account, req *domain.DepositTermsRequest, product *domain.Product) {
	acc.Deposit = &domain.DepositTerms{
		DepositAmount:     req.Amount,
		Period:            req.Period,
		PeriodUnit:        req.PeriodUnit,
		PenalApplicable:   product.PenalApplicable,
		PenalRate:         product.PenalRate,
		PenalOn:           product.PenalOn,
		OnClosure:         req.OnClosure,
		TransferAccountID: req.TransferAccountID,
		RecurringAmount:   req.RecurringAmount,
	}
}

// newAccountNo derives a human-facing account number with a kind prefix.
func newAccountNo(kind domain.AccountKind) string {
	prefix := "SA"
	switch kind {
	case domain.KindFixedDeposit:
		prefix = "FD"
	case domain.KindRecurringDeposit:
		prefix = "RD"
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:10])
}
