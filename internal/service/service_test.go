package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/infra/cache"
	"github.com/abreu/savings-core-go/internal/infra/memstore"
	"github.com/abreu/savings-core-go/internal/infra/observability"
	"github.com/abreu/savings-core-go/internal/service"
)

// --- Mocks ---

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.PostingEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event domain.PostingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// --- Fixtures ---

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func savingsProduct() *domain.Product {
	return &domain.Product{
		ID:                "sav-prod",
		Name:              "Regular Savings",
		Currency:          "USD",
		Kind:              domain.KindSavings,
		NominalAnnualRate: decimal.NewFromInt(4),
		Compounding:       domain.CompoundNone,
		DaysToInactive:    30,
		DaysToDormancy:    90,
		DaysToEscheat:     365,
	}
}

func depositProduct() *domain.Product {
	min := decimal.NewFromInt(1000)
	return &domain.Product{
		ID:                "fd-prod",
		Name:              "Fixed Deposit",
		Currency:          "USD",
		Kind:              domain.KindFixedDeposit,
		MinTerm:           6,
		MaxTerm:           60,
		TermUnits:         []domain.PeriodUnit{domain.UnitMonths},
		MinDepositAmount:  &min,
		NominalAnnualRate: decimal.NewFromInt(5),
		Compounding:       domain.CompoundNone,
		PenalApplicable:   true,
		PenalRate:         decimal.NewFromInt(1),
		PenalOn:           domain.PenalWholeTerm,
	}
}

func newService(t *testing.T, products ...*domain.Product) (*service.Service, *memstore.Store, *mockPublisher) {
	t.Helper()
	store := memstore.New()
	for _, p := range products {
		if err := store.CreateProduct(context.Background(), p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	pub := &mockPublisher{}
	svc := service.New(store, store, pub,
		cache.New[*domain.Product](5*time.Minute),
		observability.NewMetrics(), zap.NewNop())
	return svc, store, pub
}

func openSavings(t *testing.T, svc *service.Service, initial string) *domain.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := svc.SubmitApplication(ctx, &domain.ApplicationRequest{
		ClientID:    "client-1",
		ProductID:   "sav-prod",
		SubmittedOn: day(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Approve(ctx, acc.ID, day(2025, 1, 2)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	var dep *domain.TransactionRequest
	if initial != "" {
		dep = &domain.TransactionRequest{Amount: decimal.RequireFromString(initial), Date: day(2025, 1, 3)}
	}
	acc, err = svc.Activate(ctx, acc.ID, day(2025, 1, 3), dep)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	return acc
}

func openDeposit(t *testing.T, svc *service.Service, amount string, months int) *domain.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := svc.SubmitApplication(ctx, &domain.ApplicationRequest{
		ClientID:    "client-1",
		ProductID:   "fd-prod",
		SubmittedOn: day(2025, 1, 1),
		Deposit: &domain.DepositTermsRequest{
			Amount:     decimal.RequireFromString(amount),
			Period:     months,
			PeriodUnit: domain.UnitMonths,
		},
	})
	if err != nil {
		t.Fatalf("submit deposit: %v", err)
	}
	if _, err := svc.Approve(ctx, acc.ID, day(2025, 1, 2)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	acc, err = svc.Activate(ctx, acc.ID, day(2025, 1, 3), &domain.TransactionRequest{
		Amount: decimal.RequireFromString(amount), Date: day(2025, 1, 3),
	})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	return acc
}

// --- Tests ---

func TestSubmitApplication_OwnerExclusivity(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	cases := []struct {
		name     string
		clientID string
		groupID  string
	}{
		{"neither", "", ""},
		{"both", "client-1", "group-1"},
	}
	for _, tc := range cases {
		_, err := svc.SubmitApplication(ctx, &domain.ApplicationRequest{
			ClientID: tc.clientID, GroupID: tc.groupID, ProductID: "sav-prod",
			SubmittedOn: day(2025, 1, 1),
		})
		var validation domain.ValidationErrors
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestSubmitApplication_DepositTermValidation(t *testing.T) {
	svc, _, _ := newService(t, depositProduct())
	ctx := context.Background()

	// Term below minimum and amount below minimum come back together.
	_, err := svc.SubmitApplication(ctx, &domain.ApplicationRequest{
		ClientID: "client-1", ProductID: "fd-prod", SubmittedOn: day(2025, 1, 1),
		Deposit: &domain.DepositTermsRequest{
			Amount: decimal.NewFromInt(500), Period: 3, PeriodUnit: domain.UnitMonths,
		},
	})
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(validation) != 2 {
		t.Fatalf("expected 2 accumulated violations, got %d: %v", len(validation), validation)
	}
}

func TestFullSavingsFlow(t *testing.T) {
	svc, _, pub := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "1000")
	if !acc.Status.IsActive() {
		t.Fatalf("expected active, got %s", acc.Status)
	}
	if got := acc.Balance.String(); got != "1000" {
		t.Fatalf("expected balance 1000 after initial deposit, got %s", got)
	}

	if _, err := svc.Deposit(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(500), Date: day(2025, 2, 1),
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := svc.Withdraw(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(200), Date: day(2025, 2, 10),
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	got, err := svc.GetAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance.String() != "1300" {
		t.Fatalf("expected balance 1300, got %s", got.Balance)
	}
	if got.Summary.TotalDeposits.String() != "1500" {
		t.Errorf("expected total deposits 1500, got %s", got.Summary.TotalDeposits)
	}
	if pub.count() != 3 {
		t.Errorf("expected 3 posting events, got %d", pub.count())
	}
}

func TestWithdraw_FailedUnitOfWorkLeavesStoreUntouched(t *testing.T) {
	svc, store, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "100")
	_, err := svc.Withdraw(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(500), Date: day(2025, 2, 1),
	})
	var insufficient *domain.ErrInsufficientFunds
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	stored, err := store.GetAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Transactions) != 1 {
		t.Fatalf("rejected withdrawal persisted: %d transactions", len(stored.Transactions))
	}
}

func TestReverse_PersistsCascade(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "1000")
	tx, err := svc.Deposit(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(500), Date: day(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}

	if _, err := svc.Reverse(ctx, acc.ID, tx.ID); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	got, _ := svc.GetAccount(ctx, acc.ID)
	if got.Balance.String() != "1000" {
		t.Fatalf("expected balance 1000 after reversal, got %s", got.Balance)
	}

	_, err = svc.Reverse(ctx, acc.ID, tx.ID)
	var already *domain.ErrAlreadyReversed
	if !errors.As(err, &already) {
		t.Fatalf("expected already-reversed, got %v", err)
	}
}

func TestTransfer_MovesFundsAtomically(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	from := openSavings(t, svc, "1000")
	to := openSavings(t, svc, "")

	err := svc.Transfer(ctx, &domain.TransferRequest{
		FromAccountID: from.ID, ToAccountID: to.ID,
		Amount: decimal.NewFromInt(300), Date: day(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	fromAfter, _ := svc.GetAccount(ctx, from.ID)
	toAfter, _ := svc.GetAccount(ctx, to.ID)
	if fromAfter.Balance.String() != "700" {
		t.Errorf("expected source balance 700, got %s", fromAfter.Balance)
	}
	if toAfter.Balance.String() != "300" {
		t.Errorf("expected destination balance 300, got %s", toAfter.Balance)
	}
}

func TestTransfer_ToSelfRejected(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	acc := openSavings(t, svc, "1000")

	err := svc.Transfer(context.Background(), &domain.TransferRequest{
		FromAccountID: acc.ID, ToAccountID: acc.ID,
		Amount: decimal.NewFromInt(100), Date: day(2025, 2, 1),
	})
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHoldAndRelease(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "1000")
	hold, err := svc.HoldAmount(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(400), Date: day(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("hold: %v", err)
	}

	got, _ := svc.GetAccount(ctx, acc.ID)
	if got.AvailableBalance().String() != "600" {
		t.Fatalf("expected available 600, got %s", got.AvailableBalance())
	}

	if _, err := svc.ReleaseHold(ctx, acc.ID, hold.ID, day(2025, 2, 5)); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, _ = svc.GetAccount(ctx, acc.ID)
	if got.AvailableBalance().String() != "1000" {
		t.Fatalf("expected available 1000 after release, got %s", got.AvailableBalance())
	}
}

func TestPostInterest_AccruesOnBalance(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "10000")
	tx, err := svc.PostInterest(ctx, acc.ID, day(2026, 1, 3))
	if err != nil {
		t.Fatalf("post interest: %v", err)
	}
	if tx == nil {
		t.Fatal("expected interest transaction")
	}
	// 10000 at 4% over a full 365-day year.
	if tx.Amount.String() != "400" {
		t.Errorf("expected interest 400, got %s", tx.Amount)
	}

	// Posting again for the same window earns nothing.
	again, err := svc.PostInterest(ctx, acc.ID, day(2026, 1, 3))
	if err != nil {
		t.Fatalf("second post: %v", err)
	}
	if again != nil {
		t.Fatalf("expected no interest on empty window, posted %s", again.Amount)
	}
}

func TestMatureAndCloseWithdraw(t *testing.T) {
	svc, _, _ := newService(t, depositProduct())
	ctx := context.Background()

	acc := openDeposit(t, svc, "10000", 12)

	// Too early.
	if _, err := svc.Mature(ctx, acc.ID, day(2025, 6, 1)); err == nil {
		t.Fatal("matured before the maturity date")
	}

	matured, err := svc.Mature(ctx, acc.ID, day(2026, 1, 3))
	if err != nil {
		t.Fatalf("mature: %v", err)
	}
	if !matured.Status.IsMatured() {
		t.Fatalf("expected matured, got %s", matured.Status)
	}
	if !matured.Deposit.MaturityAmount.GreaterThan(decimal.NewFromInt(10000)) {
		t.Fatalf("maturity amount %s does not include interest", matured.Deposit.MaturityAmount)
	}

	closed, err := svc.CloseMatured(ctx, acc.ID, &domain.ClosureRequest{
		Date: day(2026, 1, 4), Closure: domain.ClosureWithdraw,
	})
	if err != nil {
		t.Fatalf("close matured: %v", err)
	}
	if !closed.Status.IsClosed() || !closed.Balance.IsZero() {
		t.Fatalf("expected closed with zero balance, got %s / %s", closed.Status, closed.Balance)
	}
}

func TestPrematureClose_PenalizedPayout(t *testing.T) {
	svc, _, _ := newService(t, depositProduct())
	ctx := context.Background()

	acc := openDeposit(t, svc, "10000", 12)

	closed, err := svc.PrematureClose(ctx, acc.ID, &domain.ClosureRequest{
		Date: day(2025, 7, 3), Closure: domain.ClosureWithdraw,
	})
	if err != nil {
		t.Fatalf("premature close: %v", err)
	}
	if closed.Status != domain.StatusPrematurelyClosed {
		t.Fatalf("expected prematurely closed, got %s", closed.Status)
	}

	// Interest was posted at the penalized 4% for the elapsed 181 days.
	if closed.Summary.TotalInterestPosted.IsZero() {
		t.Fatal("no interest posted on premature closure")
	}
	full := decimal.NewFromInt(10000).Mul(decimal.NewFromInt(5)).Div(decimal.NewFromInt(100))
	if closed.Summary.TotalInterestPosted.GreaterThanOrEqual(full) {
		t.Fatalf("penalty not applied: interest %s", closed.Summary.TotalInterestPosted)
	}
}

func TestPrematureClose_ReinvestRejected(t *testing.T) {
	svc, _, _ := newService(t, depositProduct())
	acc := openDeposit(t, svc, "10000", 12)

	_, err := svc.PrematureClose(context.Background(), acc.ID, &domain.ClosureRequest{
		Date: day(2025, 7, 3), Closure: domain.ClosureReinvest,
	})
	var reinvest *domain.ErrReinvestNotAllowed
	if !errors.As(err, &reinvest) {
		t.Fatalf("expected reinvest-not-allowed, got %v", err)
	}
}

func TestCloseMatured_TransferToSavings(t *testing.T) {
	svc, _, _ := newService(t, depositProduct(), savingsProduct())
	ctx := context.Background()

	target := openSavings(t, svc, "")
	acc := openDeposit(t, svc, "10000", 12)
	if _, err := svc.Mature(ctx, acc.ID, day(2026, 1, 3)); err != nil {
		t.Fatalf("mature: %v", err)
	}

	closed, err := svc.CloseMatured(ctx, acc.ID, &domain.ClosureRequest{
		Date: day(2026, 1, 4), Closure: domain.ClosureTransferToSavings,
		TransferAccountID: target.ID,
	})
	if err != nil {
		t.Fatalf("close matured with transfer: %v", err)
	}
	if !closed.Balance.IsZero() {
		t.Fatalf("source retains balance %s", closed.Balance)
	}

	got, _ := svc.GetAccount(ctx, target.ID)
	if !got.Balance.GreaterThan(decimal.NewFromInt(10000)) {
		t.Fatalf("proceeds with interest not transferred: %s", got.Balance)
	}
}

func TestCloseMatured_Reinvest(t *testing.T) {
	svc, _, _ := newService(t, depositProduct())
	ctx := context.Background()

	acc := openDeposit(t, svc, "10000", 12)
	if _, err := svc.Mature(ctx, acc.ID, day(2026, 1, 3)); err != nil {
		t.Fatalf("mature: %v", err)
	}

	successor, err := svc.CloseMatured(ctx, acc.ID, &domain.ClosureRequest{
		Date: day(2026, 1, 4), Closure: domain.ClosureReinvest,
	})
	if err != nil {
		t.Fatalf("reinvest: %v", err)
	}
	if successor.ID == acc.ID {
		t.Fatal("reinvest did not open a successor account")
	}
	if !successor.Status.IsActive() {
		t.Fatalf("successor not active: %s", successor.Status)
	}
	if !successor.Deposit.DepositAmount.GreaterThan(decimal.NewFromInt(10000)) {
		t.Fatalf("successor principal %s does not carry the proceeds", successor.Deposit.DepositAmount)
	}

	old, _ := svc.GetAccount(ctx, acc.ID)
	if !old.Status.IsClosed() {
		t.Fatalf("original not closed after reinvest: %s", old.Status)
	}
}

func TestSweepInactivity_AdvancesLadder(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "100")

	changed, err := svc.SweepInactivity(ctx, day(2025, 6, 1))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 account changed, got %d", changed)
	}
	got, _ := svc.GetAccount(ctx, acc.ID)
	if got.SubStatus != domain.SubStatusDormant {
		t.Fatalf("expected dormant after 149 idle days, got %s", got.SubStatus)
	}

	// A deposit reactivates the account.
	if _, err := svc.Deposit(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(10), Date: day(2025, 6, 2),
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	got, _ = svc.GetAccount(ctx, acc.ID)
	if got.SubStatus != domain.SubStatusNone {
		t.Fatalf("expected sub-status reset, got %s", got.SubStatus)
	}
}

func TestEscheat_SweepsBalanceAndCloses(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "100")
	if _, err := svc.SweepInactivity(ctx, day(2026, 2, 1)); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	got, _ := svc.GetAccount(ctx, acc.ID)
	if !got.SubStatus.IsEscheat() {
		t.Fatalf("expected escheat sub-status, got %s", got.SubStatus)
	}

	tx, err := svc.Escheat(ctx, acc.ID, day(2026, 2, 2))
	if err != nil {
		t.Fatalf("escheat: %v", err)
	}
	if tx.Type != domain.TxEscheat {
		t.Fatalf("expected escheat transaction, got %s", tx.Type)
	}
	got, _ = svc.GetAccount(ctx, acc.ID)
	if !got.Status.IsClosed() || !got.Balance.IsZero() {
		t.Fatalf("expected closed with zero balance, got %s / %s", got.Status, got.Balance)
	}
}

func TestPublishFailure_DoesNotFailOperation(t *testing.T) {
	svc, _, pub := newService(t, savingsProduct())
	pub.err = errors.New("gl unavailable")
	ctx := context.Background()

	acc := openSavings(t, svc, "1000")
	if _, err := svc.Deposit(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(50), Date: day(2025, 2, 1),
	}); err != nil {
		t.Fatalf("deposit failed on publisher error: %v", err)
	}
	got, _ := svc.GetAccount(ctx, acc.ID)
	if got.Balance.String() != "1050" {
		t.Fatalf("expected balance 1050, got %s", got.Balance)
	}
}

func TestMetrics_CountPostedTransactions(t *testing.T) {
	store := memstore.New()
	if err := store.CreateProduct(context.Background(), savingsProduct()); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	metrics := observability.NewMetrics()
	svc := service.New(store, store, nil,
		cache.New[*domain.Product](5*time.Minute), metrics, zap.NewNop())
	ctx := context.Background()

	acc := openSavings(t, svc, "1000")
	if _, err := svc.Deposit(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(500), Date: day(2025, 2, 1),
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := svc.Withdraw(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(200), Date: day(2025, 2, 10),
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if got := metrics.TransactionsPosted(domain.TxDeposit.String()); got != 2 {
		t.Errorf("expected 2 deposits counted, got %v", got)
	}
	if got := metrics.TransactionsPosted(domain.TxWithdrawal.String()); got != 1 {
		t.Errorf("expected 1 withdrawal counted, got %v", got)
	}
}

func TestClose_WithdrawBalanceFlag(t *testing.T) {
	svc, _, _ := newService(t, savingsProduct())
	ctx := context.Background()

	acc := openSavings(t, svc, "300")

	// Residual funds block a plain closure.
	_, err := svc.Close(ctx, acc.ID, day(2025, 2, 1), false)
	var validation domain.ValidationErrors
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for residual balance, got %v", err)
	}

	// Held funds block closure even when the balance is withdrawn.
	hold, err := svc.HoldAmount(ctx, acc.ID, &domain.TransactionRequest{
		Amount: decimal.NewFromInt(100), Date: day(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if _, err := svc.Close(ctx, acc.ID, day(2025, 2, 2), true); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for held funds, got %v", err)
	}
	if _, err := svc.ReleaseHold(ctx, acc.ID, hold.ID, day(2025, 2, 3)); err != nil {
		t.Fatalf("release: %v", err)
	}

	closed, err := svc.Close(ctx, acc.ID, day(2025, 2, 4), true)
	if err != nil {
		t.Fatalf("close with withdraw balance: %v", err)
	}
	if !closed.Status.IsClosed() || !closed.Balance.IsZero() {
		t.Fatalf("expected closed with zero balance, got %s / %s", closed.Status, closed.Balance)
	}
	if closed.Summary.TotalWithdrawals.String() != "300" {
		t.Fatalf("expected residual balance paid out, got withdrawals %s", closed.Summary.TotalWithdrawals)
	}
}

func TestMature_NetsAlreadyPostedInterest(t *testing.T) {
	svc, _, _ := newService(t, depositProduct())
	ctx := context.Background()

	acc := openDeposit(t, svc, "10000", 12)

	// Interim posting halfway through the term.
	interim, err := svc.PostInterest(ctx, acc.ID, day(2025, 7, 3))
	if err != nil {
		t.Fatalf("post interest: %v", err)
	}
	if interim == nil {
		t.Fatal("expected an interim interest transaction")
	}

	matured, err := svc.Mature(ctx, acc.ID, day(2026, 1, 3))
	if err != nil {
		t.Fatalf("mature: %v", err)
	}
	// The whole-term entitlement is 500; the interim posting counts
	// toward it rather than on top of it.
	if matured.Summary.TotalInterestPosted.String() != "500" {
		t.Fatalf("expected total interest 500, got %s", matured.Summary.TotalInterestPosted)
	}
	if matured.Deposit.MaturityAmount.String() != "10500" {
		t.Fatalf("expected maturity amount 10500, got %s", matured.Deposit.MaturityAmount)
	}
}
