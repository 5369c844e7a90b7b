package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"xtradata/internal/config"
	"xtradata/internal/models"
	"xtradata/internal/store"
	"xtradata/internal/websocket"

	"github.com/jmoiron/sqlx"
)

// fakeTxRunner serializes callbacks the way the row lock serializes real
// transactions. The *sqlx.Tx it passes is nil; the fake stores never
// touch it.
type fakeTxRunner struct {
	mu  sync.Mutex
	err error
}

func (r *fakeTxRunner) WithTx(_ context.Context, fn func(*sqlx.Tx) error) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(nil)
}

type fakeUsers struct {
	balance int64
	missing bool
}

func (f *fakeUsers) GetBalance(_ context.Context, _ string) (int64, error) {
	if f.missing {
		return 0, sql.ErrNoRows
	}
	return f.balance, nil
}

func (f *fakeUsers) GetForUpdate(_ context.Context, _ store.Getter, userID string) (store.Wallet, error) {
	if f.missing {
		return store.Wallet{}, sql.ErrNoRows
	}
	return store.Wallet{UserID: userID, Balance: f.balance}, nil
}

func (f *fakeUsers) UpdateBalance(_ context.Context, _ store.Execer, _ string, balance int64) error {
	f.balance = balance
	return nil
}

type fakeCatalog struct {
	discount    int
	discountErr error
	plan        models.DataPlan
	planErr     error
}

func (f *fakeCatalog) GetDataPlan(_ context.Context, _ string) (models.DataPlan, error) {
	return f.plan, f.planErr
}

func (f *fakeCatalog) GetAirtimeDiscount(_ context.Context, _ string, _ int64) (int, error) {
	return f.discount, f.discountErr
}

type fakeTransactions struct {
	created    []store.TransactionInput
	pendingID  string
	findErr    error
	settleRows int64
	settled    []string
	signedSum  int64
}

func (f *fakeTransactions) Create(_ context.Context, _ store.Execer, input store.TransactionInput) error {
	f.created = append(f.created, input)
	return nil
}

func (f *fakeTransactions) SettlePending(_ context.Context, _ store.Execer, transactionID, status string) (int64, error) {
	f.settled = append(f.settled, transactionID+":"+status)
	return f.settleRows, nil
}

func (f *fakeTransactions) FindPendingFunding(_ context.Context, _ store.Getter, _ string, _ int64) (string, error) {
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.pendingID, nil
}

func (f *fakeTransactions) SignedSumByUser(_ context.Context, _ string) (int64, error) {
	return f.signedSum, nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Log(_ context.Context, _ store.Execer, _, action, _, _, _ string) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeHub struct {
	mu      sync.Mutex
	updates []websocket.WalletUpdate
}

func (f *fakeHub) BroadcastWallet(_ string, update websocket.WalletUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
}

type walletFixture struct {
	service      *WalletService
	users        *fakeUsers
	catalog      *fakeCatalog
	transactions *fakeTransactions
	audit        *fakeAudit
	hub          *fakeHub
}

func newWalletFixture(balance int64) *walletFixture {
	f := &walletFixture{
		users:        &fakeUsers{balance: balance},
		catalog:      &fakeCatalog{},
		transactions: &fakeTransactions{},
		audit:        &fakeAudit{},
		hub:          &fakeHub{},
	}
	cfg := config.Config{
		Funding: config.FundingConfig{
			PaymentMethod: "OPAY",
			AccountNumber: "8168877628",
			BankName:      "OPAY",
			AccountName:   "ABOSEDE AJAYI",
		},
		DefaultAirtimeDiscount: 2,
	}
	f.service = NewWalletService(&fakeTxRunner{}, f.users, f.catalog, f.transactions, f.audit, f.hub, cfg)
	return f
}

func TestPurchaseAirtimeAppliesCatalogDiscount(t *testing.T) {
	f := newWalletFixture(200000)
	f.catalog.discount = 3

	result, err := f.service.PurchaseAirtime(context.Background(), AirtimePurchaseRequest{
		UserID:      "user-1",
		Network:     "MTN",
		PhoneNumber: "08012345678",
		AmountMinor: 100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AmountMinor != 97000 {
		t.Fatalf("1000 naira at 3%% should debit 97000 kobo, got %d", result.AmountMinor)
	}
	if result.NewBalance != 103000 || f.users.balance != 103000 {
		t.Fatalf("unexpected balance: result=%d stored=%d", result.NewBalance, f.users.balance)
	}
	if len(f.transactions.created) != 1 {
		t.Fatalf("expected one transaction, got %d", len(f.transactions.created))
	}
	tx := f.transactions.created[0]
	if tx.Type != models.TransactionTypeAirtime || tx.Status != models.TransactionStatusCompleted || tx.Amount != 97000 {
		t.Fatalf("unexpected transaction: %#v", tx)
	}
	if len(f.hub.updates) != 1 || f.hub.updates[0].Balance != "1030.00" {
		t.Fatalf("unexpected broadcast: %#v", f.hub.updates)
	}
}

func TestPurchaseAirtimeFallsBackToDefaultDiscount(t *testing.T) {
	f := newWalletFixture(200000)
	f.catalog.discountErr = sql.ErrNoRows

	result, err := f.service.PurchaseAirtime(context.Background(), AirtimePurchaseRequest{
		UserID:      "user-1",
		Network:     "Glo",
		PhoneNumber: "08012345678",
		AmountMinor: 100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AmountMinor != 98000 {
		t.Fatalf("expected the configured 2%% fallback, got %d kobo", result.AmountMinor)
	}
}

func TestPurchaseAirtimeBelowMinimum(t *testing.T) {
	f := newWalletFixture(200000)

	_, err := f.service.PurchaseAirtime(context.Background(), AirtimePurchaseRequest{
		UserID:      "user-1",
		Network:     "MTN",
		PhoneNumber: "08012345678",
		AmountMinor: 4900,
	})
	if !errors.Is(err, ErrBelowMinimumAirtime) {
		t.Fatalf("expected ErrBelowMinimumAirtime, got %v", err)
	}
	if len(f.transactions.created) != 0 || f.users.balance != 200000 {
		t.Fatal("rejected purchase must leave no trace")
	}
}

func TestPurchaseAirtimeInsufficientFunds(t *testing.T) {
	f := newWalletFixture(50000)

	_, err := f.service.PurchaseAirtime(context.Background(), AirtimePurchaseRequest{
		UserID:      "user-1",
		Network:     "MTN",
		PhoneNumber: "08012345678",
		AmountMinor: 100000,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if f.users.balance != 50000 {
		t.Fatalf("failed debit must not move the balance, got %d", f.users.balance)
	}
	if len(f.transactions.created) != 0 {
		t.Fatal("failed debit must not record a transaction")
	}
	if len(f.hub.updates) != 0 {
		t.Fatal("failed debit must not broadcast")
	}
}

func TestPurchaseDataDebitsExactCatalogPrice(t *testing.T) {
	f := newWalletFixture(100000)
	f.catalog.plan = models.DataPlan{
		ID:       "plan-1",
		Network:  "MTN",
		Category: "SME",
		Size:     "1GB",
		Price:    24000,
		Validity: "30 days",
	}

	result, err := f.service.PurchaseData(context.Background(), DataPurchaseRequest{
		UserID:      "user-1",
		PlanID:      "plan-1",
		PhoneNumber: "08012345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AmountMinor != 24000 || result.NewBalance != 76000 {
		t.Fatalf("unexpected result: %#v", result)
	}
	if result.Description != "MTN 1GB SME - 08012345678" {
		t.Fatalf("unexpected description: %s", result.Description)
	}
	if result.PlanSize != "1GB" {
		t.Fatalf("unexpected plan size: %s", result.PlanSize)
	}
}

func TestPurchaseDataUnknownPlan(t *testing.T) {
	f := newWalletFixture(100000)
	f.catalog.planErr = sql.ErrNoRows

	_, err := f.service.PurchaseData(context.Background(), DataPurchaseRequest{
		UserID:      "user-1",
		PlanID:      "missing",
		PhoneNumber: "08012345678",
	})
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
	if len(f.transactions.created) != 0 {
		t.Fatal("unknown plan must not record a transaction")
	}
}

func TestInitiateFundingLeavesBalanceUntouched(t *testing.T) {
	f := newWalletFixture(10000)

	instructions, err := f.service.InitiateFunding(context.Background(), "user-1", 500000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.users.balance != 10000 {
		t.Fatalf("initiation must not credit the wallet, got %d", f.users.balance)
	}
	if len(f.transactions.created) != 1 {
		t.Fatalf("expected one pending transaction, got %d", len(f.transactions.created))
	}
	tx := f.transactions.created[0]
	if tx.Status != models.TransactionStatusPending || tx.Type != models.TransactionTypeFunding || tx.Amount != 500000 {
		t.Fatalf("unexpected transaction: %#v", tx)
	}
	if instructions.AccountNumber != "8168877628" || instructions.AccountName != "ABOSEDE AJAYI" {
		t.Fatalf("unexpected instructions: %#v", instructions)
	}
	if instructions.TransactionID != tx.ID {
		t.Fatal("instructions must reference the pending transaction")
	}
}

func TestInitiateFundingBelowMinimum(t *testing.T) {
	f := newWalletFixture(0)

	_, err := f.service.InitiateFunding(context.Background(), "user-1", 99900)
	if !errors.Is(err, ErrBelowMinimumFunding) {
		t.Fatalf("expected ErrBelowMinimumFunding, got %v", err)
	}
	if len(f.transactions.created) != 0 {
		t.Fatal("rejected initiation must not record a transaction")
	}
}

func TestConfirmFundingSettlesPendingTransaction(t *testing.T) {
	f := newWalletFixture(10000)
	f.transactions.pendingID = "tx-pending"
	f.transactions.settleRows = 1

	newBalance, err := f.service.ConfirmFunding(context.Background(), "user-1", 500000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newBalance != 510000 || f.users.balance != 510000 {
		t.Fatalf("unexpected balance: %d", newBalance)
	}
	if len(f.transactions.settled) != 1 || f.transactions.settled[0] != "tx-pending:completed" {
		t.Fatalf("unexpected settle calls: %#v", f.transactions.settled)
	}
	if len(f.transactions.created) != 0 {
		t.Fatal("settling a pending row must not create a second transaction")
	}
	if len(f.hub.updates) != 1 || f.hub.updates[0].Reason != models.TransactionTypeFunding {
		t.Fatalf("unexpected broadcast: %#v", f.hub.updates)
	}
}

func TestConfirmFundingWithoutPendingRecordsCredit(t *testing.T) {
	f := newWalletFixture(0)
	f.transactions.findErr = sql.ErrNoRows

	newBalance, err := f.service.ConfirmFunding(context.Background(), "user-1", 500000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newBalance != 500000 {
		t.Fatalf("unexpected balance: %d", newBalance)
	}
	if len(f.transactions.created) != 1 {
		t.Fatalf("expected a standalone completed transaction, got %d", len(f.transactions.created))
	}
	tx := f.transactions.created[0]
	if tx.Status != models.TransactionStatusCompleted || tx.Amount != 500000 {
		t.Fatalf("unexpected transaction: %#v", tx)
	}
}

func TestMarkFundingFailedRequiresPendingRow(t *testing.T) {
	f := newWalletFixture(0)
	f.transactions.settleRows = 0

	err := f.service.MarkFundingFailed(context.Background(), "admin-1", "tx-1")
	if !errors.Is(err, ErrTransactionNotPending) {
		t.Fatalf("expected ErrTransactionNotPending, got %v", err)
	}

	f.transactions.settleRows = 1
	if err := f.service.MarkFundingFailed(context.Background(), "admin-1", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.users.balance != 0 {
		t.Fatal("failing a pending funding must not touch the wallet")
	}
}

func TestSelfCheckReportsDrift(t *testing.T) {
	f := newWalletFixture(97000)
	f.transactions.signedSum = 100000

	report, err := f.service.SelfCheck(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.StoredBalance != 97000 || report.LedgerSum != 100000 || report.Difference != -3000 {
		t.Fatalf("unexpected report: %#v", report)
	}
}

func TestCreditThenEqualDebitRestoresBalance(t *testing.T) {
	// A credit followed by a debit of the same amount must land the
	// wallet exactly where it started.
	f := newWalletFixture(7000)
	f.catalog.discount = 0
	f.transactions.findErr = sql.ErrNoRows

	newBalance, err := f.service.ConfirmFunding(context.Background(), "user-1", 100000)
	if err != nil {
		t.Fatalf("unexpected funding error: %v", err)
	}
	if newBalance != 107000 {
		t.Fatalf("unexpected balance after credit: %d", newBalance)
	}

	result, err := f.service.PurchaseAirtime(context.Background(), AirtimePurchaseRequest{
		UserID:      "user-1",
		Network:     "MTN",
		PhoneNumber: "08012345678",
		AmountMinor: 100000,
	})
	if err != nil {
		t.Fatalf("unexpected purchase error: %v", err)
	}
	if result.AmountMinor != 100000 {
		t.Fatalf("0%% discount must debit the full amount, got %d", result.AmountMinor)
	}
	if result.NewBalance != 7000 || f.users.balance != 7000 {
		t.Fatalf("balance must return to its starting point, got result=%d stored=%d", result.NewBalance, f.users.balance)
	}
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	// Balance of 100 naira, two concurrent 60 naira purchases: exactly
	// one must succeed and one must fail, never both.
	f := newWalletFixture(10000)
	f.catalog.discount = 0

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.PurchaseAirtime(context.Background(), AirtimePurchaseRequest{
				UserID:      "user-1",
				Network:     "MTN",
				PhoneNumber: "08012345678",
				AmountMinor: 6000,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var failures, successes int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientFunds):
			failures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || failures != 1 {
		t.Fatalf("expected exactly one success and one rejection, got %d/%d", successes, failures)
	}
	if f.users.balance != 4000 {
		t.Fatalf("unexpected final balance: %d", f.users.balance)
	}
}

func TestApplyDiscountRoundsHalfUp(t *testing.T) {
	cases := []struct {
		amount   int64
		discount int
		want     int64
	}{
		{100000, 3, 97000},
		{100000, 0, 100000},
		{100000, 2, 98000},
		{50, 3, 49},
		{99, 3, 96},
	}
	for _, tc := range cases {
		if got := applyDiscount(tc.amount, tc.discount); got != tc.want {
			t.Errorf("applyDiscount(%d, %d) = %d, want %d", tc.amount, tc.discount, got, tc.want)
		}
	}
}
