package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xtradata/internal/auth"
	"xtradata/internal/config"
	"xtradata/internal/middleware"
	"xtradata/internal/models"
	"xtradata/internal/services"
	"xtradata/internal/store"
	"xtradata/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (map[string]any, error)
	getByIDFn    func(ctx context.Context, userID string) (map[string]any, error)
	listAllFn    func(ctx context.Context, limit, offset int) ([]store.UserSummary, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	if s.getByEmailFn == nil {
		return nil, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (map[string]any, error) {
	if s.getByIDFn == nil {
		return nil, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) ListAll(ctx context.Context, limit, offset int) ([]store.UserSummary, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubCatalogStore struct {
	listAirtimeFn   func(ctx context.Context) ([]models.AirtimePlan, error)
	listDataFn      func(ctx context.Context) ([]models.DataPlan, error)
	createAirtimeFn func(ctx context.Context, tx store.Execer, id, network string, amount, price int64, discount int) error
	createDataFn    func(ctx context.Context, tx store.Execer, plan models.DataPlan) error
	deactivateFn    func(ctx context.Context, tx store.Execer, table, planID string) (int64, error)
}

func (s stubCatalogStore) ListAirtimePlans(ctx context.Context) ([]models.AirtimePlan, error) {
	if s.listAirtimeFn == nil {
		return nil, nil
	}
	return s.listAirtimeFn(ctx)
}

func (s stubCatalogStore) ListDataPlans(ctx context.Context) ([]models.DataPlan, error) {
	if s.listDataFn == nil {
		return nil, nil
	}
	return s.listDataFn(ctx)
}

func (s stubCatalogStore) CreateAirtimePlan(ctx context.Context, tx store.Execer, id, network string, amount, price int64, discount int) error {
	if s.createAirtimeFn == nil {
		return nil
	}
	return s.createAirtimeFn(ctx, tx, id, network, amount, price, discount)
}

func (s stubCatalogStore) CreateDataPlan(ctx context.Context, tx store.Execer, plan models.DataPlan) error {
	if s.createDataFn == nil {
		return nil
	}
	return s.createDataFn(ctx, tx, plan)
}

func (s stubCatalogStore) DeactivatePlan(ctx context.Context, tx store.Execer, table, planID string) (int64, error) {
	if s.deactivateFn == nil {
		return 1, nil
	}
	return s.deactivateFn(ctx, tx, table, planID)
}

type stubTransactionStore struct {
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]map[string]any, error)
	listAllFn    func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]map[string]any, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

func (s stubTransactionStore) ListAll(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubAdminStore struct {
	isAdminFn     func(ctx context.Context, userID string) (bool, bool, error)
	hasRoleFn     func(ctx context.Context, userID, role string) (bool, error)
	createAdminFn func(ctx context.Context, tx store.Execer, userID string, isSuper bool, createdBy *string) error
	grantRoleFn   func(ctx context.Context, tx store.Execer, adminUserID, role string) error
	hasAnyAdminFn func(ctx context.Context) (bool, error)
}

func (s stubAdminStore) IsAdmin(ctx context.Context, userID string) (bool, bool, error) {
	if s.isAdminFn == nil {
		return false, false, nil
	}
	return s.isAdminFn(ctx, userID)
}

func (s stubAdminStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	if s.hasRoleFn == nil {
		return false, nil
	}
	return s.hasRoleFn(ctx, userID, role)
}

func (s stubAdminStore) CreateAdmin(ctx context.Context, tx store.Execer, userID string, isSuper bool, createdBy *string) error {
	if s.createAdminFn == nil {
		return nil
	}
	return s.createAdminFn(ctx, tx, userID, isSuper, createdBy)
}

func (s stubAdminStore) GrantRole(ctx context.Context, tx store.Execer, adminUserID, role string) error {
	if s.grantRoleFn == nil {
		return nil
	}
	return s.grantRoleFn(ctx, tx, adminUserID, role)
}

func (s stubAdminStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	if s.hasAnyAdminFn == nil {
		return false, nil
	}
	return s.hasAnyAdminFn(ctx)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubWalletService struct {
	balanceFn         func(ctx context.Context, userID string) (int64, error)
	purchaseAirtimeFn func(ctx context.Context, req services.AirtimePurchaseRequest) (services.PurchaseResult, error)
	purchaseDataFn    func(ctx context.Context, req services.DataPurchaseRequest) (services.PurchaseResult, error)
	initiateFundingFn func(ctx context.Context, userID string, amount int64) (services.FundingInstructions, error)
	confirmFundingFn  func(ctx context.Context, userID string, amount int64) (int64, error)
	markFailedFn      func(ctx context.Context, actorID, transactionID string) error
	selfCheckFn       func(ctx context.Context, userID string) (services.SelfCheckReport, error)
}

func (s stubWalletService) Balance(ctx context.Context, userID string) (int64, error) {
	if s.balanceFn == nil {
		return 0, nil
	}
	return s.balanceFn(ctx, userID)
}

func (s stubWalletService) PurchaseAirtime(ctx context.Context, req services.AirtimePurchaseRequest) (services.PurchaseResult, error) {
	if s.purchaseAirtimeFn == nil {
		return services.PurchaseResult{}, nil
	}
	return s.purchaseAirtimeFn(ctx, req)
}

func (s stubWalletService) PurchaseData(ctx context.Context, req services.DataPurchaseRequest) (services.PurchaseResult, error) {
	if s.purchaseDataFn == nil {
		return services.PurchaseResult{}, nil
	}
	return s.purchaseDataFn(ctx, req)
}

func (s stubWalletService) InitiateFunding(ctx context.Context, userID string, amount int64) (services.FundingInstructions, error) {
	if s.initiateFundingFn == nil {
		return services.FundingInstructions{}, nil
	}
	return s.initiateFundingFn(ctx, userID, amount)
}

func (s stubWalletService) ConfirmFunding(ctx context.Context, userID string, amount int64) (int64, error) {
	if s.confirmFundingFn == nil {
		return 0, nil
	}
	return s.confirmFundingFn(ctx, userID, amount)
}

func (s stubWalletService) MarkFundingFailed(ctx context.Context, actorID, transactionID string) error {
	if s.markFailedFn == nil {
		return nil
	}
	return s.markFailedFn(ctx, actorID, transactionID)
}

func (s stubWalletService) SelfCheck(ctx context.Context, userID string) (services.SelfCheckReport, error) {
	if s.selfCheckFn == nil {
		return services.SelfCheckReport{}, nil
	}
	return s.selfCheckFn(ctx, userID)
}

func newTestHandler(txRunner fakeTxRunner, users UserStore, catalog CatalogStore, transactions TransactionStore, admin AdminStore, audit AuditStore, wallet WalletService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		Funding: config.FundingConfig{
			PaymentMethod: "OPAY",
			AccountNumber: "8168877628",
			BankName:      "OPAY",
			AccountName:   "ABOSEDE AJAYI",
		},
		DefaultAirtimeDiscount: 2,
	}
	return New(txRunner, cfg, users, catalog, transactions, admin, audit, wallet, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body io.Reader, userID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

func bodyContains(rr *httptest.ResponseRecorder, fragment string) bool {
	return strings.Contains(rr.Body.String(), fragment)
}
