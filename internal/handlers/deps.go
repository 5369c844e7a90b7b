package handlers

import (
	"context"

	"xtradata/internal/models"
	"xtradata/internal/services"
	"xtradata/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (map[string]any, error)
	GetByID(ctx context.Context, userID string) (map[string]any, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.UserSummary, error)
}

type CatalogStore interface {
	ListAirtimePlans(ctx context.Context) ([]models.AirtimePlan, error)
	ListDataPlans(ctx context.Context) ([]models.DataPlan, error)
	CreateAirtimePlan(ctx context.Context, tx store.Execer, id, network string, amount, price int64, discount int) error
	CreateDataPlan(ctx context.Context, tx store.Execer, plan models.DataPlan) error
	DeactivatePlan(ctx context.Context, tx store.Execer, table, planID string) (int64, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]map[string]any, error)
	ListAll(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type AdminStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, bool, error)
	HasRole(ctx context.Context, userID, role string) (bool, error)
	CreateAdmin(ctx context.Context, tx store.Execer, userID string, isSuper bool, createdBy *string) error
	GrantRole(ctx context.Context, tx store.Execer, adminUserID, role string) error
	HasAnyAdmin(ctx context.Context) (bool, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type WalletService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	PurchaseAirtime(ctx context.Context, req services.AirtimePurchaseRequest) (services.PurchaseResult, error)
	PurchaseData(ctx context.Context, req services.DataPurchaseRequest) (services.PurchaseResult, error)
	InitiateFunding(ctx context.Context, userID string, amount int64) (services.FundingInstructions, error)
	ConfirmFunding(ctx context.Context, userID string, amount int64) (int64, error)
	MarkFundingFailed(ctx context.Context, actorID, transactionID string) error
	SelfCheck(ctx context.Context, userID string) (services.SelfCheckReport, error)
}
