package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"xtradata/internal/config"
	"xtradata/internal/db"
	"xtradata/internal/models"
	"xtradata/internal/money"
	"xtradata/internal/store"
	"xtradata/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientFunds     = errors.New("insufficient wallet balance")
	ErrUserNotFound          = errors.New("user not found")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrBelowMinimumAirtime   = errors.New("minimum airtime purchase is ₦50")
	ErrBelowMinimumFunding   = errors.New("minimum funding is ₦1,000")
	ErrTransactionNotPending = errors.New("transaction is not pending")
)

// Minimum amounts in kobo.
const (
	MinAirtimeAmount = 50 * 100
	MinFundingAmount = 1000 * 100
)

type UserStore interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.Wallet, error)
	UpdateBalance(ctx context.Context, tx store.Execer, userID string, balance int64) error
}

type CatalogStore interface {
	GetDataPlan(ctx context.Context, planID string) (models.DataPlan, error)
	GetAirtimeDiscount(ctx context.Context, network string, amount int64) (int, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	SettlePending(ctx context.Context, tx store.Execer, transactionID, status string) (int64, error)
	FindPendingFunding(ctx context.Context, tx store.Getter, userID string, amount int64) (string, error)
	SignedSumByUser(ctx context.Context, userID string) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type WalletHub interface {
	BroadcastWallet(userID string, update websocket.WalletUpdate)
}

// WalletService owns every balance mutation. A debit or credit and its
// transaction row are written inside one database transaction, with the
// user row locked first, so concurrent requests against the same wallet
// serialize and can never overdraw it.
type WalletService struct {
	txRunner        db.TxRunner
	users           UserStore
	catalog         CatalogStore
	transactions    TransactionStore
	audit           AuditStore
	hub             WalletHub
	funding         config.FundingConfig
	defaultDiscount int
}

func NewWalletService(txRunner db.TxRunner, users UserStore, catalog CatalogStore, transactions TransactionStore, audit AuditStore, hub WalletHub, cfg config.Config) *WalletService {
	return &WalletService{
		txRunner:        txRunner,
		users:           users,
		catalog:         catalog,
		transactions:    transactions,
		audit:           audit,
		hub:             hub,
		funding:         cfg.Funding,
		defaultDiscount: cfg.DefaultAirtimeDiscount,
	}
}

func (s *WalletService) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

type AirtimePurchaseRequest struct {
	UserID      string
	Network     string
	PhoneNumber string
	AmountMinor int64
}

type PurchaseResult struct {
	TransactionID string
	NewBalance    int64
	AmountMinor   int64
	Description   string

	// PlanSize is the human label of the purchased bundle ("1GB");
	// only set for data purchases.
	PlanSize string
}

func (s *WalletService) PurchaseAirtime(ctx context.Context, req AirtimePurchaseRequest) (PurchaseResult, error) {
	if req.AmountMinor <= 0 {
		return PurchaseResult{}, ErrInvalidAmount
	}
	if req.AmountMinor < MinAirtimeAmount {
		return PurchaseResult{}, ErrBelowMinimumAirtime
	}
	discount, err := s.catalog.GetAirtimeDiscount(ctx, req.Network, req.AmountMinor)
	if err != nil {
		if err != sql.ErrNoRows {
			return PurchaseResult{}, err
		}
		discount = s.defaultDiscount
	}
	finalAmount := applyDiscount(req.AmountMinor, discount)
	description := fmt.Sprintf("%s Airtime - %s", req.Network, req.PhoneNumber)
	metadata, _ := json.Marshal(map[string]any{
		"network":         req.Network,
		"phone_number":    req.PhoneNumber,
		"original_amount": money.FormatMinor(req.AmountMinor),
		"discount":        discount,
		"final_amount":    money.FormatMinor(finalAmount),
	})
	return s.debit(ctx, req.UserID, finalAmount, models.TransactionTypeAirtime, description, string(metadata))
}

type DataPurchaseRequest struct {
	UserID      string
	PlanID      string
	PhoneNumber string
}

func (s *WalletService) PurchaseData(ctx context.Context, req DataPurchaseRequest) (PurchaseResult, error) {
	plan, err := s.catalog.GetDataPlan(ctx, req.PlanID)
	if err != nil {
		if err == sql.ErrNoRows {
			return PurchaseResult{}, ErrPlanNotFound
		}
		return PurchaseResult{}, err
	}
	// The catalog price is already discounted; debit it exactly.
	description := fmt.Sprintf("%s %s %s - %s", plan.Network, plan.Size, plan.Category, req.PhoneNumber)
	metadata, _ := json.Marshal(map[string]any{
		"network":      plan.Network,
		"phone_number": req.PhoneNumber,
		"plan_id":      plan.ID,
		"size":         plan.Size,
		"category":     plan.Category,
		"validity":     plan.Validity,
	})
	result, err := s.debit(ctx, req.UserID, plan.Price, models.TransactionTypeData, description, string(metadata))
	if err != nil {
		return PurchaseResult{}, err
	}
	result.PlanSize = plan.Size
	return result, nil
}

// debit decreases the wallet and records the completed transaction as one
// atomic unit. The balance is re-read under lock so the funds check holds
// at commit time, not just at request time.
func (s *WalletService) debit(ctx context.Context, userID string, amount int64, txType, description, metadata string) (PurchaseResult, error) {
	if amount <= 0 {
		return PurchaseResult{}, ErrInvalidAmount
	}
	var result PurchaseResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		wallet, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrUserNotFound
			}
			return err
		}
		if wallet.Balance < amount {
			return ErrInsufficientFunds
		}
		newBalance := wallet.Balance - amount
		if err := s.users.UpdateBalance(ctx, tx, userID, newBalance); err != nil {
			return err
		}
		transactionID := uuid.NewString()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:          transactionID,
			UserID:      userID,
			Type:        txType,
			Amount:      amount,
			Status:      models.TransactionStatusCompleted,
			Description: description,
			Metadata:    metadata,
		}); err != nil {
			return err
		}
		result = PurchaseResult{
			TransactionID: transactionID,
			NewBalance:    newBalance,
			AmountMinor:   amount,
			Description:   description,
		}
		return s.audit.Log(ctx, tx, userID, "purchase_"+txType, "transaction", transactionID, metadata)
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.hub.BroadcastWallet(userID, websocket.WalletUpdate{
		Balance: money.FormatMinor(result.NewBalance),
		Reason:  txType,
	})
	return result, nil
}

type FundingInstructions struct {
	TransactionID string
	AmountMinor   int64
	PaymentMethod string
	AccountNumber string
	BankName      string
	AccountName   string
}

// InitiateFunding records the intent to fund and hands back the static
// bank-transfer instructions. The wallet is untouched until the user
// confirms the transfer.
func (s *WalletService) InitiateFunding(ctx context.Context, userID string, amount int64) (FundingInstructions, error) {
	if amount <= 0 {
		return FundingInstructions{}, ErrInvalidAmount
	}
	if amount < MinFundingAmount {
		return FundingInstructions{}, ErrBelowMinimumFunding
	}
	if _, err := s.users.GetBalance(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return FundingInstructions{}, ErrUserNotFound
		}
		return FundingInstructions{}, err
	}
	metadata, _ := json.Marshal(map[string]string{
		"payment_method": s.funding.PaymentMethod,
		"account_number": s.funding.AccountNumber,
		"bank_name":      s.funding.BankName,
		"account_name":   s.funding.AccountName,
	})
	transactionID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:          transactionID,
			UserID:      userID,
			Type:        models.TransactionTypeFunding,
			Amount:      amount,
			Status:      models.TransactionStatusPending,
			Description: fmt.Sprintf("Wallet Funding - %s", money.FormatNaira(amount)),
			Metadata:    string(metadata),
		}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, userID, "funding_initiated", "transaction", transactionID, string(metadata))
	})
	if err != nil {
		return FundingInstructions{}, err
	}
	return FundingInstructions{
		TransactionID: transactionID,
		AmountMinor:   amount,
		PaymentMethod: s.funding.PaymentMethod,
		AccountNumber: s.funding.AccountNumber,
		BankName:      s.funding.BankName,
		AccountName:   s.funding.AccountName,
	}, nil
}

// ConfirmFunding credits the wallet on the user's assertion that the bank
// transfer happened. There is no independent verification against a
// payment rail; this endpoint is a trust boundary and a production
// deployment should replace it with a processor webhook.
func (s *WalletService) ConfirmFunding(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount < MinFundingAmount {
		return 0, ErrBelowMinimumFunding
	}
	var newBalance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		wallet, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrUserNotFound
			}
			return err
		}
		newBalance = wallet.Balance + amount
		if err := s.users.UpdateBalance(ctx, tx, userID, newBalance); err != nil {
			return err
		}
		transactionID, err := s.transactions.FindPendingFunding(ctx, tx, userID, amount)
		settled := false
		switch {
		case err == nil:
			affected, err := s.transactions.SettlePending(ctx, tx, transactionID, models.TransactionStatusCompleted)
			if err != nil {
				return err
			}
			settled = affected > 0
		case err != sql.ErrNoRows:
			return err
		}
		if !settled {
			// No pending initiation to complete; record the credit on
			// its own so the ledger still carries it.
			transactionID = uuid.NewString()
			metadata, _ := json.Marshal(map[string]string{
				"payment_method": s.funding.PaymentMethod,
				"account_number": s.funding.AccountNumber,
				"bank_name":      s.funding.BankName,
				"account_name":   s.funding.AccountName,
			})
			if err := s.transactions.Create(ctx, tx, store.TransactionInput{
				ID:          transactionID,
				UserID:      userID,
				Type:        models.TransactionTypeFunding,
				Amount:      amount,
				Status:      models.TransactionStatusCompleted,
				Description: fmt.Sprintf("Wallet Funding - %s", money.FormatNaira(amount)),
				Metadata:    string(metadata),
			}); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]string{
			"amount": money.FormatMinor(amount),
		})
		return s.audit.Log(ctx, tx, userID, "funding_confirmed", "transaction", transactionID, string(data))
	})
	if err != nil {
		return 0, err
	}
	s.hub.BroadcastWallet(userID, websocket.WalletUpdate{
		Balance: money.FormatMinor(newBalance),
		Reason:  models.TransactionTypeFunding,
	})
	return newBalance, nil
}

// MarkFundingFailed settles a pending funding transaction as failed. The
// wallet was never credited, so only the status moves.
func (s *WalletService) MarkFundingFailed(ctx context.Context, actorID, transactionID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.transactions.SettlePending(ctx, tx, transactionID, models.TransactionStatusFailed)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTransactionNotPending
		}
		data, _ := json.Marshal(map[string]string{
			"transaction_id": transactionID,
		})
		return s.audit.Log(ctx, tx, actorID, "funding_failed", "transaction", transactionID, string(data))
	})
}

type SelfCheckReport struct {
	StoredBalance int64
	LedgerSum     int64
	Difference    int64
}

// SelfCheck compares the stored wallet balance against the balance implied
// by completed transactions. A non-zero difference means the atomic write
// discipline was violated somewhere.
func (s *WalletService) SelfCheck(ctx context.Context, userID string) (SelfCheckReport, error) {
	stored, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return SelfCheckReport{}, ErrUserNotFound
		}
		return SelfCheckReport{}, err
	}
	sum, err := s.transactions.SignedSumByUser(ctx, userID)
	if err != nil {
		return SelfCheckReport{}, err
	}
	return SelfCheckReport{
		StoredBalance: stored,
		LedgerSum:     sum,
		Difference:    stored - sum,
	}, nil
}

// applyDiscount computes amount x (100-discount)/100 in kobo, rounding
// half up to the nearest kobo.
func applyDiscount(amount int64, discount int) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(100 - discount))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
