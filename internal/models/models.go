package models

import "time"

type User struct {
	ID            string    `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	WalletBalance int64     `db:"wallet_balance" json:"wallet_balance"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Transaction amounts are always positive; direction is implied by Type
// (funding credits the wallet, airtime and data debit it).
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"type"`
	Amount      int64     `db:"amount" json:"amount"`
	Status      string    `db:"status" json:"status"`
	Description string    `db:"description" json:"description"`
	Metadata    string    `db:"metadata" json:"metadata"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type AirtimePlan struct {
	ID        string    `db:"id" json:"id"`
	Network   string    `db:"network" json:"network"`
	Amount    int64     `db:"amount" json:"amount"`
	Price     int64     `db:"price" json:"price"`
	Discount  int       `db:"discount" json:"discount"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DataPlan struct {
	ID            string    `db:"id" json:"id"`
	Network       string    `db:"network" json:"network"`
	Category      string    `db:"category" json:"category"`
	Size          string    `db:"size" json:"size"`
	SizeInMB      int       `db:"size_in_mb" json:"size_in_mb"`
	Price         int64     `db:"price" json:"price"`
	Validity      string    `db:"validity" json:"validity"`
	Discount      int       `db:"discount" json:"discount"`
	IsBestValue   bool      `db:"is_best_value" json:"is_best_value"`
	IsMostPopular bool      `db:"is_most_popular" json:"is_most_popular"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

const (
	TransactionTypeFunding = "funding"
	TransactionTypeAirtime = "airtime"
	TransactionTypeData    = "data"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)
