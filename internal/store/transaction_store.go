package store

import (
	"context"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID          string
	UserID      string
	Type        string
	Amount      int64
	Status      string
	Description string
	Metadata    string
}

type transactionRow struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	Username    *string `db:"username"`
	Type        string  `db:"type"`
	Amount      int64   `db:"amount"`
	Status      string  `db:"status"`
	Description string  `db:"description"`
	Metadata    string  `db:"metadata"`
	CreatedAt   any     `db:"created_at"`
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, status, description, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Type, input.Amount, input.Status, input.Description, input.Metadata,
	)
	return err
}

// SettlePending transitions a pending transaction to a terminal status.
// The guard on status makes the transition happen at most once; the
// returned count is zero when the row was already settled or absent.
func (s *TransactionStore) SettlePending(ctx context.Context, tx Execer, transactionID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1
		WHERE id = $2 AND status = 'pending'
	`, status, transactionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindPendingFunding returns the id of the newest pending funding
// transaction for the user with the given amount, or sql.ErrNoRows.
func (s *TransactionStore) FindPendingFunding(ctx context.Context, tx Getter, userID string, amount int64) (string, error) {
	var id string
	err := tx.GetContext(ctx, &id, `
		SELECT id
		FROM transactions
		WHERE user_id = $1 AND type = 'funding' AND status = 'pending' AND amount = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, amount)
	return id, err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]map[string]any, error) {
	var rows []transactionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount, status, description, metadata, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return transactionRowsToMaps(rows), nil
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	var rows []transactionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, u.username, t.type, t.amount, t.status, t.description, t.metadata, t.created_at
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return transactionRowsToMaps(rows), nil
}

// SignedSumByUser folds completed transactions into the balance they
// imply: funding counts positive, airtime and data count negative.
func (s *TransactionStore) SignedSumByUser(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(CASE WHEN type = 'funding' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE user_id = $1 AND status = 'completed'
	`, userID)
	return sum, err
}

func transactionRowsToMaps(rows []transactionRow) []map[string]any {
	maps := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		item := map[string]any{
			"id":          row.ID,
			"user_id":     row.UserID,
			"type":        row.Type,
			"amount":      row.Amount,
			"status":      row.Status,
			"description": row.Description,
			"metadata":    row.Metadata,
			"created_at":  row.CreatedAt,
		}
		if row.Username != nil {
			item["username"] = *row.Username
		}
		maps = append(maps, item)
	}
	return maps
}
