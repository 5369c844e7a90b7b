package store

import "context"

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// Wallet is the locked view of a user row used inside a debit/credit
// transaction.
type Wallet struct {
	UserID  string `db:"id"`
	Balance int64  `db:"wallet_balance"`
}

type UserSummary struct {
	ID            string `db:"id"`
	Username      string `db:"username"`
	Email         string `db:"email"`
	WalletBalance int64  `db:"wallet_balance"`
	CreatedAt     any    `db:"created_at"`
}

type userRow struct {
	ID            string `db:"id"`
	Username      string `db:"username"`
	Email         string `db:"email"`
	PasswordHash  string `db:"password_hash"`
	WalletBalance int64  `db:"wallet_balance"`
	CreatedAt     any    `db:"created_at"`
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash string) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, wallet_balance)
		VALUES ($1, $2, $3, $4, 0)
	`
	_, err := tx.ExecContext(ctx, query, id, username, email, passwordHash)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, password_hash, wallet_balance, created_at FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":             row.ID,
		"username":       row.Username,
		"email":          row.Email,
		"password_hash":  row.PasswordHash,
		"wallet_balance": row.WalletBalance,
		"created_at":     row.CreatedAt,
	}, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (map[string]any, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, wallet_balance, created_at FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":             row.ID,
		"username":       row.Username,
		"email":          row.Email,
		"wallet_balance": row.WalletBalance,
		"created_at":     row.CreatedAt,
	}, nil
}

// GetBalance reads the current wallet balance outside any lock. Callers
// that intend to mutate the balance must use GetForUpdate instead.
func (s *UserStore) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.GetContext(ctx, &balance, `SELECT wallet_balance FROM users WHERE id = $1`, userID)
	return balance, err
}

// GetForUpdate takes a row lock on the user so concurrent debits against
// the same wallet serialize at the database.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (Wallet, error) {
	var row Wallet
	err := tx.GetContext(ctx, &row, `
		SELECT id, wallet_balance
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return Wallet{}, err
	}
	return row, nil
}

func (s *UserStore) UpdateBalance(ctx context.Context, tx Execer, userID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET wallet_balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, userID)
	return err
}

func (s *UserStore) ListAll(ctx context.Context, limit, offset int) ([]UserSummary, error) {
	var rows []UserSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, email, wallet_balance, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
