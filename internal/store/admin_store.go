package store

import (
	"context"
	"database/sql"
	"errors"
)

// AdminStore answers authorization questions for the back-office
// endpoints: who is staff, who is the super admin, and which granular
// roles (catalog management, user review, ledger review) an admin
// holds.
type AdminStore struct {
	db DB
}

func NewAdminStore(db DB) *AdminStore {
	return &AdminStore{db: db}
}

// IsAdmin reports whether the user is staff at all and, if so, whether
// they hold the super flag. A missing row is not an error.
func (s *AdminStore) IsAdmin(ctx context.Context, userID string) (bool, bool, error) {
	var isSuper bool
	err := s.db.GetContext(ctx, &isSuper, `
		SELECT is_super
		FROM admins
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, isSuper, nil
}

func (s *AdminStore) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var found bool
	err := s.db.GetContext(ctx, &found, `
		SELECT EXISTS (
			SELECT 1
			FROM admin_roles
			WHERE admin_user_id = $1 AND role = $2
		)
	`, userID, role)
	return found, err
}

// CreateAdmin promotes a user to staff. The first registered user is
// promoted with isSuper set and a nil createdBy; every later promotion
// records which super admin performed it.
func (s *AdminStore) CreateAdmin(ctx context.Context, tx Execer, userID string, isSuper bool, createdBy *string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admins (user_id, is_super, created_by)
		VALUES ($1, $2, $3)
	`, userID, isSuper, createdBy)
	return err
}

// GrantRole is idempotent: granting a role an admin already holds is a
// no-op rather than a conflict.
func (s *AdminStore) GrantRole(ctx context.Context, tx Execer, adminUserID, role string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admin_roles (admin_user_id, role)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, adminUserID, role)
	return err
}

// HasAnyAdmin reports whether any staff account exists yet. Used once
// per registration to decide whether the new user bootstraps the
// super admin seat.
func (s *AdminStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	var found bool
	err := s.db.GetContext(ctx, &found, `SELECT EXISTS (SELECT 1 FROM admins)`)
	return found, err
}
