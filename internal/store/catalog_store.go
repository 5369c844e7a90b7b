package store

import (
	"context"

	"xtradata/internal/models"
)

// CatalogStore reads the airtime and data product catalog. The catalog is
// read-only at request time; writes happen through the seeding command and
// the admin surface.
type CatalogStore struct {
	db DB
}

func NewCatalogStore(db DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) ListAirtimePlans(ctx context.Context) ([]models.AirtimePlan, error) {
	var rows []models.AirtimePlan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, network, amount, price, discount, is_active, created_at
		FROM airtime_plans
		WHERE is_active
		ORDER BY network, amount
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDataPlans orders by size within each network and category; the
// presentation layer depends on that ordering.
func (s *CatalogStore) ListDataPlans(ctx context.Context) ([]models.DataPlan, error) {
	var rows []models.DataPlan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, network, category, size, size_in_mb, price, validity, discount,
		       is_best_value, is_most_popular, is_active, created_at
		FROM data_plans
		WHERE is_active
		ORDER BY network, category, size_in_mb
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CatalogStore) GetDataPlan(ctx context.Context, planID string) (models.DataPlan, error) {
	var row models.DataPlan
	err := s.db.GetContext(ctx, &row, `
		SELECT id, network, category, size, size_in_mb, price, validity, discount,
		       is_best_value, is_most_popular, is_active, created_at
		FROM data_plans
		WHERE id = $1 AND is_active
	`, planID)
	if err != nil {
		return models.DataPlan{}, err
	}
	return row, nil
}

// GetAirtimeDiscount resolves the discount percent for the largest active
// tier whose face amount does not exceed the requested amount. Returns
// sql.ErrNoRows when the network has no matching tier.
func (s *CatalogStore) GetAirtimeDiscount(ctx context.Context, network string, amount int64) (int, error) {
	var discount int
	err := s.db.GetContext(ctx, &discount, `
		SELECT discount
		FROM airtime_plans
		WHERE network = $1 AND is_active AND amount <= $2
		ORDER BY amount DESC
		LIMIT 1
	`, network, amount)
	return discount, err
}

func (s *CatalogStore) CreateAirtimePlan(ctx context.Context, tx Execer, id, network string, amount, price int64, discount int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO airtime_plans (id, network, amount, price, discount, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, id, network, amount, price, discount)
	return err
}

func (s *CatalogStore) CreateDataPlan(ctx context.Context, tx Execer, plan models.DataPlan) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO data_plans (id, network, category, size, size_in_mb, price, validity, discount, is_best_value, is_most_popular, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
	`, plan.ID, plan.Network, plan.Category, plan.Size, plan.SizeInMB, plan.Price, plan.Validity, plan.Discount, plan.IsBestValue, plan.IsMostPopular)
	return err
}

// DeactivatePlan retires a catalog entry from either table without
// deleting it; completed transactions keep referencing it in metadata.
func (s *CatalogStore) DeactivatePlan(ctx context.Context, tx Execer, table, planID string) (int64, error) {
	query := `UPDATE data_plans SET is_active = FALSE WHERE id = $1`
	if table == "airtime" {
		query = `UPDATE airtime_plans SET is_active = FALSE WHERE id = $1`
	}
	res, err := tx.ExecContext(ctx, query, planID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
