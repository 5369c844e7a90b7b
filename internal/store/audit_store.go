package store

import "context"

// AuditStore records an append-only trail of sensitive actions: every
// wallet mutation, funding settlement, catalog edit, and admin
// promotion writes a row here inside the same database transaction as
// the change itself.
type AuditStore struct {
	db DB
}

type auditRow struct {
	ID          string  `db:"id"`
	ActorUserID *string `db:"actor_user_id"`
	Action      string  `db:"action"`
	EntityType  string  `db:"entity_type"`
	EntityID    string  `db:"entity_id"`
	Data        string  `db:"data"`
	CreatedAt   any     `db:"created_at"`
}

func (r auditRow) asMap() map[string]any {
	actor := ""
	if r.ActorUserID != nil {
		actor = *r.ActorUserID
	}
	return map[string]any{
		"id":            r.ID,
		"actor_user_id": actor,
		"action":        r.Action,
		"entity_type":   r.EntityType,
		"entity_id":     r.EntityID,
		"data":          r.Data,
		"created_at":    r.CreatedAt,
	}
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log appends one audit row. It takes the caller's transaction so the
// trail entry commits or rolls back together with the action it
// describes.
func (s *AuditStore) Log(ctx context.Context, tx Execer, actorID, action, entityType, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_user_id, action, entity_type, entity_id, data)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5)
	`, actorID, action, entityType, entityID, data)
	return err
}

// List returns the newest entries first, shaped for direct JSON
// rendering by the admin endpoints.
func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	var rows []auditRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, actor_user_id, action, entity_type, entity_id, data, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.asMap())
	}
	return items, nil
}
