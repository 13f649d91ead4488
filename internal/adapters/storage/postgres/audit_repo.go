package postgres

import (
	"context"
	"database/sql"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/audit"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Create(ctx context.Context, e audit.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, actor_id, actor_role,
			action, target_type, target_id,
			details, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.ActorID,
		e.ActorRole,
		e.Action,
		e.TargetType,
		e.TargetID,
		[]byte(e.Details),
		e.CreatedAt,
	)
	return err
}

func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, actor_id, actor_role,
			action, target_type, target_id,
			details, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		var details []byte
		if err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.ActorRole,
			&e.Action,
			&e.TargetType,
			&e.TargetID,
			&details,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Details = details
		out = append(out, e)
	}

	return out, rows.Err()
}
