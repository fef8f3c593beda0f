package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"wallet_dashboard_back/models"
)

type AuditPostgres struct {
	db *sqlx.DB
}

func NewAuditPostgres(db *sqlx.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

func (r *AuditPostgres) Insert(ctx context.Context, entry models.AuditEntry) error {
	query := `
        INSERT INTO audit_log (user_id, action, entity_type, entity_id, old_values, new_values, user_agent, request_id)
        VALUES (:user_id, :action, :entity_type, :entity_id, :old_values, :new_values, :user_agent, :request_id)
    `
	_, err := r.db.NamedExecContext(ctx, query, entry)
	return translate(err, "insert audit entry")
}
