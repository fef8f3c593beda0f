package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type AuditEntry struct {
	ID         int64          `db:"id" json:"id"`
	UserID     *int64         `db:"user_id" json:"user_id"`
	Action     string         `db:"action" json:"action"`
	EntityType string         `db:"entity_type" json:"entity_type"`
	EntityID   *int64         `db:"entity_id" json:"entity_id"`
	OldValues  types.JSONText `db:"old_values" json:"old_values"`
	NewValues  types.JSONText `db:"new_values" json:"new_values"`
	UserAgent  *string        `db:"user_agent" json:"user_agent"`
	RequestID  *string        `db:"request_id" json:"request_id"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
