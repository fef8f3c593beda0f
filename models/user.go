package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type User struct {
	ID            int64          `db:"id" json:"id"`
	WalletAddress string         `db:"wallet_address" json:"wallet_address"`
	FirstSeenAt   time.Time      `db:"first_seen_at" json:"first_seen_at"`
	LastSeenAt    time.Time      `db:"last_seen_at" json:"last_seen_at"`
	TotalLogins   int            `db:"total_logins" json:"total_logins"`
	IsActive      bool           `db:"is_active" json:"is_active"`
	Metadata      types.JSONText `db:"metadata" json:"metadata"`
}

// UserStats is the dashboard summary for a single wallet.
type UserStats struct {
	Authorizations   int `db:"authorizations" json:"authorizations"`
	TransferRequests int `db:"transfer_requests" json:"transfer_requests"`
	Transfers        int `db:"transfers" json:"transfers"`
	Contacts         int `db:"contacts" json:"contacts"`
}
