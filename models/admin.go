package models

import (
	"time"

	"github.com/lib/pq"
)

type Admin struct {
	ID            int64          `db:"id" json:"id"`
	WalletAddress string         `db:"wallet_address" json:"wallet_address"`
	Role          string         `db:"role" json:"role"`
	Permissions   pq.StringArray `db:"permissions" json:"permissions"`
	IsActive      bool           `db:"is_active" json:"is_active"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
