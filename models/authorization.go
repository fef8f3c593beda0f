package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Authorization struct {
	ID             int64               `db:"id" json:"id"`
	UserID         int64               `db:"user_id" json:"user_id"`
	AdminID        int64               `db:"admin_id" json:"admin_id"`
	UserAddress    string              `db:"user_address" json:"user_address"`
	AdminAddress   string              `db:"admin_address" json:"admin_address"`
	Authorized     bool                `db:"authorized" json:"authorized"`
	AuthorizedAt   *time.Time          `db:"authorized_at" json:"authorized_at"`
	RevokedAt      *time.Time          `db:"revoked_at" json:"revoked_at"`
	ExpirationDate *time.Time          `db:"expiration_date" json:"expiration_date"`
	AmountLimit    decimal.NullDecimal `db:"amount_limit" json:"amount_limit"`
	Notes          *string             `db:"notes" json:"notes"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updated_at"`
}

// EffectiveAt reports whether the authorization grants access at t.
func (a Authorization) EffectiveAt(t time.Time) bool {
	if !a.Authorized {
		return false
	}
	return a.ExpirationDate == nil || a.ExpirationDate.After(t)
}

type AuthorizeOptions struct {
	ExpirationDate *time.Time
	AmountLimit    decimal.NullDecimal
	Notes          *string
}

// AuthorizedUser is a user row as seen from the admin side.
type AuthorizedUser struct {
	AuthorizationID int64               `db:"authorization_id" json:"authorization_id"`
	UserID          int64               `db:"user_id" json:"user_id"`
	WalletAddress   string              `db:"wallet_address" json:"wallet_address"`
	AuthorizedAt    *time.Time          `db:"authorized_at" json:"authorized_at"`
	ExpirationDate  *time.Time          `db:"expiration_date" json:"expiration_date"`
	AmountLimit     decimal.NullDecimal `db:"amount_limit" json:"amount_limit"`
	LastSeenAt      time.Time           `db:"last_seen_at" json:"last_seen_at"`
	TotalLogins     int                 `db:"total_logins" json:"total_logins"`
}

// AuthorizedAdmin is an authorization row joined with the admin it points to.
type AuthorizedAdmin struct {
	Authorization
	Role        string         `db:"role" json:"role"`
	Permissions pq.StringArray `db:"permissions" json:"permissions"`
}
