package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"wallet_dashboard_back/models"
)

type UserPostgres struct {
	db *sqlx.DB
}

func NewUserPostgres(db *sqlx.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

const userColumns = `id, wallet_address, first_seen_at, last_seen_at, total_logins, is_active, metadata`

func (r *UserPostgres) UpsertLogin(ctx context.Context, address string) (models.User, bool, error) {
	var row struct {
		models.User
		Inserted bool `db:"inserted"`
	}
	// xmax is zero only for a freshly inserted tuple
	query := `
        INSERT INTO users (wallet_address, total_logins)
        VALUES ($1, 1)
        ON CONFLICT (wallet_address) DO UPDATE
            SET total_logins = users.total_logins + 1,
                last_seen_at = now()
        RETURNING ` + userColumns + `, (xmax = 0) AS inserted
    `
	if err := r.db.GetContext(ctx, &row, query, address); err != nil {
		return models.User{}, false, translate(err, "upsert login")
	}
	return row.User, row.Inserted, nil
}

func (r *UserPostgres) Ensure(ctx context.Context, address string) (models.User, error) {
	query := `
        INSERT INTO users (wallet_address) VALUES ($1)
        ON CONFLICT (wallet_address) DO NOTHING
    `
	if _, err := r.db.ExecContext(ctx, query, address); err != nil {
		return models.User{}, translate(err, "ensure user")
	}
	return r.GetByWallet(ctx, address)
}

func (r *UserPostgres) GetByWallet(ctx context.Context, address string) (models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	err := r.db.GetContext(ctx, &user, query, address)
	return user, translate(err, "get user")
}

func (r *UserPostgres) Stats(ctx context.Context, userID int64, address string) (models.UserStats, error) {
	var stats models.UserStats
	query := `
        SELECT
            (SELECT count(*) FROM authorizations WHERE user_id = $1 AND authorized
                AND (expiration_date IS NULL OR expiration_date > now()))  AS authorizations,
            (SELECT count(*) FROM transfer_requests WHERE from_user_id = $1) AS transfer_requests,
            (SELECT count(*) FROM transfer_history WHERE user_id = $1)       AS transfers,
            (SELECT count(*) FROM address_book WHERE user_address = $2)     AS contacts
    `
	err := r.db.GetContext(ctx, &stats, query, userID, address)
	return stats, translate(err, "user stats")
}
