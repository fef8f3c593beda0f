package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"wallet_dashboard_back/models"
)

type AdminPostgres struct {
	db *sqlx.DB
}

func NewAdminPostgres(db *sqlx.DB) *AdminPostgres {
	return &AdminPostgres{db: db}
}

const adminColumns = `id, wallet_address, role, permissions, is_active, created_at`

func (r *AdminPostgres) GetByWallet(ctx context.Context, address string) (models.Admin, error) {
	var admin models.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE wallet_address = $1`
	err := r.db.GetContext(ctx, &admin, query, address)
	return admin, translate(err, "get admin")
}

func (r *AdminPostgres) GetActiveByWallet(ctx context.Context, address string) (models.Admin, error) {
	var admin models.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE wallet_address = $1 AND is_active`
	err := r.db.GetContext(ctx, &admin, query, address)
	return admin, translate(err, "get active admin")
}

func (r *AdminPostgres) Upsert(ctx context.Context, address, role string, permissions []string) (models.Admin, error) {
	var admin models.Admin
	query := `
        INSERT INTO admins (wallet_address, role, permissions)
        VALUES ($1, $2, $3)
        ON CONFLICT (wallet_address) DO UPDATE
            SET role = EXCLUDED.role,
                permissions = EXCLUDED.permissions,
                is_active = TRUE
        RETURNING ` + adminColumns
	if permissions == nil {
		permissions = []string{}
	}
	err := r.db.GetContext(ctx, &admin, query, address, role, pq.StringArray(permissions))
	return admin, translate(err, "upsert admin")
}

func (r *AdminPostgres) Deactivate(ctx context.Context, address string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admins SET is_active = FALSE WHERE wallet_address = $1`, address)
	if err != nil {
		return translate(err, "deactivate admin")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminPostgres) List(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	err := r.db.SelectContext(ctx, &admins, `SELECT `+adminColumns+` FROM admins ORDER BY id`)
	return admins, translate(err, "list admins")
}
