package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"wallet_dashboard_back/models"
)

type AuthorizationPostgres struct {
	db *sqlx.DB
}

func NewAuthorizationPostgres(db *sqlx.DB) *AuthorizationPostgres {
	return &AuthorizationPostgres{db: db}
}

const authorizationColumns = `id, user_id, admin_id, user_address, admin_address, authorized, authorized_at,
    revoked_at, expiration_date, amount_limit, notes, created_at, updated_at`

func (r *AuthorizationPostgres) Upsert(ctx context.Context, user models.User, admin models.Admin, opts models.AuthorizeOptions) (models.Authorization, error) {
	var auth models.Authorization
	query := `
        INSERT INTO authorizations
            (user_id, admin_id, user_address, admin_address, authorized, authorized_at, expiration_date, amount_limit, notes)
        VALUES ($1, $2, $3, $4, TRUE, now(), $5, $6, $7)
        ON CONFLICT (user_id, admin_id) DO UPDATE
            SET authorized = TRUE,
                authorized_at = now(),
                revoked_at = NULL,
                expiration_date = EXCLUDED.expiration_date,
                amount_limit = EXCLUDED.amount_limit,
                notes = COALESCE(EXCLUDED.notes, authorizations.notes),
                updated_at = now()
        RETURNING ` + authorizationColumns
	err := r.db.GetContext(ctx, &auth, query,
		user.ID, admin.ID, user.WalletAddress, admin.WalletAddress,
		opts.ExpirationDate, opts.AmountLimit, opts.Notes)
	return auth, translate(err, "upsert authorization")
}

func (r *AuthorizationPostgres) Get(ctx context.Context, userID, adminID int64) (models.Authorization, error) {
	var auth models.Authorization
	query := `SELECT ` + authorizationColumns + ` FROM authorizations WHERE user_id = $1 AND admin_id = $2`
	err := r.db.GetContext(ctx, &auth, query, userID, adminID)
	return auth, translate(err, "get authorization")
}

func (r *AuthorizationPostgres) Revoke(ctx context.Context, userID, adminID int64) (models.Authorization, error) {
	var auth models.Authorization
	query := `
        UPDATE authorizations
        SET authorized = FALSE, revoked_at = now(), updated_at = now()
        WHERE user_id = $1 AND admin_id = $2
        RETURNING ` + authorizationColumns
	err := r.db.GetContext(ctx, &auth, query, userID, adminID)
	return auth, translate(err, "revoke authorization")
}

func (r *AuthorizationPostgres) ListEffectiveByAdmin(ctx context.Context, adminID int64, at time.Time) ([]models.AuthorizedUser, error) {
	users := []models.AuthorizedUser{}
	query := `
        SELECT a.id AS authorization_id, u.id AS user_id, u.wallet_address, a.authorized_at,
               a.expiration_date, a.amount_limit, u.last_seen_at, u.total_logins
        FROM authorizations a
        JOIN users u ON u.id = a.user_id
        WHERE a.admin_id = $1 AND a.authorized
          AND (a.expiration_date IS NULL OR a.expiration_date > $2)
        ORDER BY a.authorized_at DESC, a.id DESC
    `
	err := r.db.SelectContext(ctx, &users, query, adminID, at)
	return users, translate(err, "list authorized users")
}

func (r *AuthorizationPostgres) ListEffectiveByUser(ctx context.Context, userID int64, at time.Time) ([]models.AuthorizedAdmin, error) {
	admins := []models.AuthorizedAdmin{}
	query := `
        SELECT a.id, a.user_id, a.admin_id, a.user_address, a.admin_address, a.authorized, a.authorized_at,
               a.revoked_at, a.expiration_date, a.amount_limit, a.notes, a.created_at, a.updated_at,
               ad.role, ad.permissions
        FROM authorizations a
        JOIN admins ad ON ad.id = a.admin_id
        WHERE a.user_id = $1 AND a.authorized AND ad.is_active
          AND (a.expiration_date IS NULL OR a.expiration_date > $2)
        ORDER BY a.authorized_at DESC, a.id DESC
    `
	err := r.db.SelectContext(ctx, &admins, query, userID, at)
	return admins, translate(err, "list authorized admins")
}
