package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"wallet_dashboard_back/models"
)

type ContactPostgres struct {
	db *sqlx.DB
}

func NewContactPostgres(db *sqlx.DB) *ContactPostgres {
	return &ContactPostgres{db: db}
}

const contactColumns = `id, user_address, contact_name, contact_address, created_at`

func (r *ContactPostgres) List(ctx context.Context, owner string) ([]models.Contact, error) {
	contacts := []models.Contact{}
	query := `SELECT ` + contactColumns + ` FROM address_book WHERE user_address = $1 ORDER BY created_at DESC, id DESC`
	err := r.db.SelectContext(ctx, &contacts, query, owner)
	return contacts, translate(err, "list contacts")
}

func (r *ContactPostgres) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	var row models.Contact
	query := `
        INSERT INTO address_book (user_address, contact_name, contact_address)
        VALUES ($1, $2, $3)
        RETURNING ` + contactColumns
	err := r.db.GetContext(ctx, &row, query, c.UserAddress, c.ContactName, c.ContactAddress)
	return row, translate(err, "create contact")
}

func (r *ContactPostgres) Get(ctx context.Context, id int64) (models.Contact, error) {
	var c models.Contact
	err := r.db.GetContext(ctx, &c, `SELECT `+contactColumns+` FROM address_book WHERE id = $1`, id)
	return c, translate(err, "get contact")
}

func (r *ContactPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM address_book WHERE id = $1`, id)
	if err != nil {
		return translate(err, "delete contact")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
