package models

import "time"

type Contact struct {
	ID             int64     `db:"id" json:"id"`
	UserAddress    string    `db:"user_address" json:"user_address"`
	ContactName    string    `db:"contact_name" json:"name"`
	ContactAddress string    `db:"contact_address" json:"address"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
