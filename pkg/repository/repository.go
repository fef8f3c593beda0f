package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"wallet_dashboard_back/models"
)

type Users interface {
	// UpsertLogin creates the user with one login or bumps the counter.
	// The bool is true when the row was inserted.
	UpsertLogin(ctx context.Context, address string) (models.User, bool, error)
	Ensure(ctx context.Context, address string) (models.User, error)
	GetByWallet(ctx context.Context, address string) (models.User, error)
	Stats(ctx context.Context, userID int64, address string) (models.UserStats, error)
}

type Admins interface {
	GetByWallet(ctx context.Context, address string) (models.Admin, error)
	GetActiveByWallet(ctx context.Context, address string) (models.Admin, error)
	Upsert(ctx context.Context, address, role string, permissions []string) (models.Admin, error)
	Deactivate(ctx context.Context, address string) error
	List(ctx context.Context) ([]models.Admin, error)
}

type Authorizations interface {
	Upsert(ctx context.Context, user models.User, admin models.Admin, opts models.AuthorizeOptions) (models.Authorization, error)
	Get(ctx context.Context, userID, adminID int64) (models.Authorization, error)
	Revoke(ctx context.Context, userID, adminID int64) (models.Authorization, error)
	ListEffectiveByAdmin(ctx context.Context, adminID int64, at time.Time) ([]models.AuthorizedUser, error)
	ListEffectiveByUser(ctx context.Context, userID int64, at time.Time) ([]models.AuthorizedAdmin, error)
}

type TransferRequests interface {
	Create(ctx context.Context, req models.TransferRequest) (int64, error)
	Get(ctx context.Context, id int64) (models.TransferRequest, error)
	// Respond moves a pending request to approved or rejected.
	Respond(ctx context.Context, id int64, status string, reason *string) (models.TransferRequest, error)
	// Fail moves an approved request to failed.
	Fail(ctx context.Context, id int64, reason string) (models.TransferRequest, error)
	// Complete moves an approved request to completed and writes the history
	// row in the same transaction.
	Complete(ctx context.Context, id int64, txHash string, entry models.TransferHistory) (models.TransferRequest, error)
	ListByUser(ctx context.Context, userID int64, status string) ([]models.TransferRequest, error)
	ListByAdmin(ctx context.Context, adminID int64, status string) ([]models.TransferRequest, error)
	ListApprovedBefore(ctx context.Context, before time.Time, limit int) ([]models.TransferRequest, error)
}

type TransferHistory interface {
	Create(ctx context.Context, entry models.TransferHistory) (models.TransferHistory, error)
	// UpdateStatus only touches pending rows. It returns nil when nothing changed.
	UpdateStatus(ctx context.Context, txHash, status string, info *models.BlockInfo) (*models.TransferHistory, error)
	ListByAddress(ctx context.Context, address string, limit int) ([]models.TransferHistory, error)
	ListPending(ctx context.Context, limit int) ([]models.TransferHistory, error)
	// MarkChecked stamps rows the confirmer looked at without settling them.
	MarkChecked(ctx context.Context, ids []int64) error
}

type AuditLog interface {
	Insert(ctx context.Context, entry models.AuditEntry) error
}

type Contacts interface {
	List(ctx context.Context, owner string) ([]models.Contact, error)
	Create(ctx context.Context, c models.Contact) (models.Contact, error)
	Get(ctx context.Context, id int64) (models.Contact, error)
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	Users
	Admins
	Authorizations
	TransferRequests
	TransferHistory
	AuditLog
	Contacts
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Users:            NewUserPostgres(db),
		Admins:           NewAdminPostgres(db),
		Authorizations:   NewAuthorizationPostgres(db),
		TransferRequests: NewTransferPostgres(db),
		TransferHistory:  NewHistoryPostgres(db),
		AuditLog:         NewAuditPostgres(db),
		Contacts:         NewContactPostgres(db),
	}
}
