package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"wallet_dashboard_back/models"
)

type TransferPostgres struct {
	db *sqlx.DB
}

func NewTransferPostgres(db *sqlx.DB) *TransferPostgres {
	return &TransferPostgres{db: db}
}

const requestColumns = `id, authorization_id, from_user_id, to_admin_id, from_address, to_address, amount, status,
    tx_hash, requested_at, responded_at, completed_at, rejection_reason, metadata`

func (r *TransferPostgres) Create(ctx context.Context, req models.TransferRequest) (int64, error) {
	var id int64
	query := `
        INSERT INTO transfer_requests
            (authorization_id, from_user_id, to_admin_id, from_address, to_address, amount, status, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, 'pending', COALESCE($7::jsonb, '{}'::jsonb))
        RETURNING id
    `
	var metadata interface{}
	if len(req.Metadata) > 0 {
		metadata = req.Metadata
	}
	err := r.db.QueryRowContext(ctx, query,
		req.AuthorizationID,
		req.FromUserID,
		req.ToAdminID,
		req.FromAddress,
		req.ToAddress,
		req.Amount,
		metadata,
	).Scan(&id)
	return id, translate(err, "create transfer request")
}

func (r *TransferPostgres) Get(ctx context.Context, id int64) (models.TransferRequest, error) {
	var req models.TransferRequest
	query := `SELECT ` + requestColumns + ` FROM transfer_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &req, query, id)
	return req, translate(err, "get transfer request")
}

func (r *TransferPostgres) Respond(ctx context.Context, id int64, status string, reason *string) (models.TransferRequest, error) {
	var req models.TransferRequest
	query := `
        UPDATE transfer_requests
        SET status = $2, responded_at = now(), rejection_reason = $3
        WHERE id = $1 AND status = 'pending'
        RETURNING ` + requestColumns
	err := r.db.GetContext(ctx, &req, query, id, status, reason)
	return req, conditional(err, "respond to transfer request")
}

func (r *TransferPostgres) Fail(ctx context.Context, id int64, reason string) (models.TransferRequest, error) {
	var req models.TransferRequest
	query := `
        UPDATE transfer_requests
        SET status = 'failed', completed_at = now(), rejection_reason = $2
        WHERE id = $1 AND status = 'approved'
        RETURNING ` + requestColumns
	err := r.db.GetContext(ctx, &req, query, id, reason)
	return req, conditional(err, "fail transfer request")
}

func (r *TransferPostgres) Complete(ctx context.Context, id int64, txHash string, entry models.TransferHistory) (models.TransferRequest, error) {
	var req models.TransferRequest

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return req, errors.Wrap(err, "begin complete")
	}
	defer tx.Rollback()

	query := `
        UPDATE transfer_requests
        SET status = 'completed', tx_hash = $2, completed_at = now()
        WHERE id = $1 AND status = 'approved'
        RETURNING ` + requestColumns
	if err := tx.GetContext(ctx, &req, query, id, txHash); err != nil {
		return req, conditional(err, "complete transfer request")
	}

	if _, err := insertHistory(ctx, tx, entry); err != nil {
		return models.TransferRequest{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.TransferRequest{}, errors.Wrap(err, "commit complete")
	}
	return req, nil
}

func (r *TransferPostgres) ListByUser(ctx context.Context, userID int64, status string) ([]models.TransferRequest, error) {
	reqs := []models.TransferRequest{}
	query := `
        SELECT ` + requestColumns + ` FROM transfer_requests
        WHERE from_user_id = $1 AND ($2 = '' OR status = $2)
        ORDER BY requested_at DESC, id DESC
    `
	err := r.db.SelectContext(ctx, &reqs, query, userID, status)
	return reqs, translate(err, "list user transfer requests")
}

func (r *TransferPostgres) ListByAdmin(ctx context.Context, adminID int64, status string) ([]models.TransferRequest, error) {
	reqs := []models.TransferRequest{}
	query := `
        SELECT ` + requestColumns + ` FROM transfer_requests
        WHERE to_admin_id = $1 AND ($2 = '' OR status = $2)
        ORDER BY requested_at DESC, id DESC
    `
	err := r.db.SelectContext(ctx, &reqs, query, adminID, status)
	return reqs, translate(err, "list admin transfer requests")
}

func (r *TransferPostgres) ListApprovedBefore(ctx context.Context, before time.Time, limit int) ([]models.TransferRequest, error) {
	reqs := []models.TransferRequest{}
	query := `
        SELECT ` + requestColumns + ` FROM transfer_requests
        WHERE status = 'approved' AND responded_at < $1
        ORDER BY responded_at
        LIMIT $2
    `
	err := r.db.SelectContext(ctx, &reqs, query, before, limit)
	return reqs, translate(err, "list stale approvals")
}

// conditional maps a conditional UPDATE that matched nothing to ErrStateChanged.
func conditional(err error, op string) error {
	err = translate(err, op)
	if errors.Is(err, ErrNotFound) {
		return ErrStateChanged
	}
	return err
}
