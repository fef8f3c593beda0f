package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"wallet_dashboard_back/models"
)

type HistoryPostgres struct {
	db *sqlx.DB
}

func NewHistoryPostgres(db *sqlx.DB) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

const historyColumns = `id, user_id, transfer_request_id, user_address, tx_hash, chain_id, amount, transfer_type,
    status, block_number, gas_used, gas_price, created_at, checked_at`

func insertHistory(ctx context.Context, q sqlx.QueryerContext, entry models.TransferHistory) (models.TransferHistory, error) {
	var row models.TransferHistory
	query := `
        INSERT INTO transfer_history (user_id, transfer_request_id, user_address, tx_hash, chain_id, amount, transfer_type, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + historyColumns
	err := sqlx.GetContext(ctx, q, &row, query,
		entry.UserID,
		entry.TransferRequestID,
		entry.UserAddress,
		entry.TxHash,
		entry.ChainID,
		entry.Amount,
		entry.TransferType,
		entry.Status,
	)
	return row, translate(err, "insert transfer history")
}

func (r *HistoryPostgres) Create(ctx context.Context, entry models.TransferHistory) (models.TransferHistory, error) {
	return insertHistory(ctx, r.db, entry)
}

func (r *HistoryPostgres) UpdateStatus(ctx context.Context, txHash, status string, info *models.BlockInfo) (*models.TransferHistory, error) {
	var blockNumber, gasUsed, gasPrice interface{}
	if info != nil {
		blockNumber, gasUsed, gasPrice = info.BlockNumber, info.GasUsed, info.GasPrice
	}
	var row models.TransferHistory
	query := `
        UPDATE transfer_history
        SET status = $2,
            block_number = COALESCE($3, block_number),
            gas_used = COALESCE($4, gas_used),
            gas_price = COALESCE($5::numeric, gas_price)
        WHERE tx_hash = $1 AND status = 'pending'
        RETURNING ` + historyColumns
	err := r.db.GetContext(ctx, &row, query, txHash, status, blockNumber, gasUsed, gasPrice)
	if err = translate(err, "update transfer status"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *HistoryPostgres) ListByAddress(ctx context.Context, address string, limit int) ([]models.TransferHistory, error) {
	entries := []models.TransferHistory{}
	query := `
        SELECT ` + historyColumns + ` FROM transfer_history
        WHERE user_address = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `
	err := r.db.SelectContext(ctx, &entries, query, address, limit)
	return entries, translate(err, "list transfer history")
}

// ListPending returns never-checked rows first, then the least recently
// checked, so unmined rows cannot starve newer ones.
func (r *HistoryPostgres) ListPending(ctx context.Context, limit int) ([]models.TransferHistory, error) {
	entries := []models.TransferHistory{}
	query := `
        SELECT ` + historyColumns + ` FROM transfer_history
        WHERE status = 'pending'
        ORDER BY checked_at NULLS FIRST, created_at, id
        LIMIT $1
    `
	err := r.db.SelectContext(ctx, &entries, query, limit)
	return entries, translate(err, "list pending transfers")
}

func (r *HistoryPostgres) MarkChecked(ctx context.Context, ids []int64) error {
	query := `
        UPDATE transfer_history SET checked_at = now()
        WHERE id = ANY($1) AND status = 'pending'
    `
	_, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	return translate(err, "mark transfers checked")
}
