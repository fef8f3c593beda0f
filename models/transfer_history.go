package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransferOwner        = "owner"
	TransferAdminRequest = "admin_request"
	TransferRegular      = "regular"

	HistoryPending = "pending"
	HistorySuccess = "success"
	HistoryFailed  = "failed"
)

// TransferHistory is one ledger row. A nil ChainID means the default network.
type TransferHistory struct {
	ID                int64               `db:"id" json:"id"`
	UserID            int64               `db:"user_id" json:"user_id"`
	TransferRequestID *int64              `db:"transfer_request_id" json:"transfer_request_id"`
	UserAddress       string              `db:"user_address" json:"user_address"`
	TxHash            string              `db:"tx_hash" json:"tx_hash"`
	ChainID           *int64              `db:"chain_id" json:"chain_id"`
	Amount            decimal.Decimal     `db:"amount" json:"amount"`
	TransferType      string              `db:"transfer_type" json:"transfer_type"`
	Status            string              `db:"status" json:"status"`
	BlockNumber       *int64              `db:"block_number" json:"block_number"`
	GasUsed           *int64              `db:"gas_used" json:"gas_used"`
	GasPrice          decimal.NullDecimal `db:"gas_price" json:"gas_price"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	CheckedAt         *time.Time          `db:"checked_at" json:"-"`
}

type BlockInfo struct {
	BlockNumber int64
	GasUsed     int64
	GasPrice    decimal.Decimal
}

type RecordInput struct {
	UserID       int64
	RequestID    *int64
	Address      string
	TxHash       string
	ChainID      *int64
	Amount       string
	TransferType string
	Status       string
}
