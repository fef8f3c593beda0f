package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
	RequestCompleted = "completed"
	RequestFailed    = "failed"
)

type TransferRequest struct {
	ID              int64           `db:"id" json:"id"`
	AuthorizationID *int64          `db:"authorization_id" json:"authorization_id"`
	FromUserID      int64           `db:"from_user_id" json:"from_user_id"`
	ToAdminID       int64           `db:"to_admin_id" json:"to_admin_id"`
	FromAddress     string          `db:"from_address" json:"from_address"`
	ToAddress       string          `db:"to_address" json:"to_address"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Status          string          `db:"status" json:"status"`
	TxHash          *string         `db:"tx_hash" json:"tx_hash"`
	RequestedAt     time.Time       `db:"requested_at" json:"requested_at"`
	RespondedAt     *time.Time      `db:"responded_at" json:"responded_at"`
	CompletedAt     *time.Time      `db:"completed_at" json:"completed_at"`
	RejectionReason *string         `db:"rejection_reason" json:"rejection_reason"`
	Metadata        types.JSONText  `db:"metadata" json:"metadata"`
}

func (r TransferRequest) Terminal() bool {
	switch r.Status {
	case RequestRejected, RequestCompleted, RequestFailed:
		return true
	}
	return false
}

type CreateRequestInput struct {
	FromUserID      int64
	ToAdminID       int64
	FromAddress     string
	ToAddress       string
	Amount          string
	AuthorizationID *int64
}

// ReceivedSummary lists completed requests paid to one admin.
type ReceivedSummary struct {
	Requests []TransferRequest `json:"requests"`
	Total    decimal.Decimal   `json:"total"`
	Count    int               `json:"count"`
}
