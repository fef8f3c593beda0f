package service

import (
	"context"

	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type HistoryService struct {
	repo  repository.TransferHistory
	audit Auditor
}

func NewHistoryService(repo repository.TransferHistory, audit Auditor) *HistoryService {
	return &HistoryService{repo: repo, audit: audit}
}

// Record appends a ledger entry for a transfer the user submitted directly.
func (s *HistoryService) Record(ctx context.Context, in models.RecordInput) (models.TransferHistory, error) {
	if in.UserID <= 0 {
		return models.TransferHistory{}, invalid("user id is required")
	}
	addr, err := wallet.NormalizeAddress(in.Address)
	if err != nil {
		return models.TransferHistory{}, invalid(err.Error())
	}
	hash, err := wallet.NormalizeTxHash(in.TxHash)
	if err != nil {
		return models.TransferHistory{}, invalid(err.Error())
	}
	amount, err := wallet.ParseAmount(in.Amount)
	if err != nil {
		return models.TransferHistory{}, invalid(err.Error())
	}

	if in.ChainID != nil && *in.ChainID <= 0 {
		return models.TransferHistory{}, invalid("chain id must be positive")
	}

	transferType := in.TransferType
	switch transferType {
	case "":
		transferType = models.TransferOwner
	case models.TransferOwner, models.TransferRegular:
	case models.TransferAdminRequest:
		// request-derived rows are written by Complete
		if in.RequestID == nil {
			return models.TransferHistory{}, invalid("admin_request entries need a transfer request")
		}
	default:
		return models.TransferHistory{}, invalid("unknown transfer type " + transferType)
	}
	status := in.Status
	switch status {
	case "":
		status = models.HistoryPending
	case models.HistoryPending, models.HistorySuccess, models.HistoryFailed:
	default:
		return models.TransferHistory{}, invalid("unknown transfer status " + status)
	}

	entry, err := s.repo.Create(ctx, models.TransferHistory{
		UserID:            in.UserID,
		TransferRequestID: in.RequestID,
		UserAddress:       addr,
		TxHash:            hash,
		ChainID:           in.ChainID,
		Amount:            amount,
		TransferType:      transferType,
		Status:            status,
	})
	if err != nil {
		return models.TransferHistory{}, storageError("record transfer", err, "user not found")
	}

	s.audit.Append(ctx, AuditRecord{
		UserID:     &in.UserID,
		Action:     ActionSaveTransferHistory,
		EntityType: "transfer_history",
		EntityID:   &entry.ID,
		NewValues:  map[string]interface{}{"tx_hash": hash, "amount": amount.String(), "type": transferType},
	})
	return entry, nil
}

// UpdateStatus moves a pending entry to success or failed. It reports false
// when the entry was missing or already settled.
func (s *HistoryService) UpdateStatus(ctx context.Context, txHash, status string, info *models.BlockInfo) (bool, error) {
	hash, err := wallet.NormalizeTxHash(txHash)
	if err != nil {
		return false, invalid(err.Error())
	}
	if status != models.HistorySuccess && status != models.HistoryFailed {
		return false, invalid("status must be success or failed")
	}

	entry, err := s.repo.UpdateStatus(ctx, hash, status, info)
	if err != nil {
		return false, storageError("update transfer status", err, "transfer not found")
	}
	if entry == nil {
		return false, nil
	}

	values := map[string]interface{}{"status": status}
	if info != nil {
		values["block_number"] = info.BlockNumber
		values["gas_used"] = info.GasUsed
		values["gas_price"] = info.GasPrice.String()
	}
	s.audit.Append(ctx, AuditRecord{
		UserID:     &entry.UserID,
		Action:     ActionConfirmTransfer,
		EntityType: "transfer_history",
		EntityID:   &entry.ID,
		OldValues:  map[string]interface{}{"status": models.HistoryPending},
		NewValues:  values,
	})
	return true, nil
}

func (s *HistoryService) ListByAddress(ctx context.Context, address string, limit int) ([]models.TransferHistory, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return nil, invalid(err.Error())
	}
	entries, err := s.repo.ListByAddress(ctx, addr, clampLimit(limit))
	return entries, storageError("list transfer history", err, "")
}

// ListUnconfirmed returns pending entries, least recently checked first.
func (s *HistoryService) ListUnconfirmed(ctx context.Context, limit int) ([]models.TransferHistory, error) {
	entries, err := s.repo.ListPending(ctx, clampLimit(limit))
	return entries, storageError("list unconfirmed", err, "")
}

func (s *HistoryService) MarkChecked(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return storageError("mark checked", s.repo.MarkChecked(ctx, ids), "")
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return limit
}
