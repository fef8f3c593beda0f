package service

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/models"
)

// ReceiptReader returns ethereum.NotFound while a transaction is unmined.
type ReceiptReader interface {
	Receipt(ctx context.Context, chainID int64, txHash string) (*types.Receipt, error)
}

type ConfirmerConfig struct {
	// ChainID is used for entries recorded without a network.
	ChainID     int64
	Interval    time.Duration
	Batch       int
	ApprovalTTL time.Duration
	// PendingTTL fails entries whose transaction is still unknown to the
	// chain after this long. Zero keeps them pending.
	PendingTTL time.Duration
}

// Confirmer settles pending history entries from chain receipts and fails
// approvals that were abandoned after the wallet prompt.
type Confirmer struct {
	history   History
	transfers Transfer
	chain     ReceiptReader
	cfg       ConfirmerConfig
	now       func() time.Time
}

func NewConfirmer(history History, transfers Transfer, chain ReceiptReader, cfg ConfirmerConfig) *Confirmer {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	return &Confirmer{history: history, transfers: transfers, chain: chain, cfg: cfg, now: time.Now}
}

func (c *Confirmer) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	logrus.WithField("interval", c.cfg.Interval.String()).Info("confirmer started")
	for {
		if err := c.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("confirmer pass failed")
		}
		select {
		case <-ctx.Done():
			logrus.Info("confirmer stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single pass. A failure on one entry is logged and the
// entry is retried on a later pass.
func (c *Confirmer) RunOnce(ctx context.Context) error {
	if c.cfg.ApprovalTTL > 0 && c.transfers != nil {
		if _, err := c.transfers.FailStale(ctx, c.cfg.ApprovalTTL); err != nil {
			return err
		}
	}
	if c.chain == nil {
		return nil
	}

	pending, err := c.history.ListUnconfirmed(ctx, c.cfg.Batch)
	if err != nil {
		return err
	}
	unsettled := make([]int64, 0, len(pending))
	for _, entry := range pending {
		settled, err := c.confirm(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.WithError(err).WithField("tx_hash", entry.TxHash).Warn("transfer confirmation failed")
		}
		if !settled {
			unsettled = append(unsettled, entry.ID)
		}
	}
	if len(unsettled) == 0 {
		return nil
	}
	// checked rows go to the back of the queue
	return c.history.MarkChecked(ctx, unsettled)
}

func (c *Confirmer) confirm(ctx context.Context, entry models.TransferHistory) (bool, error) {
	chainID := c.cfg.ChainID
	if entry.ChainID != nil {
		chainID = *entry.ChainID
	}

	receipt, err := c.chain.Receipt(ctx, chainID, entry.TxHash)
	if errors.Is(err, ethereum.NotFound) {
		if c.cfg.PendingTTL <= 0 || c.now().Sub(entry.CreatedAt) < c.cfg.PendingTTL {
			return false, nil
		}
		if _, err := c.history.UpdateStatus(ctx, entry.TxHash, models.HistoryFailed, nil); err != nil {
			return false, err
		}
		logrus.WithFields(logrus.Fields{"tx_hash": entry.TxHash, "chain_id": chainID}).Warn("transfer never mined")
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "receipt %s on chain %d", entry.TxHash, chainID)
	}

	status := models.HistorySuccess
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = models.HistoryFailed
	}
	info := &models.BlockInfo{GasUsed: int64(receipt.GasUsed)}
	if receipt.BlockNumber != nil {
		info.BlockNumber = receipt.BlockNumber.Int64()
	}
	if receipt.EffectiveGasPrice != nil {
		info.GasPrice = decimal.NewFromBigInt(receipt.EffectiveGasPrice, 0)
	}

	changed, err := c.history.UpdateStatus(ctx, entry.TxHash, status, info)
	if err != nil {
		return false, err
	}
	if changed {
		logrus.WithFields(logrus.Fields{"tx_hash": entry.TxHash, "status": status}).Info("transfer confirmed")
	}
	return true, nil
}
