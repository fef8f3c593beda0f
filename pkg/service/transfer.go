package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/notify"
	"wallet_dashboard_back/pkg/repository"
)

const (
	maxReasonLength = 500
	staleBatch      = 100

	reasonApprovalExpired = "approval expired"
)

// AuthorizationGate resolves the authorization a request is made under.
type AuthorizationGate interface {
	Effective(ctx context.Context, userID, adminID int64) (models.Authorization, error)
}

type TransferService struct {
	repo     repository.TransferRequests
	gate     AuthorizationGate
	users    repository.Users
	admins   repository.Admins
	audit    Auditor
	notifier notify.Notifier
	now      func() time.Time
}

func NewTransferService(
	repo repository.TransferRequests,
	gate AuthorizationGate,
	users repository.Users,
	admins repository.Admins,
	audit Auditor,
	notifier notify.Notifier,
) *TransferService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &TransferService{
		repo:     repo,
		gate:     gate,
		users:    users,
		admins:   admins,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateRequest inserts a pending request. The caller is expected to have
// checked the authorization; the link is only recorded.
func (s *TransferService) CreateRequest(ctx context.Context, in models.CreateRequestInput) (int64, error) {
	if in.FromUserID <= 0 || in.ToAdminID <= 0 {
		return 0, invalid("user and admin ids are required")
	}
	fromAddr, err := wallet.NormalizeAddress(in.FromAddress)
	if err != nil {
		return 0, invalid("from address: " + err.Error())
	}
	toAddr, err := wallet.NormalizeAddress(in.ToAddress)
	if err != nil {
		return 0, invalid("to address: " + err.Error())
	}
	amount, err := wallet.ParseAmount(in.Amount)
	if err != nil {
		return 0, invalid(err.Error())
	}

	id, err := s.repo.Create(ctx, models.TransferRequest{
		AuthorizationID: in.AuthorizationID,
		FromUserID:      in.FromUserID,
		ToAdminID:       in.ToAdminID,
		FromAddress:     fromAddr,
		ToAddress:       toAddr,
		Amount:          amount,
	})
	if err != nil {
		return 0, storageError("create request", err, "user or admin not found")
	}

	// the admin's own users row, when the admin wallet has ever connected
	var actor *int64
	if u, err := s.users.GetByWallet(ctx, toAddr); err == nil {
		actor = &u.ID
	}
	s.audit.Append(ctx, AuditRecord{
		UserID:     actor,
		Action:     ActionCreateTransferRequest,
		EntityType: "transfer_request",
		EntityID:   &id,
		NewValues: map[string]interface{}{
			"admin_id":     in.ToAdminID,
			"from_user_id": in.FromUserID,
			"amount":       amount.String(),
			"status":       models.RequestPending,
		},
	})
	logrus.WithFields(logrus.Fields{"request_id": id, "admin_id": in.ToAdminID, "user_id": in.FromUserID}).Info("transfer request created")

	s.notifyAsync(notify.NewTransferRequest(id, fromAddr, toAddr, amount.String()))
	return id, nil
}

// RequestTransfer is the admin-facing entry point: it resolves both
// identities, requires an effective authorization and enforces its amount limit.
func (s *TransferService) RequestTransfer(ctx context.Context, adminAddress, userAddress, amount string) (models.TransferRequest, error) {
	userAddr, adminAddr, err := normalizePair(userAddress, adminAddress)
	if err != nil {
		return models.TransferRequest{}, err
	}
	value, err := wallet.ParseAmount(amount)
	if err != nil {
		return models.TransferRequest{}, invalid(err.Error())
	}

	admin, err := s.admins.GetActiveByWallet(ctx, adminAddr)
	if err != nil {
		return models.TransferRequest{}, storageError("request transfer", err, "admin not found")
	}
	user, err := s.users.GetByWallet(ctx, userAddr)
	if err != nil {
		return models.TransferRequest{}, storageError("request transfer", err, "user not found")
	}

	auth, err := s.gate.Effective(ctx, user.ID, admin.ID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return models.TransferRequest{}, forbidden("admin is not authorized by this user")
		}
		return models.TransferRequest{}, err
	}
	if auth.AmountLimit.Valid && value.GreaterThan(auth.AmountLimit.Decimal) {
		return models.TransferRequest{}, invalid("amount exceeds authorization limit of " + auth.AmountLimit.Decimal.String())
	}

	id, err := s.CreateRequest(ctx, models.CreateRequestInput{
		FromUserID:      user.ID,
		ToAdminID:       admin.ID,
		FromAddress:     user.WalletAddress,
		ToAddress:       admin.WalletAddress,
		Amount:          value.String(),
		AuthorizationID: &auth.ID,
	})
	if err != nil {
		return models.TransferRequest{}, err
	}
	return s.Get(ctx, id)
}

// Approve records the user's consent. The wallet prompt follows; its outcome
// is reported through Complete or Fail.
func (s *TransferService) Approve(ctx context.Context, requestID, userID int64) (models.TransferRequest, error) {
	if _, err := s.owned(ctx, requestID, userID, models.RequestPending); err != nil {
		return models.TransferRequest{}, err
	}
	req, err := s.repo.Respond(ctx, requestID, models.RequestApproved, nil)
	if err != nil {
		return models.TransferRequest{}, storageError("approve", err, "request not found")
	}
	s.transitioned(ctx, req, userID, ActionApproveTransfer, models.RequestPending)
	return req, nil
}

func (s *TransferService) Reject(ctx context.Context, requestID, userID int64, reason string) (models.TransferRequest, error) {
	reason, err := cleanReason(reason)
	if err != nil {
		return models.TransferRequest{}, err
	}
	if _, err := s.owned(ctx, requestID, userID, models.RequestPending); err != nil {
		return models.TransferRequest{}, err
	}
	var stored *string
	if reason != "" {
		stored = &reason
	}
	req, err := s.repo.Respond(ctx, requestID, models.RequestRejected, stored)
	if err != nil {
		return models.TransferRequest{}, storageError("reject", err, "request not found")
	}
	s.transitioned(ctx, req, userID, ActionRejectTransfer, models.RequestPending)
	return req, nil
}

// Complete stores the hash of the submitted transaction and writes the
// history row, which stays pending until the confirmer sees a receipt.
func (s *TransferService) Complete(ctx context.Context, requestID int64, txHash string, userID int64) (models.TransferRequest, error) {
	hash, err := wallet.NormalizeTxHash(txHash)
	if err != nil {
		return models.TransferRequest{}, invalid(err.Error())
	}
	current, err := s.owned(ctx, requestID, userID, models.RequestApproved)
	if err != nil {
		return models.TransferRequest{}, err
	}

	req, err := s.repo.Complete(ctx, requestID, hash, models.TransferHistory{
		UserID:            current.FromUserID,
		TransferRequestID: &current.ID,
		UserAddress:       current.FromAddress,
		TxHash:            hash,
		Amount:            current.Amount,
		TransferType:      models.TransferAdminRequest,
		Status:            models.HistoryPending,
	})
	if err != nil {
		return models.TransferRequest{}, storageError("complete", err, "request not found")
	}
	s.transitioned(ctx, req, userID, ActionCompleteTransfer, models.RequestApproved)
	return req, nil
}

func (s *TransferService) Fail(ctx context.Context, requestID, userID int64, reason string) (models.TransferRequest, error) {
	reason, err := cleanReason(reason)
	if err != nil {
		return models.TransferRequest{}, err
	}
	if reason == "" {
		return models.TransferRequest{}, invalid("failure reason is required")
	}
	if _, err := s.owned(ctx, requestID, userID, models.RequestApproved); err != nil {
		return models.TransferRequest{}, err
	}
	req, err := s.repo.Fail(ctx, requestID, reason)
	if err != nil {
		return models.TransferRequest{}, storageError("fail", err, "request not found")
	}
	s.transitioned(ctx, req, userID, ActionFailTransfer, models.RequestApproved)
	return req, nil
}

// FailStale fails approvals whose wallet outcome never arrived.
func (s *TransferService) FailStale(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.repo.ListApprovedBefore(ctx, s.now().Add(-olderThan), staleBatch)
	if err != nil {
		return 0, storageError("fail stale", err, "")
	}
	failed := 0
	for _, r := range stale {
		req, err := s.repo.Fail(ctx, r.ID, reasonApprovalExpired)
		if err != nil {
			serr := storageError("fail stale", err, "")
			if KindOf(serr) == KindAlreadyResolved {
				continue
			}
			return failed, serr
		}
		failed++
		s.transitioned(ctx, req, 0, ActionFailTransfer, models.RequestApproved)
	}
	if failed > 0 {
		logrus.WithField("count", failed).Info("expired stale approvals")
	}
	return failed, nil
}

func (s *TransferService) Get(ctx context.Context, requestID int64) (models.TransferRequest, error) {
	req, err := s.repo.Get(ctx, requestID)
	return req, storageError("get request", err, "request not found")
}

func (s *TransferService) ListPending(ctx context.Context, userID int64) ([]models.TransferRequest, error) {
	return s.ListForUser(ctx, userID, models.RequestPending)
}

func (s *TransferService) ListForUser(ctx context.Context, userID int64, status string) ([]models.TransferRequest, error) {
	if err := validStatus(status); err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListByUser(ctx, userID, status)
	return reqs, storageError("list user requests", err, "")
}

func (s *TransferService) ListForAdmin(ctx context.Context, adminID int64, status string) ([]models.TransferRequest, error) {
	if err := validStatus(status); err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListByAdmin(ctx, adminID, status)
	return reqs, storageError("list admin requests", err, "")
}

func (s *TransferService) ReceivedSummary(ctx context.Context, adminID int64) (models.ReceivedSummary, error) {
	reqs, err := s.ListForAdmin(ctx, adminID, models.RequestCompleted)
	if err != nil {
		return models.ReceivedSummary{}, err
	}
	total := decimal.Zero
	for _, r := range reqs {
		total = total.Add(r.Amount)
	}
	return models.ReceivedSummary{Requests: reqs, Total: total, Count: len(reqs)}, nil
}

// owned loads the request and checks ownership and the expected status in
// that order, so callers get NotFound before Forbidden before AlreadyResolved.
func (s *TransferService) owned(ctx context.Context, requestID, userID int64, status string) (models.TransferRequest, error) {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return req, storageError("load request", err, "request not found")
	}
	if req.FromUserID != userID {
		return req, forbidden("request belongs to another user")
	}
	if req.Status != status {
		return req, alreadyResolved("request is " + req.Status)
	}
	return req, nil
}

func (s *TransferService) transitioned(ctx context.Context, req models.TransferRequest, userID int64, action, from string) {
	var actor *int64
	if userID > 0 {
		actor = &userID
	}
	values := map[string]interface{}{"status": req.Status}
	if req.TxHash != nil {
		values["tx_hash"] = *req.TxHash
	}
	if req.RejectionReason != nil {
		values["reason"] = *req.RejectionReason
	}
	s.audit.Append(ctx, AuditRecord{
		UserID:     actor,
		Action:     action,
		EntityType: "transfer_request",
		EntityID:   &req.ID,
		OldValues:  map[string]interface{}{"status": from},
		NewValues:  values,
	})
	logrus.WithFields(logrus.Fields{"request_id": req.ID, "status": req.Status}).Info("transfer request updated")
}

func (s *TransferService) notifyAsync(msg notify.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, msg); err != nil {
			logrus.WithError(err).Warn("notification failed")
		}
	}()
}

func cleanReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLength {
		return "", invalid("reason is too long")
	}
	return reason, nil
}

func validStatus(status string) error {
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected, models.RequestCompleted, models.RequestFailed:
		return nil
	}
	return invalid("unknown status " + status)
}
