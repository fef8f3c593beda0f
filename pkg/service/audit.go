package service

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/repository"
)

const (
	ActionRegister              = "register"
	ActionLogin                 = "login"
	ActionAuthorize             = "authorize"
	ActionRevoke                = "revoke"
	ActionCreateTransferRequest = "create_transfer_request"
	ActionApproveTransfer       = "approve_transfer_request"
	ActionRejectTransfer        = "reject_transfer_request"
	ActionCompleteTransfer      = "complete_transfer_request"
	ActionFailTransfer          = "fail_transfer_request"
	ActionSaveTransferHistory   = "save_transfer_history"
	ActionConfirmTransfer       = "confirm_transfer"
	ActionAddContact            = "add_contact"
	ActionDeleteContact         = "delete_contact"
)

// AuditRecord is what callers hand to Append. Values are marshalled to JSON.
type AuditRecord struct {
	UserID     *int64
	Action     string
	EntityType string
	EntityID   *int64
	OldValues  interface{}
	NewValues  interface{}
}

type AuditService struct {
	repo repository.AuditLog
}

func NewAuditService(repo repository.AuditLog) *AuditService {
	return &AuditService{repo: repo}
}

// Append writes one entry. Failures are logged and never returned.
func (s *AuditService) Append(ctx context.Context, rec AuditRecord) {
	meta := MetaFrom(ctx)
	entry := models.AuditEntry{
		UserID:     rec.UserID,
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		OldValues:  marshalValues(rec.OldValues),
		NewValues:  marshalValues(rec.NewValues),
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}
	if meta.RequestID != "" {
		entry.RequestID = &meta.RequestID
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action": rec.Action,
			"entity": rec.EntityType,
		}).Warn("audit write failed")
	}
}

func marshalValues(v interface{}) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Warn("audit values not serialisable")
		return nil
	}
	return b
}
