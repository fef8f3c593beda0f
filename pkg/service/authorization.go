package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/repository"
)

type AuthorizationService struct {
	repo   repository.Authorizations
	users  repository.Users
	admins repository.Admins
	audit  Auditor
	now    func() time.Time
}

func NewAuthorizationService(repo repository.Authorizations, users repository.Users, admins repository.Admins, audit Auditor) *AuthorizationService {
	return &AuthorizationService{
		repo:   repo,
		users:  users,
		admins: admins,
		audit:  audit,
		now:    time.Now,
	}
}

// Authorize grants adminAddress the right to request transfers from
// userAddress. The user row is created if the wallet has never connected.
func (s *AuthorizationService) Authorize(ctx context.Context, userAddress, adminAddress string, opts models.AuthorizeOptions) (models.Authorization, error) {
	userAddr, adminAddr, err := normalizePair(userAddress, adminAddress)
	if err != nil {
		return models.Authorization{}, err
	}
	if opts.AmountLimit.Valid && !opts.AmountLimit.Decimal.IsPositive() {
		return models.Authorization{}, invalid("amount limit must be positive")
	}
	if opts.ExpirationDate != nil && !opts.ExpirationDate.After(s.now()) {
		return models.Authorization{}, invalid("expiration date must be in the future")
	}

	admin, err := s.admins.GetActiveByWallet(ctx, adminAddr)
	if err != nil {
		return models.Authorization{}, storageError("authorize", err, "admin not found")
	}
	user, err := s.users.Ensure(ctx, userAddr)
	if err != nil {
		return models.Authorization{}, storageError("authorize", err, "user not found")
	}

	auth, err := s.repo.Upsert(ctx, user, admin, opts)
	if err != nil {
		return models.Authorization{}, storageError("authorize", err, "authorization not found")
	}

	s.audit.Append(ctx, AuditRecord{
		UserID:     &user.ID,
		Action:     ActionAuthorize,
		EntityType: "authorization",
		EntityID:   &auth.ID,
		NewValues: map[string]interface{}{
			"admin_address":   adminAddr,
			"expiration_date": opts.ExpirationDate,
			"amount_limit":    opts.AmountLimit,
			"notes":           opts.Notes,
		},
	})
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "admin_id": admin.ID}).Info("authorization granted")
	return auth, nil
}

func (s *AuthorizationService) Revoke(ctx context.Context, userAddress, adminAddress string) (models.Authorization, error) {
	userAddr, adminAddr, err := normalizePair(userAddress, adminAddress)
	if err != nil {
		return models.Authorization{}, err
	}

	user, err := s.users.GetByWallet(ctx, userAddr)
	if err != nil {
		return models.Authorization{}, storageError("revoke", err, "user not found")
	}
	// a deactivated admin can still be revoked
	admin, err := s.admins.GetByWallet(ctx, adminAddr)
	if err != nil {
		return models.Authorization{}, storageError("revoke", err, "admin not found")
	}

	before, err := s.repo.Get(ctx, user.ID, admin.ID)
	if err != nil {
		return models.Authorization{}, storageError("revoke", err, "authorization not found")
	}
	auth, err := s.repo.Revoke(ctx, user.ID, admin.ID)
	if err != nil {
		return models.Authorization{}, storageError("revoke", err, "authorization not found")
	}

	s.audit.Append(ctx, AuditRecord{
		UserID:     &user.ID,
		Action:     ActionRevoke,
		EntityType: "authorization",
		EntityID:   &auth.ID,
		OldValues:  map[string]interface{}{"authorized": before.Authorized},
		NewValues:  map[string]interface{}{"authorized": false, "admin_address": adminAddr},
	})
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "admin_id": admin.ID}).Info("authorization revoked")
	return auth, nil
}

// IsAuthorized evaluates expiry at call time. Missing identities are not an error.
func (s *AuthorizationService) IsAuthorized(ctx context.Context, userAddress, adminAddress string) (bool, error) {
	userAddr, adminAddr, err := normalizePair(userAddress, adminAddress)
	if err != nil {
		return false, err
	}

	user, err := s.users.GetByWallet(ctx, userAddr)
	if err != nil {
		return false, missingIsFalse("is authorized", err)
	}
	admin, err := s.admins.GetActiveByWallet(ctx, adminAddr)
	if err != nil {
		return false, missingIsFalse("is authorized", err)
	}
	auth, err := s.repo.Get(ctx, user.ID, admin.ID)
	if err != nil {
		return false, missingIsFalse("is authorized", err)
	}
	return auth.EffectiveAt(s.now()), nil
}

// Effective returns the authorization row for the pair when it is effective
// now, or NotFound.
func (s *AuthorizationService) Effective(ctx context.Context, userID, adminID int64) (models.Authorization, error) {
	auth, err := s.repo.Get(ctx, userID, adminID)
	if err != nil {
		return models.Authorization{}, storageError("effective authorization", err, "authorization not found")
	}
	if !auth.EffectiveAt(s.now()) {
		return models.Authorization{}, notFound("authorization not effective")
	}
	return auth, nil
}

func (s *AuthorizationService) ListAuthorizedUsers(ctx context.Context, adminAddress string) ([]models.AuthorizedUser, error) {
	adminAddr, err := wallet.NormalizeAddress(adminAddress)
	if err != nil {
		return nil, invalid(err.Error())
	}
	admin, err := s.admins.GetByWallet(ctx, adminAddr)
	if err != nil {
		if err = missingIsFalse("list authorized users", err); err == nil {
			return []models.AuthorizedUser{}, nil
		}
		return nil, err
	}
	users, err := s.repo.ListEffectiveByAdmin(ctx, admin.ID, s.now())
	return users, storageError("list authorized users", err, "admin not found")
}

func (s *AuthorizationService) ListAuthorizedAdmins(ctx context.Context, userAddress string) ([]models.AuthorizedAdmin, error) {
	userAddr, err := wallet.NormalizeAddress(userAddress)
	if err != nil {
		return nil, invalid(err.Error())
	}
	user, err := s.users.GetByWallet(ctx, userAddr)
	if err != nil {
		if err = missingIsFalse("list authorized admins", err); err == nil {
			return []models.AuthorizedAdmin{}, nil
		}
		return nil, err
	}
	admins, err := s.repo.ListEffectiveByUser(ctx, user.ID, s.now())
	return admins, storageError("list authorized admins", err, "user not found")
}

func normalizePair(userAddress, adminAddress string) (string, string, error) {
	userAddr, err := wallet.NormalizeAddress(userAddress)
	if err != nil {
		return "", "", invalid("user address: " + err.Error())
	}
	adminAddr, err := wallet.NormalizeAddress(adminAddress)
	if err != nil {
		return "", "", invalid("admin address: " + err.Error())
	}
	return userAddr, adminAddr, nil
}

// missingIsFalse swallows not-found and maps everything else.
func missingIsFalse(op string, err error) error {
	if err = storageError(op, err, ""); KindOf(err) == KindNotFound {
		return nil
	}
	return err
}
