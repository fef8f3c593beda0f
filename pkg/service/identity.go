package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/repository"
)

type IdentityService struct {
	users  repository.Users
	admins repository.Admins
	audit  Auditor
}

func NewIdentityService(users repository.Users, admins repository.Admins, audit Auditor) *IdentityService {
	return &IdentityService{
		users:  users,
		admins: admins,
		audit:  audit,
	}
}

// RegisterLogin records a wallet connection. Concurrent calls for the same
// address are serialised by the storage upsert.
func (s *IdentityService) RegisterLogin(ctx context.Context, address string) (models.User, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.User{}, invalid(err.Error())
	}

	user, inserted, err := s.users.UpsertLogin(ctx, addr)
	if err != nil {
		return models.User{}, storageError("register login", err, "user not found")
	}

	action := ActionLogin
	if inserted {
		action = ActionRegister
	}
	s.audit.Append(ctx, AuditRecord{
		UserID:     &user.ID,
		Action:     action,
		EntityType: "user",
		EntityID:   &user.ID,
		NewValues:  map[string]interface{}{"wallet_address": addr, "total_logins": user.TotalLogins},
	})
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "action": action}).Info("wallet connected")
	return user, nil
}

func (s *IdentityService) GetByWallet(ctx context.Context, address string) (models.User, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.User{}, invalid(err.Error())
	}
	user, err := s.users.GetByWallet(ctx, addr)
	return user, storageError("get user", err, "user not found")
}

// EnsureUser creates the user without counting a login.
func (s *IdentityService) EnsureUser(ctx context.Context, address string) (models.User, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.User{}, invalid(err.Error())
	}
	user, err := s.users.Ensure(ctx, addr)
	return user, storageError("ensure user", err, "user not found")
}

func (s *IdentityService) IsAdmin(ctx context.Context, address string) (bool, error) {
	_, err := s.GetAdmin(ctx, address)
	if err == nil {
		return true, nil
	}
	if KindOf(err) == KindNotFound {
		return false, nil
	}
	return false, err
}

// GetAdmin returns the active admin for address.
func (s *IdentityService) GetAdmin(ctx context.Context, address string) (models.Admin, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.Admin{}, invalid(err.Error())
	}
	admin, err := s.admins.GetActiveByWallet(ctx, addr)
	return admin, storageError("get admin", err, "admin not found")
}

func (s *IdentityService) Stats(ctx context.Context, address string) (models.UserStats, error) {
	user, err := s.GetByWallet(ctx, address)
	if err != nil {
		return models.UserStats{}, err
	}
	stats, err := s.users.Stats(ctx, user.ID, user.WalletAddress)
	return stats, storageError("user stats", err, "user not found")
}

func (s *IdentityService) ProvisionAdmin(ctx context.Context, address, role string, permissions []string) (models.Admin, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.Admin{}, invalid(err.Error())
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = "admin"
	}
	admin, err := s.admins.Upsert(ctx, addr, role, permissions)
	if err != nil {
		return models.Admin{}, storageError("provision admin", err, "admin not found")
	}
	logrus.WithFields(logrus.Fields{"admin_id": admin.ID, "role": admin.Role}).Info("admin provisioned")
	return admin, nil
}

func (s *IdentityService) DeactivateAdmin(ctx context.Context, address string) error {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return invalid(err.Error())
	}
	return storageError("deactivate admin", s.admins.Deactivate(ctx, addr), "admin not found")
}

func (s *IdentityService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.List(ctx)
	return admins, storageError("list admins", err, "admin not found")
}
