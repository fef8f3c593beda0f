package service

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/notify"
	"wallet_dashboard_back/pkg/repository"
)

type Identity interface {
	RegisterLogin(ctx context.Context, address string) (models.User, error)
	GetByWallet(ctx context.Context, address string) (models.User, error)
	EnsureUser(ctx context.Context, address string) (models.User, error)
	IsAdmin(ctx context.Context, address string) (bool, error)
	GetAdmin(ctx context.Context, address string) (models.Admin, error)
	Stats(ctx context.Context, address string) (models.UserStats, error)
	ProvisionAdmin(ctx context.Context, address, role string, permissions []string) (models.Admin, error)
	DeactivateAdmin(ctx context.Context, address string) error
	ListAdmins(ctx context.Context) ([]models.Admin, error)
}

type Authorization interface {
	Authorize(ctx context.Context, userAddress, adminAddress string, opts models.AuthorizeOptions) (models.Authorization, error)
	Revoke(ctx context.Context, userAddress, adminAddress string) (models.Authorization, error)
	IsAuthorized(ctx context.Context, userAddress, adminAddress string) (bool, error)
	Effective(ctx context.Context, userID, adminID int64) (models.Authorization, error)
	ListAuthorizedUsers(ctx context.Context, adminAddress string) ([]models.AuthorizedUser, error)
	ListAuthorizedAdmins(ctx context.Context, userAddress string) ([]models.AuthorizedAdmin, error)
}

type Transfer interface {
	CreateRequest(ctx context.Context, in models.CreateRequestInput) (int64, error)
	RequestTransfer(ctx context.Context, adminAddress, userAddress, amount string) (models.TransferRequest, error)
	Approve(ctx context.Context, requestID, userID int64) (models.TransferRequest, error)
	Reject(ctx context.Context, requestID, userID int64, reason string) (models.TransferRequest, error)
	Complete(ctx context.Context, requestID int64, txHash string, userID int64) (models.TransferRequest, error)
	Fail(ctx context.Context, requestID, userID int64, reason string) (models.TransferRequest, error)
	FailStale(ctx context.Context, olderThan time.Duration) (int, error)
	Get(ctx context.Context, requestID int64) (models.TransferRequest, error)
	ListPending(ctx context.Context, userID int64) ([]models.TransferRequest, error)
	ListForUser(ctx context.Context, userID int64, status string) ([]models.TransferRequest, error)
	ListForAdmin(ctx context.Context, adminID int64, status string) ([]models.TransferRequest, error)
	ReceivedSummary(ctx context.Context, adminID int64) (models.ReceivedSummary, error)
}

type History interface {
	Record(ctx context.Context, in models.RecordInput) (models.TransferHistory, error)
	UpdateStatus(ctx context.Context, txHash, status string, info *models.BlockInfo) (bool, error)
	ListByAddress(ctx context.Context, address string, limit int) ([]models.TransferHistory, error)
	ListUnconfirmed(ctx context.Context, limit int) ([]models.TransferHistory, error)
	MarkChecked(ctx context.Context, ids []int64) error
}

type Contacts interface {
	List(ctx context.Context, owner string) ([]models.Contact, error)
	Add(ctx context.Context, owner, name, address string) (models.Contact, error)
	Delete(ctx context.Context, owner string, id int64) error
}

type Balance interface {
	NativeBalance(ctx context.Context, chainID int64, address string) (models.Balance, error)
	ListNetworks() []models.Network
}

type Auth interface {
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
}

type Auditor interface {
	Append(ctx context.Context, rec AuditRecord)
}

// ChainReader is the read-only chain collaborator.
type ChainReader interface {
	BalanceAt(ctx context.Context, chainID int64, address string) (*big.Int, error)
	Network(chainID int64) (models.Network, bool)
	Networks() []models.Network
}

type PriceSource interface {
	Price(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error)
}

type TokenIssuer interface {
	Issue(address string) (string, time.Time, error)
}

type Service struct {
	Identity
	Authorization
	Transfer
	History
	Contacts
	Balance
	Auth
}

type Config struct {
	LoginPrefix string
	LoginWindow time.Duration
	Currency    string
}

type Deps struct {
	Chain    ChainReader
	Prices   PriceSource
	Tokens   TokenIssuer
	Notifier notify.Notifier
}

func NewService(repos *repository.Repository, deps Deps, cfg Config) *Service {
	audit := NewAuditService(repos.AuditLog)
	identity := NewIdentityService(repos.Users, repos.Admins, audit)
	authorization := NewAuthorizationService(repos.Authorizations, repos.Users, repos.Admins, audit)
	return &Service{
		Identity:      identity,
		Authorization: authorization,
		Transfer:      NewTransferService(repos.TransferRequests, authorization, repos.Users, repos.Admins, audit, deps.Notifier),
		History:       NewHistoryService(repos.TransferHistory, audit),
		Contacts:      NewContactService(repos.Contacts, audit),
		Balance:       NewBalanceService(deps.Chain, deps.Prices, cfg.Currency),
		Auth:          NewAuthService(identity, deps.Tokens, cfg.LoginPrefix, cfg.LoginWindow),
	}
}
