package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
)

const defaultLoginWindow = 300 * time.Second

type LoginInput struct {
	Address   string
	Signature string
	Timestamp int64
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
	IsAdmin   bool        `json:"is_admin"`
}

type AuthService struct {
	identity Identity
	tokens   TokenIssuer
	prefix   string
	window   time.Duration
	now      func() time.Time
}

func NewAuthService(identity Identity, tokens TokenIssuer, prefix string, window time.Duration) *AuthService {
	if window <= 0 {
		window = defaultLoginWindow
	}
	if prefix == "" {
		prefix = "wallet-dashboard-login"
	}
	return &AuthService{
		identity: identity,
		tokens:   tokens,
		prefix:   prefix,
		window:   window,
		now:      time.Now,
	}
}

// Login verifies a personal_sign signature over "<prefix>:<timestamp>" and
// counts the wallet connection.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	addr, err := wallet.NormalizeAddress(in.Address)
	if err != nil {
		return LoginResult{}, invalid(err.Error())
	}

	diff := s.now().Sub(time.Unix(in.Timestamp, 0))
	if diff < 0 {
		diff = -diff
	}
	if diff > s.window {
		return LoginResult{}, unauthorized("login message expired")
	}

	signer, err := wallet.RecoverSigner(wallet.LoginMessage(s.prefix, in.Timestamp), in.Signature)
	if err != nil || signer != addr {
		logrus.WithField("address", addr).Warn("login signature mismatch")
		return LoginResult{}, unauthorized("signature does not match address")
	}

	user, err := s.identity.RegisterLogin(ctx, addr)
	if err != nil {
		return LoginResult{}, err
	}
	isAdmin, err := s.identity.IsAdmin(ctx, addr)
	if err != nil {
		return LoginResult{}, err
	}

	token, expires, err := s.tokens.Issue(addr)
	if err != nil {
		logrus.WithError(err).Error("token issue failed")
		return LoginResult{}, &Error{Kind: KindUpstream, Message: "cannot issue token", Err: err}
	}
	return LoginResult{Token: token, ExpiresAt: expires, User: user, IsAdmin: isAdmin}, nil
}
