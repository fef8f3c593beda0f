package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
)

type BalanceService struct {
	chain    ChainReader
	prices   PriceSource
	currency string
}

func NewBalanceService(chain ChainReader, prices PriceSource, currency string) *BalanceService {
	if currency == "" {
		currency = "usd"
	}
	return &BalanceService{chain: chain, prices: prices, currency: strings.ToLower(currency)}
}

// NativeBalance reads the native coin balance. A price feed failure leaves
// Value empty instead of failing the call.
func (s *BalanceService) NativeBalance(ctx context.Context, chainID int64, address string) (models.Balance, error) {
	addr, err := wallet.NormalizeAddress(address)
	if err != nil {
		return models.Balance{}, invalid(err.Error())
	}
	if s.chain == nil {
		return models.Balance{}, &Error{Kind: KindUpstream, Message: "chain client not configured"}
	}
	network, ok := s.chain.Network(chainID)
	if !ok {
		return models.Balance{}, notFound("unknown network")
	}

	wei, err := s.chain.BalanceAt(ctx, chainID, addr)
	if err != nil {
		logrus.WithError(err).WithField("chain_id", chainID).Error("balance query failed")
		return models.Balance{}, &Error{Kind: KindUpstream, Message: "chain rpc unavailable", Err: err}
	}

	balance := models.Balance{
		ChainID: chainID,
		Address: addr,
		Symbol:  network.Symbol,
		Wei:     wei.String(),
		Amount:  wallet.FromWei(wei, network.Decimals),
	}
	if s.prices == nil || network.CoinGeckoID == "" {
		return balance, nil
	}
	rate, err := s.prices.Price(ctx, network.CoinGeckoID, s.currency)
	if err != nil {
		logrus.WithError(err).WithField("coin", network.CoinGeckoID).Warn("price unavailable")
		return balance, nil
	}
	balance.Currency = s.currency
	balance.Value = decimal.NewNullDecimal(balance.Amount.Mul(rate).Round(2))
	return balance, nil
}

func (s *BalanceService) ListNetworks() []models.Network {
	if s.chain == nil {
		return []models.Network{}
	}
	return s.chain.Networks()
}
