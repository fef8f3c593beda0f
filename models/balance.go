package models

import "github.com/shopspring/decimal"

type Network struct {
	ChainID     int64  `json:"chain_id" mapstructure:"chain_id"`
	Name        string `json:"name" mapstructure:"name"`
	Symbol      string `json:"symbol" mapstructure:"symbol"`
	Decimals    int32  `json:"decimals" mapstructure:"decimals"`
	RPCURL      string `json:"-" mapstructure:"rpc_url"`
	Mode        string `json:"mode" mapstructure:"mode"`
	CoinGeckoID string `json:"-" mapstructure:"coingecko_id"`
	Explorer    string `json:"explorer,omitempty" mapstructure:"explorer"`
}

type Balance struct {
	ChainID  int64               `json:"chain_id"`
	Address  string              `json:"address"`
	Symbol   string              `json:"symbol"`
	Wei      string              `json:"wei"`
	Amount   decimal.Decimal     `json:"amount"`
	Currency string              `json:"currency,omitempty"`
	Value    decimal.NullDecimal `json:"value"`
}
