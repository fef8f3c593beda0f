package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"wallet_dashboard_back/pkg/cache"
)

const coinGeckoAPI = "https://api.coingecko.com/api/v3"

// CoinGeckoFeed reads fiat prices from the CoinGecko simple price endpoint.
type CoinGeckoFeed struct {
	client *resty.Client
	cache  *cache.RateCache
}

func NewCoinGeckoFeed(baseURL, apiKey string, rates *cache.RateCache) *CoinGeckoFeed {
	if baseURL == "" {
		baseURL = coinGeckoAPI
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("x-cg-demo-api-key", apiKey)
	}
	return &CoinGeckoFeed{client: client, cache: rates}
}

func (f *CoinGeckoFeed) Price(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error) {
	coinID = strings.ToLower(coinID)
	vsCurrency = strings.ToLower(vsCurrency)
	key := coinID + "_" + vsCurrency

	if rate, found := f.cache.Get(key); found {
		return rate, nil
	}

	var data map[string]map[string]decimal.Decimal
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"ids": coinID, "vs_currencies": vsCurrency}).
		SetResult(&data).
		Get("/simple/price")
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "coingecko request")
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("coingecko returned %s", resp.Status())
	}

	rate, ok := data[coinID][vsCurrency]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("no %s price for %s", vsCurrency, coinID)
	}

	f.cache.Set(key, rate)
	return rate, nil
}
