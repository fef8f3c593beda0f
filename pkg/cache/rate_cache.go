package cache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CachedRate struct {
	Rate      decimal.Decimal
	Timestamp time.Time
}

// RateCache keeps fiat rates keyed by "<coin>_<currency>".
type RateCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	rates map[string]CachedRate
	now   func() time.Time
}

func NewRateCache(ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RateCache{
		ttl:   ttl,
		rates: make(map[string]CachedRate),
		now:   time.Now,
	}
}

// Get returns the cached rate, or false when it is missing or stale.
func (c *RateCache) Get(key string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rateData, ok := c.rates[key]
	if !ok {
		return decimal.Zero, false
	}
	if c.now().Sub(rateData.Timestamp) > c.ttl {
		delete(c.rates, key)
		return decimal.Zero, false
	}

	logrus.WithField("key", key).Debug("rate served from cache")
	return rateData.Rate, true
}

func (c *RateCache) Set(key string, rate decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[key] = CachedRate{
		Rate:      rate,
		Timestamp: c.now(),
	}
	logrus.WithField("key", key).Debug("rate cached")
}
