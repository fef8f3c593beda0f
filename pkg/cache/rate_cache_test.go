package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewRateCache(time.Minute)
	c.now = func() time.Time { return now }

	_, ok := c.Get("ethereum_usd")
	assert.False(t, ok)

	c.Set("ethereum_usd", decimal.RequireFromString("3100.5"))
	rate, ok := c.Get("ethereum_usd")
	assert.True(t, ok)
	assert.Equal(t, "3100.5", rate.String())

	now = now.Add(61 * time.Second)
	_, ok = c.Get("ethereum_usd")
	assert.False(t, ok)
}

func TestRateCacheDefaultTTL(t *testing.T) {
	assert.Equal(t, 10*time.Minute, NewRateCache(0).ttl)
}
