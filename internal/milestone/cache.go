package milestone

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
)

// payoffKey fingerprints a balance series. Two series with the same key are
// treated as the same payoff.
type payoffKey struct {
	loanID    string
	length    int
	start     int64
	end       int64
	first     string
	mid       string
	last      string
	loanCount int
	principal string
}

// payoffHit is a memoized payoff index; -1 when the loan never clears
type payoffHit struct {
	index int
}

// payoffCache is a bounded, expiring payoff memo. A nil cache stores nothing.
type payoffCache struct {
	lru *expirable.LRU[payoffKey, payoffHit]
}

func newPayoffCache(size int, ttl time.Duration) *payoffCache {
	if size <= 0 {
		return nil
	}
	return &payoffCache{lru: expirable.NewLRU[payoffKey, payoffHit](size, nil, ttl)}
}

func (c *payoffCache) get(k payoffKey) (payoffHit, bool) {
	if c == nil {
		return payoffHit{}, false
	}
	return c.lru.Get(k)
}

func (c *payoffCache) add(k payoffKey, v payoffHit) {
	if c == nil {
		return
	}
	c.lru.Add(k, v)
}

func (c *payoffCache) purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *payoffCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

func balanceKey(v decimal.Decimal, ok bool) string {
	if !ok {
		return "-"
	}
	return v.String()
}
