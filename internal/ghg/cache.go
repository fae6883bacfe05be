package ghg

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// SummaryCache keeps computed summaries per user and ledger revision.
type SummaryCache struct {
	data    map[string]*cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
	cleanup *time.Ticker
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	value      Summary
	expiration time.Time
}

// NewSummaryCache creates a cache and starts its cleanup loop.
func NewSummaryCache(ttl time.Duration) *SummaryCache {
	cache := &SummaryCache{
		data:    make(map[string]*cacheEntry),
		ttl:     ttl,
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

func summaryKey(userID string, revision uint64) string {
	return userID + ":" + strconv.FormatUint(revision, 10)
}

// Get retrieves the summary for userID at revision.
func (c *SummaryCache) Get(userID string, revision uint64) (Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[summaryKey(userID, revision)]
	if !ok || time.Now().After(entry.expiration) {
		return Summary{}, false
	}
	return entry.value, true
}

// Set stores a summary for userID at revision.
func (c *SummaryCache) Set(userID string, revision uint64, value Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[summaryKey(userID, revision)] = &cacheEntry{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// Invalidate drops every cached summary for userID.
func (c *SummaryCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := userID + ":"
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// GetOrCompute returns the cached summary or computes and stores it.
func (c *SummaryCache) GetOrCompute(userID string, revision uint64, compute func() Summary) Summary {
	if value, ok := c.Get(userID, revision); ok {
		return value
	}
	value := compute()
	c.Set(userID, revision, value)
	return value
}

func (c *SummaryCache) cleanupLoop() {
	for {
		select {
		case <-c.cleanup.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *SummaryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (c *SummaryCache) Stop() {
	c.once.Do(func() {
		c.cleanup.Stop()
		close(c.done)
	})
}
