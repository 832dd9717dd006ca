// Package embedding provides embedder decorators shared by the concrete
// implementations in the subpackages.
package embedding

import (
	"crypto/sha256"
	"sync"

	"coursechat/internal/domain"
)

// Cache memoizes embeddings keyed by a hash of the input text. It wraps any
// Embedder and is safe for concurrent use. The cache is invalidated on
// Prepare since corpus-trained embedders change their vector space there.
type Cache struct {
	inner domain.Embedder

	mu      sync.RWMutex
	entries map[[32]byte][]float64
}

func NewCache(inner domain.Embedder) *Cache {
	return &Cache{inner: inner, entries: make(map[[32]byte][]float64)}
}

func (c *Cache) Name() string { return c.inner.Name() }

func (c *Cache) Dimension() int { return c.inner.Dimension() }

// Prepare forwards to the wrapped embedder and drops all cached vectors.
func (c *Cache) Prepare(corpus []string) error {
	c.mu.Lock()
	c.entries = make(map[[32]byte][]float64)
	c.mu.Unlock()
	return c.inner.Prepare(corpus)
}

// Embed returns the cached vector for text when present, otherwise embeds
// and stores it.
func (c *Cache) Embed(text string) ([]float64, error) {
	key := sha256.Sum256([]byte(text))
	c.mu.RLock()
	vec, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(text)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = vec
	c.mu.Unlock()
	return vec, nil
}

// Len reports the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
