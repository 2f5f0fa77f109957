package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Environment variables backing the runtime flags.
const (
	EnvEnabled         = "SHOPRAG_ENABLED"
	EnvShadowWrite     = "SHOPRAG_SHADOW_WRITE"
	EnvShadowRead      = "SHOPRAG_SHADOW_READ"
	EnvMinSimilarity   = "SHOPRAG_MIN_SIMILARITY"
	EnvEmbeddingModel  = "SHOPRAG_EMBEDDING_MODEL"
	EnvCompletionModel = "SHOPRAG_COMPLETION_MODEL"
)

const (
	defaultMinSimilarity   = 0.75
	defaultEmbeddingModel  = "text-embedding-3-small"
	defaultCompletionModel = "gpt-4o-mini"
)

// Flags are the runtime toggles of the multi-language pipeline. They are
// read from the environment so operators can flip them without a deploy.
//
// Enabled is the global cutover switch for serving customer answers from
// this pipeline. No package in the module reads it: the serving
// integration that picks between the legacy path and this one does, the
// same place the per-shop ShopSettings gate is checked.
type Flags struct {
	Enabled         bool
	ShadowWrite     bool
	ShadowRead      bool
	MinSimilarity   float64
	EmbeddingModel  string
	CompletionModel string
}

// FlagCache serves Flags with a TTL so every request does not hit the
// environment, while still picking up operator changes after the TTL.
// Invalidate forces a reload on the next Get; tests call it after
// changing the environment.
type FlagCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	loadedAt time.Time
	flags    Flags
	load     func() Flags
	now      func() time.Time
}

// NewFlagCache builds a cache that reloads from the environment at most
// once per ttl. A non-positive ttl disables caching entirely.
func NewFlagCache(ttl time.Duration) *FlagCache {
	return &FlagCache{ttl: ttl, load: loadFlagsFromEnv, now: time.Now}
}

// Get returns the cached flags, reloading when the TTL has elapsed.
func (c *FlagCache) Get() Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadedAt.IsZero() || c.ttl <= 0 || c.now().Sub(c.loadedAt) >= c.ttl {
		c.flags = c.load()
		c.loadedAt = c.now()
	}
	return c.flags
}

// Invalidate drops the cached value so the next Get reloads.
func (c *FlagCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadedAt = time.Time{}
}

func loadFlagsFromEnv() Flags {
	return Flags{
		Enabled:         envBool(EnvEnabled, false),
		ShadowWrite:     envBool(EnvShadowWrite, false),
		ShadowRead:      envBool(EnvShadowRead, false),
		MinSimilarity:   envFloat(EnvMinSimilarity, defaultMinSimilarity),
		EmbeddingModel:  envString(EnvEmbeddingModel, defaultEmbeddingModel),
		CompletionModel: envString(EnvCompletionModel, defaultCompletionModel),
	}
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
