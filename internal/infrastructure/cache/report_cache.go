package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"bizerp/pkg/logger"
)

const (
	keyPrefix    = "bizerp"
	bumpChannel  = "bizerp.cache.bump"
	defaultTTL   = 5 * time.Minute
	versionField = "version"
)

// ReportCache stores JSON encoded values under versioned keys.
// Invalidate bumps the namespace version so every older key becomes
// unreachable and expires on its own TTL.
type ReportCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string

	// Versions seen on the bump channel, used before asking Redis.
	mu       sync.RWMutex
	versions map[string]int64

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewReportCache creates a cache. namespace is the default namespace bumped
// by Invalidate. A nil client disables caching.
func NewReportCache(client *redis.Client, ttl time.Duration, namespace string) *ReportCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ReportCache{
		client:    client,
		ttl:       ttl,
		namespace: namespace,
		versions:  make(map[string]int64),
	}
}

func versionKey(namespace string) string {
	return strings.Join([]string{keyPrefix, namespace, versionField}, ":")
}

// Version returns the current namespace version, initialising it when missing.
func (c *ReportCache) Version(ctx context.Context, namespace string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}

	c.mu.RLock()
	ver, ok := c.versions[namespace]
	c.mu.RUnlock()
	if ok && ver > 0 {
		return ver, nil
	}

	ver, err := c.client.Get(ctx, versionKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX keeps a concurrent first writer's value.
		if err := c.client.SetNX(ctx, versionKey(namespace), 1, 0).Err(); err != nil {
			return 0, err
		}
		ver, err = c.client.Get(ctx, versionKey(namespace)).Int64()
	}
	if err != nil {
		return 0, err
	}
	c.remember(namespace, ver)
	return ver, nil
}

func (c *ReportCache) remember(namespace string, ver int64) {
	c.mu.Lock()
	if ver > c.versions[namespace] {
		c.versions[namespace] = ver
	}
	c.mu.Unlock()
}

// BuildKey composes a versioned key.
func (c *ReportCache) BuildKey(ctx context.Context, namespace, key string) (string, error) {
	ver, err := c.Version(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, namespace, ver, key), nil
}

// FetchJSON decodes the cached value for key into dst, or calls load,
// stores its JSON encoding and decodes that into dst. Redis failures degrade
// to calling load directly.
func (c *ReportCache) FetchJSON(ctx context.Context, namespace, key string, dst any, load func(ctx context.Context) (any, error)) error {
	if load == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return passThrough(ctx, dst, load)
	}

	fullKey, err := c.BuildKey(ctx, namespace, key)
	if err != nil {
		logger.Warn(ctx, "report cache unavailable", "error", err)
		return passThrough(ctx, dst, load)
	}

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dst)
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warn(ctx, "report cache read failed", "key", fullKey, "error", err)
		return passThrough(ctx, dst, load)
	}

	value, err := load(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, fullKey, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "report cache write failed", "key", fullKey, "error", err)
	}
	return json.Unmarshal(raw, dst)
}

// Bump increments the namespace version and publishes it.
func (c *ReportCache) Bump(ctx context.Context, namespace string) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey(namespace)).Result()
	if err != nil {
		return err
	}
	c.remember(namespace, ver)
	return c.client.Publish(ctx, bumpChannel, namespace+":"+strconv.FormatInt(ver, 10)).Err()
}

// Invalidate bumps the default namespace.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Bump(ctx, c.namespace)
}

// Start subscribes to version bumps published by other processes.
func (c *ReportCache) Start(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	if c.started {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	pubsub := c.client.Subscribe(ctx, bumpChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return fmt.Errorf("cache: subscribe: %w", err)
	}

	c.cancel = cancel
	c.started = true
	c.wg.Add(1)
	go c.listen(ctx, pubsub)
	logger.Info(ctx, "report cache listening", "channel", bumpChannel)
	return nil
}

func (c *ReportCache) listen(ctx context.Context, pubsub *redis.PubSub) {
	defer c.wg.Done()
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.handleBump(msg.Payload)
		}
	}
}

// handleBump applies "namespace:version"; anything else forgets all
// remembered versions so the next read asks Redis.
func (c *ReportCache) handleBump(payload string) {
	idx := strings.LastIndexByte(payload, ':')
	if idx > 0 {
		if ver, err := strconv.ParseInt(payload[idx+1:], 10, 64); err == nil {
			c.remember(payload[:idx], ver)
			return
		}
	}
	c.mu.Lock()
	clear(c.versions)
	c.mu.Unlock()
}

// Stop ends the subscription.
func (c *ReportCache) Stop() {
	if c == nil {
		return
	}
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.lifecycleMu.Unlock()

	cancel()
	c.wg.Wait()
}

// PassThrough is a cache that never stores anything.
type PassThrough struct{}

// FetchJSON implements reports.Cache by calling load.
func (PassThrough) FetchJSON(ctx context.Context, _, _ string, dst any, load func(ctx context.Context) (any, error)) error {
	return passThrough(ctx, dst, load)
}

// Invalidate implements domain.Invalidator.
func (PassThrough) Invalidate(context.Context) error { return nil }

func passThrough(ctx context.Context, dst any, load func(ctx context.Context) (any, error)) error {
	value, err := load(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
