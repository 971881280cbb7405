package store

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ KV = (*CachedKV)(nil)

// CachedKV is a write-through read cache in front of a slower KV.
type CachedKV struct {
	kv            KV
	cache         *freecache.Cache
	expireSeconds int
}

func NewCachedKV(kv KV, cacheSizeBytes int, expireSeconds int) *CachedKV {
	return &CachedKV{
		kv:            kv,
		cache:         freecache.NewCache(cacheSizeBytes),
		expireSeconds: expireSeconds,
	}
}

func (c *CachedKV) Get(ctx context.Context, key string) ([]byte, error) {
	if value, err := c.cache.Get([]byte(key)); err == nil {
		return value, nil
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("store cache get %s: %s", key, err)
	}

	value, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.put(key, value)
	return value, nil
}

func (c *CachedKV) Set(ctx context.Context, key string, value []byte) error {
	// drop first, a failed write must not leave the old value cached
	c.cache.Del([]byte(key))
	if err := c.kv.Set(ctx, key, value); err != nil {
		return err
	}
	c.put(key, value)
	return nil
}

func (c *CachedKV) Delete(ctx context.Context, key string) error {
	c.cache.Del([]byte(key))
	return c.kv.Delete(ctx, key)
}

func (c *CachedKV) put(key string, value []byte) {
	if err := c.cache.Set([]byte(key), value, c.expireSeconds); err != nil {
		// entries over 1/1024 of the cache size are rejected, reads then go to the backend
		log.Debugf("store cache set %s (%d bytes): %s", key, len(value), err)
		c.cache.Del([]byte(key))
	}
}

func (c *CachedKV) EntryCount() int64 {
	return c.cache.EntryCount()
}
