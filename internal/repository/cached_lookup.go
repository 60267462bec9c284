package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"

	"github.com/baq-transit/service-routing/internal/domain/network"
)

// CacheMetrics is notified when the cache is purged.
type CacheMetrics interface {
	CachePurgeInc()
}

// CachedLookup decorates a network.Lookup with an LRU cache for the id and
// trunk lookups. Proximity searches always reach the backing store. Errors,
// including not-found, are never cached.
type CachedLookup struct {
	network.Lookup
	cache   gcache.Cache
	metrics CacheMetrics
}

// NewCachedLookup caches up to size entries for ttl. m may be nil.
func NewCachedLookup(next network.Lookup, size int, ttl time.Duration, m CacheMetrics) *CachedLookup {
	return &CachedLookup{
		Lookup: next,
		cache: gcache.New(size).
			LRU().
			Expiration(ttl).
			Build(),
		metrics: m,
	}
}

func (c *CachedLookup) StationByID(ctx context.Context, id uuid.UUID) (*network.Station, error) {
	key := "station:" + id.String()
	if cached, err := c.cache.Get(key); err == nil {
		if station, ok := cached.(network.Station); ok {
			return &station, nil
		}
	}
	station, err := c.Lookup.StationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(key, *station)
	return station, nil
}

func (c *CachedLookup) RouteByID(ctx context.Context, id uuid.UUID) (*network.Route, error) {
	key := "route:" + id.String()
	if cached, err := c.cache.Get(key); err == nil {
		if route, ok := cached.(network.Route); ok {
			return &route, nil
		}
	}
	route, err := c.Lookup.RouteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(key, *route)
	return route, nil
}

func (c *CachedLookup) TrunkConnectionsBetween(ctx context.Context, startID, finalID uuid.UUID, limit int) ([]network.TrunkConnection, error) {
	key := fmt.Sprintf("trunk:%s:%s:%d", startID, finalID, limit)
	if cached, err := c.cache.Get(key); err == nil {
		if conns, ok := cached.([]network.TrunkConnection); ok {
			return append([]network.TrunkConnection(nil), conns...), nil
		}
	}
	conns, err := c.Lookup.TrunkConnectionsBetween(ctx, startID, finalID, limit)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(key, append([]network.TrunkConnection(nil), conns...))
	return conns, nil
}

// Purge drops every cached entry.
func (c *CachedLookup) Purge() {
	c.cache.Purge()
	if c.metrics != nil {
		c.metrics.CachePurgeInc()
	}
}

// Len reports the number of live entries.
func (c *CachedLookup) Len() int {
	return c.cache.Len(true)
}
