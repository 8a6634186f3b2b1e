// Package cache stores job searches and their project bundles in Redis
// between the search, evidence and save steps.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/evidence-matcher/internal/types"
	"github.com/redis/go-redis/v9"
)

const (
	recentSearchesKey = "recent_searches"
	metadataPrefix    = "search_metadata:"
	uxInfoPrefix      = "ux_info:"

	// DefaultRecentLimit is how many searches RecentSearches returns by default.
	DefaultRecentLimit = 5
)

// ErrNotFound is returned when a key is missing or has expired.
var ErrNotFound = errors.New("cache: not found")

// SearchMetadata describes a cached search for the recent-searches view.
type SearchMetadata struct {
	SearchID   string                 `json:"job_search_id"`
	Parameters types.SearchParameters `json:"parameters"`
	Timestamp  time.Time              `json:"timestamp"`
	JobCount   int                    `json:"job_count"`
}

// Cache is a Redis-backed session cache. All keys expire after ttl.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl, now: time.Now}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return New(client, ttl), nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// UxInfoKey returns the key a search's project bundle is stored under.
func UxInfoKey(searchID string) string {
	return uxInfoPrefix + searchID
}

// PutSearch caches the listings of a search and records it as recent.
func (c *Cache) PutSearch(ctx context.Context, searchID string, params types.SearchParameters, listings []types.JobListing) error {
	meta := SearchMetadata{
		SearchID:   searchID,
		Parameters: params,
		Timestamp:  c.now().UTC(),
		JobCount:   len(listings),
	}

	listingsJSON, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to marshal listings: %w", err)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal search metadata: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, searchID, listingsJSON, c.ttl)
		pipe.Set(ctx, metadataPrefix+searchID, metaJSON, c.ttl)
		pipe.ZAdd(ctx, recentSearchesKey, redis.Z{Score: float64(meta.Timestamp.UnixNano()), Member: searchID})
		pipe.Expire(ctx, recentSearchesKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache search %s: %w", searchID, err)
	}
	return nil
}

// GetSearch returns the listings of a cached search.
func (c *Cache) GetSearch(ctx context.Context, searchID string) ([]types.JobListing, error) {
	var listings []types.JobListing
	if err := c.getJSON(ctx, searchID, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetSearchMetadata returns the metadata recorded for a cached search.
func (c *Cache) GetSearchMetadata(ctx context.Context, searchID string) (*SearchMetadata, error) {
	var meta SearchMetadata
	if err := c.getJSON(ctx, metadataPrefix+searchID, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// PutUxInfo caches the project bundle generated for a search.
func (c *Cache) PutUxInfo(ctx context.Context, searchID string, info *types.UxInformation) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal ux info: %w", err)
	}
	if err := c.client.Set(ctx, UxInfoKey(searchID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache ux info %s: %w", searchID, err)
	}
	return nil
}

// GetUxInfo returns the project bundle stored under key. Both a bare search
// id and a full "ux_info:<id>" key are accepted.
func (c *Cache) GetUxInfo(ctx context.Context, key string) (*types.UxInformation, error) {
	if len(key) < len(uxInfoPrefix) || key[:len(uxInfoPrefix)] != uxInfoPrefix {
		key = UxInfoKey(key)
	}
	var info types.UxInformation
	if err := c.getJSON(ctx, key, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RecentSearches returns metadata for up to limit searches, newest first.
// Searches whose metadata has expired are skipped.
func (c *Cache) RecentSearches(ctx context.Context, limit int) ([]SearchMetadata, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	ids, err := c.client.ZRevRange(ctx, recentSearchesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent searches: %w", err)
	}

	recent := []SearchMetadata{}
	for _, id := range ids {
		var meta SearchMetadata
		err := c.getJSON(ctx, metadataPrefix+id, &meta)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recent = append(recent, meta)
	}
	return recent, nil
}

func (c *Cache) getJSON(ctx context.Context, key string, v any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
