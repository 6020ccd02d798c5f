// Package cache keeps computed schedules so each (date, location, method) is
// solved at most once, however many callers ask for it at the same time.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// DefaultSize is the number of schedules kept when New is given 0.
const DefaultSize = 64

// Key is a digest of every input that changes a schedule.
type Key string

// methodKey has Method's fields without its String method, so %#v prints
// every field.
type methodKey prayer.Method

// KeyFor builds the key for one day at one place under one method.
// Coordinates are printed in full so a hit always carries the requested
// location.
func KeyFor(date calendar.Date, loc astro.Location, m prayer.Method) Key {
	raw := fmt.Sprintf("%s|%v|%v|%v|%#v", date, loc.Latitude, loc.Longitude, loc.Elevation, methodKey(m))
	h := sha256.Sum256([]byte(raw))
	return Key(fmt.Sprintf("%x", h[:16]))
}

// Cache is a bounded map from Key to a published schedule. Published entries
// are never modified; readers get their own copy of the prayer list.
type Cache struct {
	entries      *lru.Cache[Key, prayer.Schedule]
	flights      singleflight.Group
	computations atomic.Int64
}

// New creates a Cache holding up to size schedules.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, prayer.Schedule](size)
	if err != nil {
		return nil, fmt.Errorf("cannot create schedule cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// GetOrCompute returns the schedule stored under key, calling compute when
// there is none. Concurrent callers with the same key share one call.
// Errors are returned to every waiting caller and are not stored.
func (c *Cache) GetOrCompute(key Key, compute func() (prayer.Schedule, error)) (prayer.Schedule, error) {
	if s, ok := c.entries.Get(key); ok {
		return s.Clone(), nil
	}

	v, err, _ := c.flights.Do(string(key), func() (any, error) {
		// A flight that finished between the Get above and this call has
		// already published the entry.
		if s, ok := c.entries.Get(key); ok {
			return s, nil
		}
		c.computations.Add(1)
		s, err := compute()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, s)
		return s, nil
	})
	if err != nil {
		return prayer.Schedule{}, err
	}
	return v.(prayer.Schedule).Clone(), nil
}

// Computations returns how many times a compute function has been called.
func (c *Cache) Computations() int64 {
	return c.computations.Load()
}

// Len returns the number of stored schedules.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every stored schedule.
func (c *Cache) Purge() {
	c.entries.Purge()
}
