package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL.
// DeleteBytes exists so a reclassification can drop stale API responses for
// a ticker immediately instead of waiting out the TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	DeleteBytes(key string) error
}
