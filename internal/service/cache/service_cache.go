package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "DivScope/pkg/cache"
)

// ServiceCache adapts the shared cache service to the byte-oriented API the
// handlers and the processor use. Values round-trip as strings, which the
// service stores raw.
type ServiceCache struct {
	svc pkgcache.Service
}

func NewServiceCache(svc pkgcache.Service) *ServiceCache {
	return &ServiceCache{svc: svc}
}

func (s *ServiceCache) GetBytes(key string) ([]byte, bool, error) {
	var v string
	if err := s.svc.Get(context.Background(), key, &v); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (s *ServiceCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return s.svc.Set(context.Background(), key, string(value), ttl)
}

func (s *ServiceCache) DeleteBytes(key string) error {
	return s.svc.Delete(context.Background(), key)
}
