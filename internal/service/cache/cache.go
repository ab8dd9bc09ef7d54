package cache

import "time"

// BytesCache stores pre-serialized API responses keyed by request shape.
// Implementations must treat a missing key and an expired key the same.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
