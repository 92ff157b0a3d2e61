package cache

import "errors"

var (
	ErrCacheMiss       = errors.New("cache: key not found")
	ErrEmptyKey        = errors.New("cache: empty key")
	ErrInvalidRedisURL = errors.New("cache: failed to parse redis connection url")
	ErrRedisNotReady   = errors.New("cache: redis is not ready")
)
