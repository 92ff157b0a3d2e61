// Package cache provides the shared TTL cache the SDK keeps the service
// token in, so that concurrent invocations reuse one client credential
// instead of each requesting their own.
//
// Two backends are included: Memory for single-process embeddings and Redis
// for sharing across a cluster. Both treat the cache as disposable; the
// persisted slot remains authoritative and a cache miss only costs a slot
// read or, at worst, one token request.
package cache
