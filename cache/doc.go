// Package cache provides the TTL cache that shields upstream parking
// feeds from request load. Expired entries are recomputed at most once
// per key at a time; a failed refresh falls back to the last good value.
package cache
