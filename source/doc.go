// Package source implements the city-specific feed adapters behind one
// uniform data-source contract, the static reference datasets they merge
// against, and the registry that serves cached snapshots to callers.
//
// Each adapter tolerates an unreliable upstream: fetch and parse
// failures become a summarized source error the cache converts into a
// stale-but-available answer whenever a previous snapshot exists.
package source
