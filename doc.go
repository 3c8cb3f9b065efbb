// Package parkings serves aggregated parking availability over HTTP.
//
// The root package owns only the serving surface: the chi route layer,
// response shapes and graceful lifecycle. All domain behavior lives in
// the source, cache, fetch and parse packages underneath it.
package parkings
