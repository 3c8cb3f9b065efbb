// Package model holds the normalized parking data model shared by all
// city adapters, the cache and the serving layer.
package model
