package source

import (
	"context"
	"fmt"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
)

// DataSource is the uniform contract every city integration satisfies.
// FetchData performs one full acquisition cycle: fetch, parse, resolve
// identifiers, merge with the static reference dataset and validate.
type DataSource interface {
	CityID() string
	CityName() string
	FetchData(ctx context.Context) ([]model.Facility, error)
}

// ErrorKind summarizes why an acquisition cycle failed.
type ErrorKind string

const (
	// KindUnavailable means the upstream could not be reached in time.
	KindUnavailable ErrorKind = "unavailable"
	// KindMalformed means the upstream answered with an unparseable payload.
	KindMalformed ErrorKind = "malformed"
)

// Error is the adapter-layer failure summary, the only error type the
// cache and registry reason about. Both kinds are recoverable: the cache
// answers with the last good snapshot when one exists.
type Error struct {
	Kind ErrorKind
	City string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.City, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
