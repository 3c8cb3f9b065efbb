package source

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/cache"
	"github.com/theoremus-urban-solutions/parkings-aggregator/config"
	"github.com/theoremus-urban-solutions/parkings-aggregator/fetch"
	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
)

// ErrNotFound reports an unknown city or facility identifier. It is the
// only error callers should translate into a "bad request" signal; every
// pipeline failure is absorbed into a stale or degraded result instead.
var ErrNotFound = errors.New("not found")

// Registry holds the cache-wrapped data source of every registered city.
// It is built once at startup and is safe for concurrent use; queries
// for different cities never serialize on one another.
type Registry struct {
	cities  []model.City
	sources map[string]DataSource
	cache   *cache.Cache[[]model.Facility]
	log     *zap.Logger
}

// NewRegistry constructs the registry from immutable startup
// configuration: one adapter per configured city, one shared TTL cache
// keyed by city identifier.
func NewRegistry(cfg *config.AppConfig, log *zap.Logger) (*Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := fetch.NewClient(cfg.FetchTimeout(), log)

	r := &Registry{
		cities:  make([]model.City, 0, len(cfg.Cities)),
		sources: make(map[string]DataSource, len(cfg.Cities)),
		cache:   cache.New[[]model.Facility](cfg.CacheTTL(), log),
		log:     log.Named("registry"),
	}
	for _, cc := range cfg.Cities {
		src, err := New(cc, client, cfg.Fetch.RetryAttempts, log)
		if err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
		r.sources[src.CityID()] = src
		r.cities = append(r.cities, model.City{
			ID:        src.CityID(),
			Name:      src.CityName(),
			Latitude:  model.FloatPtr(cc.Latitude),
			Longitude: model.FloatPtr(cc.Longitude),
		})
	}
	return r, nil
}

// Cities lists the registered cities in configuration order. Entries
// are clones; mutating one never touches registry state.
func (r *Registry) Cities() []model.City {
	out := make([]model.City, len(r.cities))
	for i, c := range r.cities {
		out[i] = c.Clone()
	}
	return out
}

// City returns the registered city with the given identifier.
func (r *Registry) City(cityID string) (model.City, bool) {
	for _, c := range r.cities {
		if c.ID == cityID {
			return c.Clone(), true
		}
	}
	return model.City{}, false
}

// Facilities returns the current snapshot for a city, served from the
// cache when fresh. An unknown city yields ErrNotFound without touching
// any adapter. When the upstream fails and no cached snapshot exists,
// the returned slice is empty and the error carries the *Error summary;
// callers may treat that as a degraded-but-valid answer.
func (r *Registry) Facilities(ctx context.Context, cityID string) ([]model.Facility, error) {
	src, ok := r.sources[cityID]
	if !ok {
		return nil, fmt.Errorf("%w: city %q", ErrNotFound, cityID)
	}
	fs, err := r.cache.Get(ctx, cityID, func(ctx context.Context, _ string) ([]model.Facility, error) {
		return src.FetchData(ctx)
	})
	if err != nil {
		return []model.Facility{}, err
	}
	return model.CloneFacilities(fs), nil
}

// Facility returns one facility of a city by identifier.
func (r *Registry) Facility(ctx context.Context, cityID, facilityID string) (model.Facility, error) {
	fs, err := r.Facilities(ctx, cityID)
	if err != nil {
		return model.Facility{}, err
	}
	for _, f := range fs {
		if f.ID == facilityID {
			return f, nil
		}
	}
	return model.Facility{}, fmt.Errorf("%w: facility %q in city %q", ErrNotFound, facilityID, cityID)
}

// Invalidate drops a city's cached snapshot, forcing the next query to
// refresh. Exposed for operational tooling and tests.
func (r *Registry) Invalidate(cityID string) {
	r.cache.Invalidate(cityID)
}
