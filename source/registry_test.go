package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/parkings-aggregator/config"
)

// switchableFeed serves a payload that tests can swap or break at will.
type switchableFeed struct {
	payload  atomic.Value // string
	broken   atomic.Bool
	requests atomic.Int64
}

func newSwitchableFeed(t *testing.T, payload string) (*switchableFeed, *httptest.Server) {
	t.Helper()
	f := &switchableFeed{}
	f.payload.Store(payload)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.requests.Add(1)
		if f.broken.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(f.payload.Load().(string)))
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func registryConfig(t *testing.T, ttlSeconds int, cities ...config.CityConfig) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Server: config.ServerConfig{Port: 8000},
		Cache:  config.CacheConfig{TTLSeconds: ttlSeconds},
		Fetch:  config.FetchConfig{TimeoutSeconds: 2},
		Cities: cities,
	}
}

func bernCityConfig(t *testing.T, feedURL string) config.CityConfig {
	t.Helper()
	return config.CityConfig{
		ID:          "bern",
		Name:        "Bern",
		Latitude:    46.9480,
		Longitude:   7.4474,
		FeedURL:     feedURL,
		Format:      config.FormatXML,
		DatasetPath: writeDataset(t, bernDataset),
	}
}

const bernFeedHealthy = `<?xml version="1.0"?>
<parkings>
  <parking name="P01" state="1" spacecount="10" spacefree="4"/>
  <parking name="P02" state="1" spacecount="310" spacefree="41"/>
</parkings>`

func TestRegistry_Cities(t *testing.T) {
	_, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 60, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	first := reg.Cities()
	second := reg.Cities()
	require.Len(t, first, 1)
	assert.Equal(t, first, second, "city list is stable across calls")
	assert.Equal(t, "bern", first[0].ID)
	assert.Equal(t, "Bern", first[0].Name)

	// mutating the returned slice must not affect the registry
	first[0].ID = "corrupted"
	assert.Equal(t, "bern", reg.Cities()[0].ID)

	// coordinate pointers are clones too
	require.NotNil(t, second[0].Latitude)
	*second[0].Latitude = -1
	assert.Equal(t, 46.9480, *reg.Cities()[0].Latitude)

	byID, ok := reg.City("bern")
	require.True(t, ok)
	*byID.Latitude = -1
	assert.Equal(t, 46.9480, *reg.Cities()[0].Latitude)
}

func TestRegistry_UnknownCityIsolation(t *testing.T) {
	feed, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 60, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	_, err = reg.Facilities(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 0, feed.requests.Load(), "unknown city must not touch any adapter")
}

func TestRegistry_CachesWithinTTL(t *testing.T) {
	feed, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 60, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := reg.Facilities(ctx, "bern")
	require.NoError(t, err)
	second, err := reg.Facilities(ctx, "bern")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, feed.requests.Load(), "second call within TTL hits the cache")
}

func TestRegistry_CopyOnRead(t *testing.T) {
	_, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 60, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := reg.Facilities(ctx, "bern")
	require.NoError(t, err)
	require.NotEmpty(t, first)
	require.NotNil(t, first[0].Available)

	*first[0].Available = 99999
	first[0].Name = "corrupted"

	second, err := reg.Facilities(ctx, "bern")
	require.NoError(t, err)
	assert.NotEqual(t, 99999, *second[0].Available, "cached snapshot must be immune to caller mutation")
	assert.NotEqual(t, "corrupted", second[0].Name)
}

func TestRegistry_DegradedWithoutPriorSnapshot(t *testing.T) {
	feed, srv := newSwitchableFeed(t, bernFeedHealthy)
	feed.broken.Store(true)
	// TTL 0: every call recomputes, so recovery needs no sleeping
	reg, err := NewRegistry(registryConfig(t, 0, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	ctx := context.Background()
	fs, err := reg.Facilities(ctx, "bern")

	var serr *Error
	require.ErrorAs(t, err, &serr, "degraded result carries the source error summary")
	assert.Equal(t, KindUnavailable, serr.Kind)
	assert.Empty(t, fs, "degraded result is an empty sequence, not a crash")

	// feed recovers: the next call returns full data
	feed.broken.Store(false)
	fs, err = reg.Facilities(ctx, "bern")
	require.NoError(t, err)
	assert.Len(t, fs, 2)
}

func TestRegistry_StaleFallbackAfterOutage(t *testing.T) {
	feed, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 0, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	ctx := context.Background()
	healthy, err := reg.Facilities(ctx, "bern")
	require.NoError(t, err)
	require.Len(t, healthy, 2)

	feed.broken.Store(true)
	stale, err := reg.Facilities(ctx, "bern")
	require.NoError(t, err, "prior snapshot must be served through the outage")
	assert.Equal(t, healthy, stale)
}

func TestRegistry_Facility(t *testing.T) {
	_, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 60, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	ctx := context.Background()
	f, err := reg.Facility(ctx, "bern", "parkhaus-metro")
	require.NoError(t, err)
	assert.Equal(t, "Metro Parking", f.Name)

	_, err = reg.Facility(ctx, "bern", "parkhaus-nirvana")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = reg.Facility(ctx, "nonexistent", "parkhaus-metro")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_CityLookup(t *testing.T) {
	_, srv := newSwitchableFeed(t, bernFeedHealthy)
	reg, err := NewRegistry(registryConfig(t, 60, bernCityConfig(t, srv.URL)), nil)
	require.NoError(t, err)

	c, ok := reg.City("bern")
	require.True(t, ok)
	assert.Equal(t, "Bern", c.Name)

	_, ok = reg.City("nonexistent")
	assert.False(t, ok)
}
