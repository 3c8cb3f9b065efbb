package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/config"
	"github.com/theoremus-urban-solutions/parkings-aggregator/fetch"
	"github.com/theoremus-urban-solutions/parkings-aggregator/internal/metrics"
)

const retryInterval = 500 * time.Millisecond

// cityFormats pins the feed format each adapter actually decodes; a
// configuration naming a different format is rejected at startup.
var cityFormats = map[string]string{
	"zurich":  config.FormatRSS,
	"basel":   config.FormatJSON,
	"bern":    config.FormatXML,
	"lucerne": config.FormatJSON,
}

// New builds the data source for one configured city. The static
// reference dataset is loaded here, once; adapters never touch the
// filesystem afterwards. retries is the number of extra fetch attempts
// for transient failures (config.FetchConfig.RetryAttempts).
func New(cfg config.CityConfig, client *fetch.Client, retries int, log *zap.Logger) (DataSource, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ds, err := LoadDataset(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("city %s: %w", cfg.ID, err)
	}
	if want, ok := cityFormats[cfg.ID]; ok && cfg.Format != want {
		return nil, fmt.Errorf("city %s: adapter reads a %s feed, configured format is %s", cfg.ID, want, cfg.Format)
	}
	base := feedSource{
		cfg:     cfg,
		client:  client,
		dataset: ds,
		retries: retries,
		log:     log.Named("source").With(zap.String("city", cfg.ID)),
	}
	switch cfg.ID {
	case "zurich":
		return &zurichSource{feedSource: base}, nil
	case "basel":
		return &baselSource{feedSource: base}, nil
	case "bern":
		return &bernSource{feedSource: base}, nil
	case "lucerne":
		return &lucerneSource{feedSource: base}, nil
	default:
		return nil, fmt.Errorf("city %s: no adapter registered", cfg.ID)
	}
}

// feedSource carries what every city adapter shares: its configuration,
// the fetch client, the static dataset and structured logging.
type feedSource struct {
	cfg     config.CityConfig
	client  *fetch.Client
	dataset *Dataset
	retries int
	log     *zap.Logger
}

func (s *feedSource) CityID() string   { return s.cfg.ID }
func (s *feedSource) CityName() string { return s.cfg.Name }

// fetchRaw retrieves the city's feed payload, retrying transient
// unreachable errors on a constant schedule. Timeouts are not retried:
// the deadline already bounds worst-case latency for the caller.
func (s *feedSource) fetchRaw(ctx context.Context) ([]byte, error) {
	op := func() ([]byte, error) {
		raw, err := s.client.Fetch(ctx, s.cfg.FeedURL)
		if err == nil {
			return raw, nil
		}
		var ferr *fetch.Error
		if errors.As(err, &ferr) && ferr.Kind == fetch.KindUnreachable && s.retries > 0 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(retryInterval)),
		backoff.WithMaxTries(uint(s.retries)+1))
}

// unavailable wraps a fetch failure into the adapter-level summary and
// records it.
func (s *feedSource) unavailable(err error) error {
	metrics.FetchFailures.WithLabelValues(s.cfg.ID, string(KindUnavailable)).Inc()
	s.log.Warn("upstream unavailable", zap.Error(err))
	return &Error{Kind: KindUnavailable, City: s.cfg.ID, Err: err}
}

// malformed wraps a parse failure the same way.
func (s *feedSource) malformed(err error) error {
	metrics.FetchFailures.WithLabelValues(s.cfg.ID, string(KindMalformed)).Inc()
	s.log.Warn("upstream payload malformed", zap.Error(err))
	return &Error{Kind: KindMalformed, City: s.cfg.ID, Err: err}
}

// observe times a full acquisition cycle.
func (s *feedSource) observe(start time.Time) {
	metrics.FetchDuration.WithLabelValues(s.cfg.ID).Observe(time.Since(start).Seconds())
}

func (s *feedSource) mergeOptions() mergeOptions {
	return mergeOptions{
		cityName: s.cfg.Name,
		strict:   s.cfg.StrictCapacity,
		now:      time.Now(),
		log:      s.log,
	}
}
