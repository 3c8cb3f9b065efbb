package source

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
	"github.com/theoremus-urban-solutions/parkings-aggregator/parse"
)

// bernParkingIDs maps the short codes used in the Bern XML feed to our
// stable facility identifiers.
var bernParkingIDs = map[string]string{
	"P01":                  "parkhaus-bahnhof",
	"P02":                  "parkhaus-metro",
	"P03":                  "parkhaus-rathaus",
	"City West Parking Mu": "parkhaus-city-west",
	"P04":                  "parkhaus-bundesplatz",
	"P05":                  "parkhaus-mobiliar",
	"P06":                  "parkhaus-casino",
	"P+R":                  "parkhaus-neufeld-p+r",
	"P10":                  "parkhaus-kursaal",
}

// bernSource reads the parkdata XML document: repeated <parking>
// elements with name, state ("1" = open), spacecount and spacefree
// attributes. A non-positive spacecount means the feed does not know
// the capacity and the static figure applies.
type bernSource struct {
	feedSource
}

func (s *bernSource) FetchData(ctx context.Context) ([]model.Facility, error) {
	defer s.observe(time.Now())

	raw, err := s.fetchRaw(ctx)
	if err != nil {
		return nil, s.unavailable(err)
	}
	records, err := parse.NewXMLParser("parking").Parse(raw)
	if err != nil {
		return nil, s.malformed(err)
	}

	dyn := make([]dynamicRecord, 0, len(records))
	for _, rec := range records {
		name, ok := rec.Get("name")
		if !ok {
			continue
		}
		id, ok := bernParkingIDs[name]
		if !ok {
			s.log.Warn("no mapping for native parking name", zap.String("name", name))
			continue
		}
		free, ok := rec.Int("spacefree")
		if !ok || free < 0 {
			s.log.Warn("invalid spacefree value, skipping record", zap.String("name", name))
			continue
		}

		d := dynamicRecord{ID: id, Available: model.IntPtr(free)}
		if state, ok := rec.Get("state"); ok {
			open := state == "1"
			d.Open = &open
		}
		if count, ok := rec.Int("spacecount"); ok && count > 0 {
			d.Capacity = model.IntPtr(count)
		}
		dyn = append(dyn, d)
	}
	return merge(s.dataset, dyn, s.mergeOptions()), nil
}
