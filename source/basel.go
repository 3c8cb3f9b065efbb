package source

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
	"github.com/theoremus-urban-solutions/parkings-aggregator/parse"
)

// baselParkingIDs maps the open-data portal's id2 codes to our stable
// facility identifiers.
var baselParkingIDs = map[string]string{
	"elisabethen": "parkhaus-elisabethen",
	"steinen":     "parkhaus-steinen",
	"storchen":    "parkhaus-storchen",
	"badbahnhof":  "parkhaus-bad-bahnhof",
	"rebgasse":    "parkhaus-rebgasse",
	"postbasel":   "parkhaus-post-basel",
	"centralbahn": "parkhaus-centralbahn",
	"bahnhofsued": "parkhaus-bahnhof-sued",
	"anfos":       "parkhaus-anfos",
	"city":        "parkhaus-city",
	"clarahuus":   "parkhaus-clarahuus",
	"aeschen":     "parkhaus-aeschen",
	"kunstmuseum": "parkhaus-kunstmuseum",
	"messe":       "parkhaus-messe",
	"europe":      "parkhaus-europe",
	"claramatte":  "parkhaus-claramatte",
}

// baselSource reads the data.bs.ch JSON export: a top-level array of
// objects with id2, status ("offen"/"geschlossen"), free/total counts
// and inline geo_point_2d coordinates. Inline coordinates are preferred
// over the static dataset when present.
type baselSource struct {
	feedSource
}

func (s *baselSource) FetchData(ctx context.Context) ([]model.Facility, error) {
	defer s.observe(time.Now())

	raw, err := s.fetchRaw(ctx)
	if err != nil {
		return nil, s.unavailable(err)
	}
	records, err := parse.NewJSONParser().Parse(raw)
	if err != nil {
		return nil, s.malformed(err)
	}

	dyn := make([]dynamicRecord, 0, len(records))
	for _, rec := range records {
		nativeID, ok := rec.Get("id2")
		if !ok {
			s.log.Warn("record without id2, skipping")
			continue
		}
		id, ok := baselParkingIDs[nativeID]
		if !ok {
			s.log.Warn("no mapping for native parking id", zap.String("id2", nativeID))
			continue
		}

		d := dynamicRecord{ID: id}
		if title, ok := rec.Get("title"); ok {
			d.Name = title
		}
		if status, ok := rec.Get("status"); ok {
			open := strings.EqualFold(strings.TrimSpace(status), "offen")
			d.Open = &open
		}
		if free, ok := rec.Int("free"); ok && free >= 0 {
			d.Available = model.IntPtr(free)
		}
		if total, ok := rec.Int("total"); ok && total > 0 {
			d.Capacity = model.IntPtr(total)
		}
		if lat, ok := rec.Float("geo_point_2d.lat"); ok {
			if lon, ok := rec.Float("geo_point_2d.lon"); ok {
				d.Latitude = model.FloatPtr(lat)
				d.Longitude = model.FloatPtr(lon)
			}
		}
		if addr, ok := rec.Get("address"); ok {
			d.Address = addr
		}
		dyn = append(dyn, d)
	}
	return merge(s.dataset, dyn, s.mergeOptions()), nil
}
