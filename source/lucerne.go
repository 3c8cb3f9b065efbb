package source

import (
	"context"
	"errors"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
	"github.com/theoremus-urban-solutions/parkings-aggregator/parse"
)

// lucerneParkingCodes maps the parking-guidance API codes to our stable
// facility identifiers.
var lucerneParkingCodes = map[string]string{
	"AP01": "parkhaus-altstadt",
	"NP02": "parkhaus-bahnhof",
	"NU01": "parkhaus-kesselturm",
	"VS01": "parkhaus-sempacherstrasse",
	"KP01": "parkhaus-europagarage",
	"NP08": "parkhaus-musegg",
	"SP01": "parkhaus-casino-palace",
	"NP07": "parkhaus-schweizerhof",
	"NP11": "parkhaus-city-parking",
	"NP12": "parkhaus-loewencenter",
	"NP13": "parkhaus-nationalhof",
	"PKF":  "parkhaus-flora",
	"SP04": "parkhaus-kantonalbank",
	"SP05": "parkhaus-bahnhof-p1-p2",
	"SP06": "parkhaus-bahnhof-p3",
	"SP09": "parkhaus-hirzenmatt",
}

// lucerneSource reads the parking-guidance JSON API. The payload is an
// envelope {status, data: {parkings: {CODE: {...}}}}; a facility counts
// as open only when it is opened and not under maintenance.
type lucerneSource struct {
	feedSource
}

func (s *lucerneSource) FetchData(ctx context.Context) ([]model.Facility, error) {
	defer s.observe(time.Now())

	raw, err := s.fetchRaw(ctx)
	if err != nil {
		return nil, s.unavailable(err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, s.malformed(errors.New("invalid JSON envelope"))
	}
	if status := gjson.GetBytes(raw, "status").String(); status != "success" {
		return nil, s.malformed(errors.New("API envelope did not report success"))
	}
	records, err := parse.NewJSONParserAt("data.parkings", "code").Parse(raw)
	if err != nil {
		return nil, s.malformed(err)
	}

	dyn := make([]dynamicRecord, 0, len(records))
	seenUnknown := map[string]bool{}
	for _, rec := range records {
		code, ok := rec.Get("code")
		if !ok {
			continue
		}
		id, ok := lucerneParkingCodes[code]
		if !ok {
			// feeds list far more codes than we map; warn once per code
			if !seenUnknown[code] {
				s.log.Warn("unknown parking code", zap.String("code", code))
				seenUnknown[code] = true
			}
			continue
		}

		d := dynamicRecord{ID: id}
		if name, ok := rec.Get("description"); ok {
			d.Name = name
		}
		if vacancy, ok := rec.Int("vacancy"); ok && vacancy >= 0 {
			d.Available = model.IntPtr(vacancy)
		}
		if capacity, ok := rec.Int("capacity"); ok && capacity > 0 {
			d.Capacity = model.IntPtr(capacity)
		}
		opened, hasOpened := rec.Bool("opened")
		maintenance, _ := rec.Bool("maintenance")
		if hasOpened {
			open := opened && !maintenance
			d.Open = &open
		}
		dyn = append(dyn, d)
	}
	return merge(s.dataset, dyn, s.mergeOptions()), nil
}
