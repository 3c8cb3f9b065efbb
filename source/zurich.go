package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
	"github.com/theoremus-urban-solutions/parkings-aggregator/parse"
)

// zurichSource reads the Parkleitsystem RSS feed. Each <item> carries
// the facility name in <title> and "open / 234" style availability in
// <description>; capacity is never published, so it always comes from
// the static dataset. Facility identifiers are derived from the title.
type zurichSource struct {
	feedSource
}

func (s *zurichSource) FetchData(ctx context.Context) ([]model.Facility, error) {
	defer s.observe(time.Now())

	raw, err := s.fetchRaw(ctx)
	if err != nil {
		return nil, s.unavailable(err)
	}
	records, err := parse.NewXMLParser("item").Parse(raw)
	if err != nil {
		return nil, s.malformed(err)
	}

	dyn := make([]dynamicRecord, 0, len(records))
	for _, rec := range records {
		title, ok := rec.Get("title")
		if !ok {
			continue
		}
		desc, _ := rec.Get("description")
		available, open, ok := parseZurichDescription(desc)
		if !ok {
			s.log.Warn("skipping item with unparseable description",
				zap.String("title", title), zap.String("description", desc))
			continue
		}
		dyn = append(dyn, dynamicRecord{
			ID:        zurichFacilityID(title),
			Name:      title,
			Available: model.IntPtr(available),
			Open:      &open,
		})
	}
	return merge(s.dataset, dyn, s.mergeOptions()), nil
}

// parseZurichDescription splits the "open / 234" description into its
// status and free-space count.
func parseZurichDescription(desc string) (available int, open bool, ok bool) {
	parts := strings.SplitN(desc, "/", 2)
	if len(parts) < 2 {
		return 0, false, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, strings.EqualFold(strings.TrimSpace(parts[0]), "open"), true
}

var umlautReplacer = strings.NewReplacer(" ", "-", "ä", "ae", "ö", "oe", "ü", "ue")

// zurichFacilityID derives the stable internal identifier from a feed
// title, e.g. "Parkhaus Urania" -> "parkhaus-urania".
func zurichFacilityID(title string) string {
	return umlautReplacer.Replace(strings.ToLower(strings.TrimSpace(title)))
}
