package source

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/parkings-aggregator/model"
)

// dynamicRecord is the well-typed intermediate an adapter builds from
// one parsed feed record, after resolving the source-native identifier.
// Nil fields were not reported (or not well-formed) upstream; the merge
// falls back to static values for them.
type dynamicRecord struct {
	ID        string
	Name      string
	Available *int
	Capacity  *int
	Latitude  *float64
	Longitude *float64
	Address   string
	// Open is nil when the feed does not state open/closed.
	Open *bool
}

// mergeOptions carries the per-city normalization policy.
type mergeOptions struct {
	cityName string
	// strict rejects records violating available <= total instead of
	// clamping them; the rejected facility falls back to static-only.
	strict bool
	now    time.Time
	log    *zap.Logger
}

// merge reconciles the dynamic snapshot with the static reference
// dataset. Facilities appear in dataset order first; feed records with
// no static counterpart are appended in feed order. Facilities present
// only in the static dataset are still returned, with UNKNOWN status
// and no availability figure.
func merge(ds *Dataset, dyn []dynamicRecord, opts mergeOptions) []model.Facility {
	byID := make(map[string]dynamicRecord, len(dyn))
	for _, rec := range dyn {
		byID[rec.ID] = rec
	}

	out := make([]model.Facility, 0, ds.Len()+len(dyn))
	for _, st := range ds.All() {
		rec, live := byID[st.ID]
		if live {
			out = append(out, mergeOne(&st, rec, opts))
			delete(byID, st.ID)
			continue
		}
		out = append(out, staticOnly(st, opts))
	}
	// feed records without a static counterpart, in feed order
	for _, rec := range dyn {
		if _, pending := byID[rec.ID]; !pending {
			continue
		}
		delete(byID, rec.ID)
		out = append(out, mergeOne(nil, rec, opts))
	}
	return out
}

// mergeOne builds one facility from a dynamic record, using st (when
// present) as the fallback for every stable field.
func mergeOne(st *StaticFacility, rec dynamicRecord, opts mergeOptions) model.Facility {
	f := model.Facility{
		ID:          rec.ID,
		City:        opts.cityName,
		Address:     rec.Address,
		Status:      model.StatusUnknown,
		LastUpdated: opts.now,
	}

	// Static metadata wins for identity fields; the feed wins for the
	// volatile ones. Coordinates from the feed are taken when present
	// (Basel reports them inline), static otherwise.
	switch {
	case st != nil && st.Name != "":
		f.Name = st.Name
	case rec.Name != "":
		f.Name = rec.Name
	default:
		f.Name = fmt.Sprintf("Parking %s", rec.ID)
	}
	f.Latitude, f.Longitude = rec.Latitude, rec.Longitude
	if f.Latitude == nil && st != nil {
		f.Latitude = model.FloatPtr(st.Latitude)
		f.Longitude = model.FloatPtr(st.Longitude)
	}
	if f.Address == "" && st != nil {
		f.Address = st.Address
	}

	f.Capacity = rec.Capacity
	if f.Capacity == nil && st != nil && st.NominalCapacity != nil {
		f.Capacity = model.IntPtr(*st.NominalCapacity)
	}
	f.Available = rec.Available

	if rec.Open != nil {
		if *rec.Open {
			f.Status = model.StatusOpen
		} else {
			f.Status = model.StatusClosed
			// a closed facility has nothing to offer
			f.Available = model.IntPtr(0)
		}
	}

	if f.Available != nil && f.Capacity != nil && *f.Available > *f.Capacity {
		if opts.strict {
			opts.log.Warn("rejecting record violating available <= total",
				zap.String("facility", rec.ID),
				zap.Int("available", *f.Available),
				zap.Int("total", *f.Capacity))
			if st != nil {
				return staticOnly(*st, opts)
			}
			f.Available = nil
			f.Status = model.StatusUnknown
			return f
		}
		opts.log.Warn("clamping available to total",
			zap.String("facility", rec.ID),
			zap.Int("available", *f.Available),
			zap.Int("total", *f.Capacity))
		f.Available = model.IntPtr(*f.Capacity)
		f.Status = model.StatusUnknown
	}
	return f
}

// staticOnly renders a facility the live feed did not mention:
// completeness over recency.
func staticOnly(st StaticFacility, opts mergeOptions) model.Facility {
	f := model.Facility{
		ID:          st.ID,
		Name:        st.Name,
		City:        opts.cityName,
		Latitude:    model.FloatPtr(st.Latitude),
		Longitude:   model.FloatPtr(st.Longitude),
		Address:     st.Address,
		Status:      model.StatusUnknown,
		LastUpdated: opts.now,
	}
	if st.NominalCapacity != nil {
		f.Capacity = model.IntPtr(*st.NominalCapacity)
	}
	return f
}
