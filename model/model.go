package model

import "time"

// Status describes the operational state of a parking facility.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusUnknown Status = "unknown"
)

// Facility is one physical parking location. Capacity and Available are
// pointers because either figure may be unknown for a given source; nil
// means "not reported", never zero.
type Facility struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Address     string    `json:"address,omitempty"`
	Capacity    *int      `json:"total_spaces,omitempty"`
	Available   *int      `json:"available_spaces,omitempty"`
	Status      Status    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// Clone returns a deep copy of the facility. Values handed out by the
// registry are clones so a caller can never mutate cached state.
func (f Facility) Clone() Facility {
	c := f
	c.Latitude = cloneFloat(f.Latitude)
	c.Longitude = cloneFloat(f.Longitude)
	c.Capacity = cloneInt(f.Capacity)
	c.Available = cloneInt(f.Available)
	return c
}

// CloneFacilities deep-copies a facility list.
func CloneFacilities(fs []Facility) []Facility {
	out := make([]Facility, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}

// City is a municipality with registered parking coverage. Latitude and
// Longitude are the map center, not a facility position.
type City struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Clone returns a deep copy of the city.
func (c City) Clone() City {
	d := c
	d.Latitude = cloneFloat(c.Latitude)
	d.Longitude = cloneFloat(c.Longitude)
	return d
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// IntPtr and FloatPtr are conveniences for building optional fields.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
