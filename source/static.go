package source

import (
	"encoding/json"
	"fmt"
	"os"
)

// StaticFacility is one row of a city's static reference dataset:
// metadata that does not change in real time.
type StaticFacility struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Address         string  `json:"address,omitempty"`
	NominalCapacity *int    `json:"nominal_capacity,omitempty"`
}

// Dataset is a city's static reference table, loaded once at process
// start and read-only afterwards. Iteration preserves file order so the
// registry returns facilities in a stable sequence.
type Dataset struct {
	facilities []StaticFacility
	byID       map[string]int
}

// LoadDataset reads a static reference dataset from a JSON file holding
// an ordered list of facility objects.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var facilities []StaticFacility
	if err := json.Unmarshal(data, &facilities); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	byID := make(map[string]int, len(facilities))
	for i, f := range facilities {
		if f.ID == "" {
			return nil, fmt.Errorf("parse dataset %s: entry %d has no id", path, i)
		}
		if _, dup := byID[f.ID]; dup {
			return nil, fmt.Errorf("parse dataset %s: duplicate id %q", path, f.ID)
		}
		byID[f.ID] = i
	}
	return &Dataset{facilities: facilities, byID: byID}, nil
}

// Get returns the static entry for id.
func (d *Dataset) Get(id string) (StaticFacility, bool) {
	i, ok := d.byID[id]
	if !ok {
		return StaticFacility{}, false
	}
	return d.facilities[i], true
}

// All returns the entries in file order. Callers must not modify the
// returned slice.
func (d *Dataset) All() []StaticFacility { return d.facilities }

// Len reports the number of entries.
func (d *Dataset) Len() int { return len(d.facilities) }
