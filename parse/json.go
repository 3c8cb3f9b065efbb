package parse

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// JSONParser extracts records from a JSON payload. The payload is either
// a top-level array of objects or an object holding the records under
// Path (gjson syntax, e.g. "data.parkings"). The container at Path may
// itself be an array or an object keyed by a native identifier; in the
// latter case the member key is stored under KeyField.
//
// Scalar fields become string values; nested objects are flattened one
// level with dotted names ("geo_point_2d.lat"). Unknown extra fields are
// preserved and simply ignored by adapters that do not need them.
type JSONParser struct {
	Path     string
	KeyField string
}

// NewJSONParser returns a parser for a top-level array payload.
func NewJSONParser() *JSONParser { return &JSONParser{} }

// NewJSONParserAt returns a parser that finds the record container under
// path, tagging object members with keyField when the container is a map.
func NewJSONParserAt(path, keyField string) *JSONParser {
	return &JSONParser{Path: path, KeyField: keyField}
}

// Parse implements Parser.
func (p *JSONParser) Parse(raw []byte) ([]Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, newError("json", raw, errors.New("invalid JSON"))
	}
	root := gjson.ParseBytes(raw)
	container := root
	if p.Path != "" {
		container = root.Get(p.Path)
		if !container.Exists() {
			return nil, newError("json", raw, fmt.Errorf("no records under %q", p.Path))
		}
	}
	if !container.IsArray() && !container.IsObject() {
		return nil, newError("json", raw, errors.New("records container is not an array or object"))
	}

	records := []Record{}
	var badMember error
	container.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			badMember = fmt.Errorf("record %s is not an object", key.String())
			return false
		}
		rec := flatten(value)
		if p.KeyField != "" && !container.IsArray() {
			rec[p.KeyField] = key.String()
		}
		records = append(records, rec)
		return true
	})
	if badMember != nil {
		return nil, newError("json", raw, badMember)
	}
	return records, nil
}

// flatten turns one JSON object into a Record, descending one level into
// nested objects with dotted field names.
func flatten(obj gjson.Result) Record {
	rec := Record{}
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch {
		case value.IsObject():
			value.ForEach(func(k, v gjson.Result) bool {
				if !v.IsObject() && !v.IsArray() {
					rec[name+"."+k.String()] = v.String()
				}
				return true
			})
		case value.IsArray():
			// arrays carry no per-facility scalar data in any feed we consume
		case value.Type == gjson.Null:
			// absent, keep out of the record
		default:
			rec[name] = value.String()
		}
		return true
	})
	return rec
}
