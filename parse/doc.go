// Package parse converts raw feed payloads (RSS/XML, JSON, CSV) into
// flat field mappings. Parsers are format-specific but city-agnostic;
// the per-city adapters own field meaning and identifier resolution.
package parse
