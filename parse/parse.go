package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one loosely-typed row extracted from a feed: field name to
// raw string value. Adapters convert fields to typed values immediately
// after parsing; nothing downstream sees a Record.
type Record map[string]string

// Get returns the named field and whether it was present and non-empty.
func (r Record) Get(name string) (string, bool) {
	v, ok := r[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Int converts the named field to an integer. Absent or malformed values
// return ok=false rather than an error; a single bad number must not
// fail a whole record.
func (r Record) Int(name string) (int, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float converts the named field to a float64.
func (r Record) Float(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool converts the named field to a boolean ("true"/"false").
func (r Record) Bool(name string) (bool, bool) {
	v, ok := r.Get(name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

// Error reports a structurally malformed payload. Fragment carries the
// offending slice of input for diagnostics, truncated to a sane length.
type Error struct {
	Format   string
	Fragment string
	Err      error
}

const maxFragment = 200

func (e *Error) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("parse %s: %v (near %q)", e.Format, e.Err, e.Fragment)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(format string, raw []byte, err error) *Error {
	frag := string(raw)
	if len(frag) > maxFragment {
		frag = frag[:maxFragment]
	}
	return &Error{Format: format, Fragment: strings.TrimSpace(frag), Err: err}
}

// Parser converts a raw payload into a sequence of field mappings.
type Parser interface {
	Parse(raw []byte) ([]Record, error)
}
