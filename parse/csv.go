package parse

import (
	"bytes"
	"encoding/csv"
	"errors"
)

// CSVParser maps tabular data to records: the first row names the
// fields, subsequent rows bind positionally. Rows shorter than the
// header leave the trailing fields absent.
type CSVParser struct {
	// Comma overrides the field separator; zero means ','.
	Comma rune
}

// NewCSVParser returns a comma-separated tabular parser.
func NewCSVParser() *CSVParser { return &CSVParser{} }

// Parse implements Parser.
func (p *CSVParser) Parse(raw []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	if p.Comma != 0 {
		r.Comma = p.Comma
	}
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, newError("csv", raw, err)
	}
	if len(rows) == 0 {
		return nil, newError("csv", raw, errors.New("missing header row"))
	}
	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{}
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
