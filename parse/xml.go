package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// XMLParser extracts repeated record elements from an XML or RSS
// document by tag name. Each record maps the element's attributes plus
// the text of its direct children; missing optional children are simply
// absent from the record, only a broken document fails the parse.
type XMLParser struct {
	// RecordTag is the local name of the element that delimits one
	// record, e.g. "item" for RSS or "parking" for the Bern feed.
	RecordTag string
}

// NewXMLParser returns a parser that collects elements named recordTag.
func NewXMLParser(recordTag string) *XMLParser {
	return &XMLParser{RecordTag: recordTag}
}

// Parse implements Parser.
func (p *XMLParser) Parse(raw []byte) ([]Record, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var records []Record
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newError("xml", raw, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != p.RecordTag {
			continue
		}
		rec, err := p.consumeRecord(dec, start)
		if err != nil {
			return nil, newError("xml", raw, err)
		}
		records = append(records, rec)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// consumeRecord reads tokens until the record element closes, capturing
// attributes and direct-child element text.
func (p *XMLParser) consumeRecord(dec *xml.Decoder, start xml.StartElement) (Record, error) {
	rec := Record{}
	for _, attr := range start.Attr {
		rec[attr.Name.Local] = attr.Value
	}
	depth := 0
	var child string
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("unexpected end of document inside record")
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				child = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				return rec, nil
			}
			if depth == 1 && child != "" {
				rec[child] = strings.TrimSpace(text.String())
				child = ""
			}
			depth--
		}
	}
}
