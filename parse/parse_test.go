package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_TypedAccess(t *testing.T) {
	rec := Record{"free": " 42 ", "lat": "47.37", "open": "true", "junk": "n/a", "empty": ""}

	n, ok := rec.Int("free")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	f, ok := rec.Float("lat")
	require.True(t, ok)
	assert.InDelta(t, 47.37, f, 1e-9)

	b, ok := rec.Bool("open")
	require.True(t, ok)
	assert.True(t, b)

	_, ok = rec.Int("junk")
	assert.False(t, ok)
	_, ok = rec.Get("empty")
	assert.False(t, ok)
	_, ok = rec.Get("missing")
	assert.False(t, ok)
}

func TestXMLParser_RSSItems(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Parkleitsystem</title>
    <item>
      <title>Parkhaus Urania</title>
      <description>open / 224</description>
    </item>
    <item>
      <title>Parkhaus Opera</title>
      <description>closed / 0</description>
      <link>https://example.test/opera</link>
    </item>
  </channel>
</rss>`)

	recs, err := NewXMLParser("item").Parse(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	title, ok := recs[0].Get("title")
	require.True(t, ok)
	assert.Equal(t, "Parkhaus Urania", title)
	desc, _ := recs[0].Get("description")
	assert.Equal(t, "open / 224", desc)

	// optional element present on only one record
	_, ok = recs[0].Get("link")
	assert.False(t, ok)
	link, _ := recs[1].Get("link")
	assert.Equal(t, "https://example.test/opera", link)
}

func TestXMLParser_Attributes(t *testing.T) {
	raw := []byte(`<parkings updated="2024-05-01T10:00:00">
  <parking name="P01" state="1" spacecount="620" spacefree="213"/>
  <parking name="P02" state="0" spacecount="110" spacefree="0"/>
</parkings>`)

	recs, err := NewXMLParser("parking").Parse(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	name, _ := recs[0].Get("name")
	assert.Equal(t, "P01", name)
	free, ok := recs[0].Int("spacefree")
	require.True(t, ok)
	assert.Equal(t, 213, free)
}

func TestXMLParser_Malformed(t *testing.T) {
	raw := []byte(`<rss><channel><item><title>broken`)
	_, err := NewXMLParser("item").Parse(raw)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "xml", perr.Format)
	assert.NotEmpty(t, perr.Fragment)
}

func TestXMLParser_NoRecords(t *testing.T) {
	recs, err := NewXMLParser("item").Parse([]byte(`<rss><channel/></rss>`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestJSONParser_TopLevelArray(t *testing.T) {
	raw := []byte(`[
	  {"id2": "elisabethen", "free": 113, "total": 840, "status": "offen",
	   "geo_point_2d": {"lat": 47.5509, "lon": 7.5878}, "note": null},
	  {"id2": "steinen", "free": 0, "total": 526, "status": "geschlossen"}
	]`)

	recs, err := NewJSONParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	free, ok := recs[0].Int("free")
	require.True(t, ok)
	assert.Equal(t, 113, free)

	lat, ok := recs[0].Float("geo_point_2d.lat")
	require.True(t, ok)
	assert.InDelta(t, 47.5509, lat, 1e-9)

	_, ok = recs[0].Get("note")
	assert.False(t, ok)
}

func TestJSONParser_KeyedObjectAtPath(t *testing.T) {
	raw := []byte(`{"status":"success","data":{"parkings":{
	  "AP01": {"description": "Altstadt-Parking", "vacancy": 12, "capacity": 270, "opened": true},
	  "NP02": {"description": "Bahnhof-Parking", "vacancy": 0, "capacity": 620, "opened": false}
	}}}`)

	recs, err := NewJSONParserAt("data.parkings", "code").Parse(raw)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	codes := map[string]bool{}
	for _, r := range recs {
		code, ok := r.Get("code")
		require.True(t, ok)
		codes[code] = true
	}
	assert.True(t, codes["AP01"] && codes["NP02"])
}

func TestJSONParser_Malformed(t *testing.T) {
	_, err := NewJSONParser().Parse([]byte(`{"nope": tru`))
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "json", perr.Format)
}

func TestJSONParser_MissingPath(t *testing.T) {
	_, err := NewJSONParserAt("data.parkings", "code").Parse([]byte(`{"status":"success"}`))
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "data.parkings")
}

func TestJSONParser_NonObjectRecord(t *testing.T) {
	_, err := NewJSONParser().Parse([]byte(`[1, 2, 3]`))
	var perr *Error
	require.ErrorAs(t, err, &perr)
}

func TestCSVParser_HeaderPositional(t *testing.T) {
	raw := []byte("id,name,capacity\np1,Haus A,120\np2,Haus B,\np3,Haus C")

	recs, err := NewCSVParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	id, _ := recs[0].Get("id")
	assert.Equal(t, "p1", id)
	cap0, ok := recs[0].Int("capacity")
	require.True(t, ok)
	assert.Equal(t, 120, cap0)

	// short row leaves trailing field absent
	_, ok = recs[2].Get("capacity")
	assert.False(t, ok)
}

func TestCSVParser_Malformed(t *testing.T) {
	_, err := NewCSVParser().Parse([]byte("id,name\n\"unterminated,x"))
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "csv", perr.Format)
}
