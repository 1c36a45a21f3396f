// Package record defines the canonical per-accession metadata record and
// its tabular representation.
//
// A MetadataRecord is created empty, filled by extraction methods in
// precedence order and finalized once. Set never overwrites a resolved
// field, so the first method that finds a value wins.
package record

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/coord"
)

// Unknown is the sentinel for a value that could not be resolved.
const Unknown = "N/A"

// Field is a metadata field of MetadataRecord.
type Field int

const (
	BioSample Field = iota
	Organism
	Country
	GeoLocation
	Coordinates
	Isolate
	Strain
	Cultivar
	CollectionDate
	Host
	Tissue
	Platform
	Library
)

// Fields lists all fields in output order.
var Fields = []Field{
	BioSample, Organism, Country, GeoLocation, Coordinates, Isolate, Strain,
	Cultivar, CollectionDate, Host, Tissue, Platform, Library,
}

var fieldNames = map[Field]string{
	BioSample:      "biosample",
	Organism:       "organism",
	Country:        "country",
	GeoLocation:    "geo_location",
	Coordinates:    "coordinates",
	Isolate:        "isolate",
	Strain:         "strain",
	Cultivar:       "cultivar",
	CollectionDate: "collection_date",
	Host:           "host",
	Tissue:         "tissue",
	Platform:       "platform",
	Library:        "library",
}

// String returns the configuration name of the field.
func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "unknown"
}

// NewField converts a configuration name to Field.
func NewField(s string) (Field, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range fieldNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// Method names the extraction step that supplied a value.
type Method string

const (
	Primary      Method = "primary"
	LinkedSample Method = "linked_sample"
	Normalized   Method = "normalized"
	Cache        Method = "cache"
)

// MetadataRecord is the resolved metadata of one accession.
type MetadataRecord struct {
	Accession string
	Source    accession.SourceKind

	// Coords keeps coordinates, both values present or both absent.
	Coords coord.Pair

	// Provenance records which method supplied each resolved field.
	Provenance map[Field]Method

	values map[Field]string
	final  bool
}

// New creates a record with every field unresolved.
func New(acc accession.Accession) MetadataRecord {
	return MetadataRecord{
		Accession:  acc.ID,
		Source:     acc.Source,
		Provenance: make(map[Field]Method),
		values:     make(map[Field]string),
	}
}

// Set writes value into an unresolved field. It returns false when the
// field is already resolved, the record is finalized or the value is
// empty. Coordinates must be set with SetCoords.
func (r *MetadataRecord) Set(f Field, value string, m Method) bool {
	if r.final || f == Coordinates || r.Resolved(f) {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" || value == Unknown {
		return false
	}
	r.values[f] = value
	r.Provenance[f] = m
	return true
}

// SetCoords writes coordinates if they are not resolved yet.
func (r *MetadataRecord) SetCoords(p coord.Pair, m Method) bool {
	if r.final || !p.Valid || r.Coords.Valid {
		return false
	}
	r.Coords = p
	r.Provenance[Coordinates] = m
	return true
}

// Replace overwrites a resolved value. It is used for normalization of a
// value that was already accepted, never for merging methods.
func (r *MetadataRecord) Replace(f Field, value string, m Method) {
	if r.final || f == Coordinates || !r.Resolved(f) {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	r.values[f] = value
	r.Provenance[f] = m
}

// Get returns a resolved value.
func (r MetadataRecord) Get(f Field) (string, bool) {
	if f == Coordinates {
		return r.Coords.String(), r.Coords.Valid
	}
	v, ok := r.values[f]
	if !ok || v == Unknown {
		return "", false
	}
	return v, true
}

// Value returns the value or Unknown.
func (r MetadataRecord) Value(f Field) string {
	if v, ok := r.Get(f); ok {
		return v
	}
	return Unknown
}

// Resolved checks if a field has a value.
func (r MetadataRecord) Resolved(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Missing returns the fields from fs that are still unresolved.
func (r MetadataRecord) Missing(fs ...Field) []Field {
	var res []Field
	for _, f := range fs {
		if !r.Resolved(f) {
			res = append(res, f)
		}
	}
	return res
}

// ResolvedCount returns the number of resolved fields.
func (r MetadataRecord) ResolvedCount() int {
	var res int
	for _, f := range Fields {
		if r.Resolved(f) {
			res++
		}
	}
	return res
}

// HasCoords checks if coordinates are present.
func (r MetadataRecord) HasCoords() bool {
	return r.Coords.Valid
}

// Finalize sets every unresolved field to Unknown and freezes the record.
func (r *MetadataRecord) Finalize() {
	if r.values == nil {
		r.values = make(map[Field]string)
	}
	if r.Provenance == nil {
		r.Provenance = make(map[Field]Method)
	}
	for _, f := range Fields {
		if f == Coordinates {
			continue
		}
		if _, ok := r.values[f]; !ok {
			r.values[f] = Unknown
		}
	}
	r.final = true
}

// Final checks if the record was finalized.
func (r MetadataRecord) Final() bool {
	return r.final
}

// Header returns the column names of the tabular output.
func Header() []string {
	return []string{
		"Accession", "Source", "BioSample", "Organism", "Country",
		"Geo_Location", "Latitude", "Longitude", "Isolate", "Strain",
		"Cultivar", "Collection_Date", "Host", "Tissue", "Platform", "Library",
	}
}

// Row returns the record as output columns matching Header.
func (r MetadataRecord) Row() []string {
	res := make([]string, 0, len(Header()))
	res = append(res, r.Accession, r.Source.String())
	for _, f := range Fields {
		if f == Coordinates {
			lat, lon := r.Coords.Strings()
			if !r.Coords.Valid {
				lat, lon = Unknown, Unknown
			}
			res = append(res, lat, lon)
			continue
		}
		res = append(res, r.Value(f))
	}
	return res
}

// FromRow converts output columns back to a finalized record.
func FromRow(row []string) (MetadataRecord, error) {
	hdr := Header()
	if len(row) != len(hdr) {
		return MetadataRecord{}, fmt.Errorf(
			"row has %d columns, expected %d", len(row), len(hdr),
		)
	}
	src, err := accession.NewSourceKind(row[1])
	if err != nil {
		return MetadataRecord{}, err
	}
	res := New(accession.New(row[0], src))

	i := 2
	for _, f := range Fields {
		if f == Coordinates {
			lat, lon := row[i], row[i+1]
			i += 2
			if lat == Unknown || lon == Unknown {
				continue
			}
			latF, err := strconv.ParseFloat(lat, 64)
			if err != nil {
				return MetadataRecord{}, fmt.Errorf("bad latitude %q: %w", lat, err)
			}
			lonF, err := strconv.ParseFloat(lon, 64)
			if err != nil {
				return MetadataRecord{}, fmt.Errorf("bad longitude %q: %w", lon, err)
			}
			res.SetCoords(coord.NewPair(latF, lonF), Cache)
			continue
		}
		res.Set(f, row[i], Cache)
		i++
	}
	res.Finalize()
	return res, nil
}

// FieldNames returns configuration names of fs, sorted.
func FieldNames(fs []Field) []string {
	res := make([]string, len(fs))
	for i, f := range fs {
		res[i] = f.String()
	}
	slices.Sort(res)
	return res
}
