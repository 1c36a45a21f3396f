// Package schema provides the PostgreSQL model of exported accession
// metadata.
package schema

import (
	"database/sql"
	"time"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// AccessionMetadata is one resolved accession. Unresolved values are
// NULL.
type AccessionMetadata struct {
	// ID is UUIDv5 of "Source|Accession".
	ID string `db:"id" gorm:"type:uuid;primaryKey"`

	Accession string `db:"accession" gorm:"type:varchar(100);not null;index"`

	// Source is "Nucleotide" or "SRA".
	Source string `db:"source" gorm:"type:varchar(20);not null"`

	BioSample   sql.NullString `db:"biosample" gorm:"column:biosample;type:varchar(50);index"`
	Organism    sql.NullString `db:"organism" gorm:"type:varchar(255);index"`
	Country     sql.NullString `db:"country" gorm:"type:varchar(255);index"`
	GeoLocation sql.NullString `db:"geo_location" gorm:"type:text"`

	// Latitude and Longitude are signed decimal degrees, both present or
	// both NULL.
	Latitude  sql.NullFloat64 `db:"latitude" gorm:"type:double precision"`
	Longitude sql.NullFloat64 `db:"longitude" gorm:"type:double precision"`

	Isolate        sql.NullString `db:"isolate" gorm:"type:text"`
	Strain         sql.NullString `db:"strain" gorm:"type:text"`
	Cultivar       sql.NullString `db:"cultivar" gorm:"type:text"`
	CollectionDate sql.NullString `db:"collection_date" gorm:"type:varchar(100)"`
	Host           sql.NullString `db:"host" gorm:"type:text"`
	Tissue         sql.NullString `db:"tissue" gorm:"type:text"`
	Platform       sql.NullString `db:"platform" gorm:"type:varchar(100)"`
	Library        sql.NullString `db:"library" gorm:"column:library;type:varchar(100)"`

	UpdatedAt time.Time `db:"updated_at" gorm:"not null"`
}

// TableName returns the PostgreSQL table name.
func (AccessionMetadata) TableName() string {
	return "accession_metadata"
}

// RecordID returns a stable identifier of an accession.
func RecordID(acc string, src accession.SourceKind) string {
	return gnuuid.New(src.String() + "|" + acc).String()
}

// NewAccessionMetadata converts a finalized record.
func NewAccessionMetadata(rec record.MetadataRecord, updated time.Time) AccessionMetadata {
	res := AccessionMetadata{
		ID:             RecordID(rec.Accession, rec.Source),
		Accession:      rec.Accession,
		Source:         rec.Source.String(),
		BioSample:      nullString(rec, record.BioSample),
		Organism:       nullString(rec, record.Organism),
		Country:        nullString(rec, record.Country),
		GeoLocation:    nullString(rec, record.GeoLocation),
		Isolate:        nullString(rec, record.Isolate),
		Strain:         nullString(rec, record.Strain),
		Cultivar:       nullString(rec, record.Cultivar),
		CollectionDate: nullString(rec, record.CollectionDate),
		Host:           nullString(rec, record.Host),
		Tissue:         nullString(rec, record.Tissue),
		Platform:       nullString(rec, record.Platform),
		Library:        nullString(rec, record.Library),
		UpdatedAt:      updated,
	}
	if rec.HasCoords() {
		res.Latitude = sql.NullFloat64{Float64: rec.Coords.Lat, Valid: true}
		res.Longitude = sql.NullFloat64{Float64: rec.Coords.Lon, Valid: true}
	}
	return res
}

// UUID returns ID in binary form, uuid.Nil for a malformed ID.
func (m AccessionMetadata) UUID() uuid.UUID {
	res, err := uuid.Parse(m.ID)
	if err != nil {
		return uuid.Nil
	}
	return res
}

// Values returns column values in the order of Columns.
func (m AccessionMetadata) Values() []any {
	return []any{
		m.UUID(), m.Accession, m.Source, m.BioSample, m.Organism, m.Country,
		m.GeoLocation, m.Latitude, m.Longitude, m.Isolate, m.Strain,
		m.Cultivar, m.CollectionDate, m.Host, m.Tissue, m.Platform,
		m.Library, m.UpdatedAt,
	}
}

func nullString(rec record.MetadataRecord, f record.Field) sql.NullString {
	v, ok := rec.Get(f)
	return sql.NullString{String: v, Valid: ok}
}
