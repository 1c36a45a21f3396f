package iocache

import (
	"time"

	"github.com/uptrace/bun"
)

type recordRow struct {
	bun.BaseModel `bun:"table:records,alias:r"`

	ID             string    `bun:"id,pk"`
	Accession      string    `bun:"accession,notnull"`
	Source         string    `bun:"source,notnull"`
	BioSample      string    `bun:"biosample"`
	Organism       string    `bun:"organism"`
	Country        string    `bun:"country"`
	GeoLocation    string    `bun:"geo_location"`
	Latitude       string    `bun:"latitude"`
	Longitude      string    `bun:"longitude"`
	Isolate        string    `bun:"isolate"`
	Strain         string    `bun:"strain"`
	Cultivar       string    `bun:"cultivar"`
	CollectionDate string    `bun:"collection_date"`
	Host           string    `bun:"host"`
	Tissue         string    `bun:"tissue"`
	Platform       string    `bun:"platform"`
	Library        string    `bun:"library"`
	Settings       string    `bun:"settings"`
	RunID          string    `bun:"run_id"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

var updateColumns = []string{
	"biosample", "organism", "country", "geo_location", "latitude",
	"longitude", "isolate", "strain", "cultivar", "collection_date", "host",
	"tissue", "platform", "library", "settings", "run_id", "updated_at",
}

// newRecordRow fills a row from output columns in record.Header order.
func newRecordRow(v []string) *recordRow {
	return &recordRow{
		Accession:      v[0],
		Source:         v[1],
		BioSample:      v[2],
		Organism:       v[3],
		Country:        v[4],
		GeoLocation:    v[5],
		Latitude:       v[6],
		Longitude:      v[7],
		Isolate:        v[8],
		Strain:         v[9],
		Cultivar:       v[10],
		CollectionDate: v[11],
		Host:           v[12],
		Tissue:         v[13],
		Platform:       v[14],
		Library:        v[15],
	}
}

// values returns output columns in record.Header order.
func (r *recordRow) values() []string {
	return []string{
		r.Accession, r.Source, r.BioSample, r.Organism, r.Country,
		r.GeoLocation, r.Latitude, r.Longitude, r.Isolate, r.Strain,
		r.Cultivar, r.CollectionDate, r.Host, r.Tissue, r.Platform, r.Library,
	}
}
