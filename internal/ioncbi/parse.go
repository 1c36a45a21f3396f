package ioncbi

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gnames/accmeta/pkg/remote"
)

// parseRunInfo converts a runinfo CSV table to attributes of the row of
// runID. The first data row is used if runID is not found.
func parseRunInfo(data []byte, runID string) ([]remote.Attribute, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var header, row []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse runinfo: %w", err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if header == nil {
			header = rec
			continue
		}
		// runinfo repeats the header between result chunks
		if rec[0] == header[0] {
			continue
		}
		if row == nil {
			row = rec
		}
		if strings.EqualFold(rec[0], runID) {
			row = rec
			break
		}
	}

	if header == nil || row == nil {
		return nil, nil
	}

	res := make([]remote.Attribute, 0, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		res = append(res, remote.Attribute{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(row[i]),
		})
	}
	return res, nil
}

type eLinkResult struct {
	XMLName  xml.Name  `xml:"eLinkResult"`
	LinkSets []linkSet `xml:"LinkSet"`
}

type linkSet struct {
	DbFrom   string   `xml:"DbFrom"`
	IdList   []string `xml:"IdList>Id"`
	LinkInfo []linkDB `xml:"LinkSetDb"`
}

type linkDB struct {
	DbTo     string   `xml:"DbTo"`
	LinkName string   `xml:"LinkName"`
	Links    []string `xml:"Link>Id"`
}

// parseLink returns the first linked UID of an elink response.
func parseLink(data []byte) (string, error) {
	var res eLinkResult
	if err := xml.Unmarshal(data, &res); err != nil {
		return "", fmt.Errorf("cannot parse elink response: %w", err)
	}
	for _, ls := range res.LinkSets {
		for _, db := range ls.LinkInfo {
			for _, id := range db.Links {
				if id = strings.TrimSpace(id); id != "" {
					return id, nil
				}
			}
		}
	}
	return "", nil
}

type eSearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	IdList  []string `xml:"IdList>Id"`
}

// parseSearch returns the first UID of an esearch response.
func parseSearch(data []byte) (string, error) {
	var res eSearchResult
	if err := xml.Unmarshal(data, &res); err != nil {
		return "", fmt.Errorf("cannot parse esearch response: %w", err)
	}
	for _, id := range res.IdList {
		if id = strings.TrimSpace(id); id != "" {
			return id, nil
		}
	}
	return "", nil
}

type bioSampleSet struct {
	XMLName xml.Name    `xml:"BioSampleSet"`
	Samples []bioSample `xml:"BioSample"`
}

type bioSample struct {
	Accession string `xml:"accession,attr"`
	Organism  struct {
		TaxonomyName string `xml:"taxonomy_name,attr"`
		Name         string `xml:"OrganismName"`
	} `xml:"Description>Organism"`
	Attributes []struct {
		Name       string `xml:"attribute_name,attr"`
		Harmonized string `xml:"harmonized_name,attr"`
		Value      string `xml:",chardata"`
	} `xml:"Attributes>Attribute"`
}

// parseBioSample converts the first sample of a BioSample XML document to
// attributes. Organism and accession are added as attributes "organism"
// and "biosample_accession".
func parseBioSample(data []byte) ([]remote.Attribute, error) {
	var set bioSampleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("cannot parse biosample: %w", err)
	}
	if len(set.Samples) == 0 {
		return nil, nil
	}

	bs := set.Samples[0]
	res := make([]remote.Attribute, 0, len(bs.Attributes)+2)
	for _, a := range bs.Attributes {
		res = append(res, remote.Attribute{
			Name:           a.Name,
			HarmonizedName: a.Harmonized,
			Value:          strings.TrimSpace(a.Value),
		})
	}

	org := bs.Organism.TaxonomyName
	if org == "" {
		org = bs.Organism.Name
	}
	if org != "" {
		res = append(res, remote.Attribute{Name: "organism", Value: org})
	}
	if bs.Accession != "" {
		res = append(res, remote.Attribute{
			Name:  "biosample_accession",
			Value: bs.Accession,
		})
	}
	return res, nil
}
