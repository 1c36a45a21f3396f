// Package coord normalizes free-text latitude/longitude annotations into
// signed decimal degrees.
//
// The parser is a best-effort heuristic. Geographic annotations in public
// records follow no enforced grammar, so the first number found is taken as
// latitude and the second as longitude unless OrderLonLat is requested.
// Hemisphere letters only change signs, they never reassign axes.
//
// This package is pure, it has no I/O and never returns errors: a string
// that does not hold a coordinate pair yields an absent Pair.
package coord

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Order determines which numeric token is treated as latitude.
type Order int

const (
	// OrderLatLon treats the first number as latitude (default).
	OrderLatLon Order = iota
	// OrderLonLat treats the first number as longitude.
	OrderLonLat
)

// NewOrder converts "lat_lon" or "lon_lat" to Order.
func NewOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lat_lon", "latlon":
		return OrderLatLon, nil
	case "lon_lat", "lonlat":
		return OrderLonLat, nil
	}
	return OrderLatLon, fmt.Errorf("unknown coordinate order %q", s)
}

// String returns the configuration name of the Order.
func (o Order) String() string {
	if o == OrderLonLat {
		return "lon_lat"
	}
	return "lat_lon"
}

// Pair is a coordinate in signed decimal degrees. Valid is false when the
// coordinate is absent, in which case Lat and Lon are zero.
type Pair struct {
	Lat   float64
	Lon   float64
	Valid bool
}

// Absent is the zero Pair.
var Absent = Pair{}

// NewPair creates a valid Pair rounded to 6 decimal places. Out of range
// values produce Absent.
func NewPair(lat, lon float64) Pair {
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 ||
		math.IsNaN(lat) || math.IsNaN(lon) {
		return Absent
	}
	return Pair{Lat: round6(lat), Lon: round6(lon), Valid: true}
}

// Strings formats latitude and longitude with 6 fractional digits.
// The second return values are empty for an absent Pair.
func (p Pair) Strings() (string, string) {
	if !p.Valid {
		return "", ""
	}
	return strconv.FormatFloat(p.Lat, 'f', 6, 64),
		strconv.FormatFloat(p.Lon, 'f', 6, 64)
}

// String renders the pair as "lat\tlon" or an empty string.
func (p Pair) String() string {
	if !p.Valid {
		return ""
	}
	lat, lon := p.Strings()
	return lat + "\t" + lon
}

// Parse parses text using OrderLatLon.
func Parse(text string) Pair {
	return ParseWithOrder(text, OrderLatLon)
}

// ParseWithOrder finds two numeric tokens in text and returns them as a
// coordinate pair. A hemisphere letter belongs to the number right before
// it ("35.99 S"). When that number already has a letter, or there is no
// number yet, the letter belongs to the next number ("S 35.99 W 120.42").
// S negates latitude and W negates longitude. Fewer than two numbers
// return Absent.
func ParseWithOrder(text string, order Order) Pair {
	var vals [2]float64
	var marked [2]bool
	var count int
	// axis index of the most recent latitude and longitude assignment
	latIdx, lonIdx := -1, -1
	var pending []rune

	apply := func(h rune) {
		switch h {
		case 'S':
			if latIdx >= 0 {
				vals[latIdx] = -math.Abs(vals[latIdx])
			}
		case 'W':
			if lonIdx >= 0 {
				vals[lonIdx] = -math.Abs(vals[lonIdx])
			}
		}
	}

	toks := tokenize(text)
	for _, t := range toks {
		if t.isNum {
			if count == 2 {
				// more than two numbers, ignore the rest
				break
			}
			vals[count] = t.num
			if isLat(count, order) {
				latIdx = count
			} else {
				lonIdx = count
			}
			for _, h := range pending {
				apply(h)
				marked[count] = true
			}
			pending = pending[:0]
			count++
			continue
		}

		last := count - 1
		if last >= 0 && !marked[last] {
			apply(t.hemi)
			marked[last] = true
			continue
		}
		pending = append(pending, t.hemi)
	}

	if count < 2 {
		return Absent
	}

	if order == OrderLonLat {
		return NewPair(vals[1], vals[0])
	}
	return NewPair(vals[0], vals[1])
}

func isLat(idx int, order Order) bool {
	if order == OrderLonLat {
		return idx == 1
	}
	return idx == 0
}

type token struct {
	isNum bool
	num   float64
	hemi  rune
}

// tokenize splits text into numbers and hemisphere letters. Any other
// character is a boundary. A hemisphere letter counts only when it is not
// part of a longer word ("N" or "35.99N" but not "North").
func tokenize(text string) []token {
	var res []token
	rs := []rune(text)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsDigit(r) || isSignedStart(rs, i) || isDotStart(rs, i):
			j := i
			if rs[j] == '-' || rs[j] == '+' {
				j++
			}
			seenDot := false
			for j < len(rs) && (unicode.IsDigit(rs[j]) || (rs[j] == '.' && !seenDot)) {
				if rs[j] == '.' {
					seenDot = true
				}
				j++
			}
			num, err := strconv.ParseFloat(strings.TrimSuffix(string(rs[i:j]), "."), 64)
			if err == nil {
				res = append(res, token{isNum: true, num: num})
			}
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			if j-i == 1 {
				h := unicode.ToUpper(r)
				if h == 'N' || h == 'S' || h == 'E' || h == 'W' {
					res = append(res, token{hemi: h})
				}
			}
			i = j
		default:
			i++
		}
	}
	return res
}

func isSignedStart(rs []rune, i int) bool {
	if rs[i] != '-' && rs[i] != '+' {
		return false
	}
	if i+1 >= len(rs) {
		return false
	}
	return unicode.IsDigit(rs[i+1]) || isDotStart(rs, i+1)
}

func isDotStart(rs []rune, i int) bool {
	return rs[i] == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])
}

func round6(f float64) float64 {
	res := math.Round(f*1e6) / 1e6
	if res == 0 {
		// avoid "-0.000000"
		return 0
	}
	return res
}
