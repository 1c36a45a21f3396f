// Package accmeta resolves normalized sample metadata of sequence
// database accessions.
package accmeta

var (
	// Version of accmeta, set during build.
	Version = "v0.1.0"

	// Build timestamp, set during build.
	Build = "n/a"
)
