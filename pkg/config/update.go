package config

import (
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Output.Quiet).
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var d time.Duration

	r := c.Resolve
	if r.MaxRetryAttempts > 0 {
		res = append(res, OptRetryMaxAttempts(r.MaxRetryAttempts))
	}
	if r.RetryBaseDelay > 0 {
		res = append(res, OptRetryBaseDelay(r.RetryBaseDelay))
	}
	res = append(res,
		OptRetryJitter(r.RetryJitter),
		OptInterAccessionDelay(r.InterAccessionDelay),
		OptRequiredFields(r.RequiredFields),
		OptCanonicalOrganism(r.CanonicalOrganism),
	)
	d = r.PerCallTimeout
	if d > 0 {
		res = append(res, OptPerCallTimeout(d))
	}
	s = r.CoordOrder
	if s != "" {
		res = append(res, OptCoordOrder(s))
	}

	s = c.NCBI.BaseURL
	if s != "" {
		res = append(res, OptNCBIBaseURL(s))
	}
	s = c.NCBI.APIKey
	if s != "" {
		res = append(res, OptNCBIAPIKey(s))
	}
	s = c.NCBI.Email
	if s != "" {
		res = append(res, OptNCBIEmail(s))
	}
	s = c.NCBI.Tool
	if s != "" {
		res = append(res, OptNCBITool(s))
	}
	if c.NCBI.RequestsPerSecond > 0 {
		res = append(res, OptNCBIRequestsPerSecond(c.NCBI.RequestsPerSecond))
	}

	res = append(res,
		OptSummaryJSON(c.Output.SummaryJSON),
		OptCacheEnabled(c.Cache.Enabled),
	)
	d = c.Cache.TTL
	if d > 0 {
		res = append(res, OptCacheTTL(d))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	if s != "" {
		return true
	}
	gn.Warn("<em>%s</em> is empty, keeping the previous value", name)
	return false
}

func isValidInt(name string, i int) bool {
	if i > 0 {
		return true
	}
	gn.Warn("<em>%s</em> must be positive, %d is ignored", name, i)
	return false
}

// isValidDuration accepts positive durations, or zero when zeroOK is set
// (no jitter, no pause between accessions).
func isValidDuration(name string, d time.Duration, zeroOK bool) bool {
	if d > 0 || (zeroOK && d == 0) {
		return true
	}
	gn.Warn("<em>%s</em> cannot be %s, ignoring", name, d.String())
	return false
}

// enumValues lists allowed values of string settings with a closed set.
var enumValues = map[string][]string{
	"Database.SSLMode":   {"disable", "require", "verify-ca", "verify-full"},
	"Log.Level":          {"debug", "info", "warn", "error"},
	"Log.Format":         {"json", "text"},
	"Log.Destination":    {"file", "stderr", "stdout"},
	"Resolve.CoordOrder": {"lat_lon", "lon_lat"},
}

func isValidEnum(name, val string) bool {
	vals := enumValues[name]
	if slices.Contains(vals, val) {
		return true
	}

	gn.Warn(
		"<em>%s</em> does not accept '%s', use one of: %s. Ignoring...",
		name, val, strings.Join(vals, ", "),
	)
	return false
}
