package config

import (
	"strings"
	"time"

	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptRetryMaxAttempts sets the total number of attempts of a remote call.
func OptRetryMaxAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Retry Attempts", i) {
			c.Resolve.MaxRetryAttempts = i
		}
	}
}

// OptRetryBaseDelay sets the wait after the first failed attempt.
func OptRetryBaseDelay(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Retry Base Delay", d, false) {
			c.Resolve.RetryBaseDelay = d
		}
	}
}

// OptRetryJitter sets the upper bound of random additions to retry waits.
// Zero disables jitter.
func OptRetryJitter(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Retry Jitter", d, true) {
			c.Resolve.RetryJitter = d
		}
	}
}

// OptPerCallTimeout sets the timeout of a single remote call.
func OptPerCallTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Per Call Timeout", d, false) {
			c.Resolve.PerCallTimeout = d
		}
	}
}

// OptInterAccessionDelay sets the pause after each accession.
// Zero disables the pause.
func OptInterAccessionDelay(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Inter Accession Delay", d, true) {
			c.Resolve.InterAccessionDelay = d
		}
	}
}

// OptCoordOrder sets the order of numbers in coordinate strings.
// Valid values: "lat_lon", "lon_lat".
func OptCoordOrder(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Resolve.CoordOrder", s) {
			c.Resolve.CoordOrder = s
		}
	}
}

// OptRequiredFields sets fields that trigger linked sample lookup.
// Unknown field names are rejected. An empty slice is accepted and
// disables the lookup.
func OptRequiredFields(ss []string) Option {
	return func(c *Config) {
		res := make([]string, 0, len(ss))
		for _, v := range ss {
			v = strings.ToLower(strings.TrimSpace(v))
			if _, err := record.NewField(v); err != nil {
				gn.Warn("<em>Required Fields</em>: unknown field '%s', ignoring", v)
				return
			}
			res = append(res, v)
		}
		c.Resolve.RequiredFields = res
	}
}

// OptCanonicalOrganism enables canonical forms of organism names.
func OptCanonicalOrganism(b bool) Option {
	return func(c *Config) {
		c.Resolve.CanonicalOrganism = b
	}
}

// OptNCBIBaseURL sets the E-utilities base URL.
func OptNCBIBaseURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("NCBI Base URL", s) {
			c.NCBI.BaseURL = s
		}
	}
}

// OptNCBIAPIKey sets the NCBI API key.
func OptNCBIAPIKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("NCBI API Key", s) {
			c.NCBI.APIKey = s
		}
	}
}

// OptNCBIEmail sets the contact email sent to NCBI.
func OptNCBIEmail(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("NCBI Email", s) {
			c.NCBI.Email = s
		}
	}
}

// OptNCBITool sets the tool name sent to NCBI.
func OptNCBITool(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("NCBI Tool", s) {
			c.NCBI.Tool = s
		}
	}
}

// OptNCBIRequestsPerSecond overrides the NCBI request budget.
func OptNCBIRequestsPerSecond(f float64) Option {
	return func(c *Config) {
		if f <= 0 {
			gn.Warn("<em>NCBI Requests Per Second</em> has to be positive number, ignoring %v", f)
			return
		}
		c.NCBI.RequestsPerSecond = f
	}
}

// OptSummaryJSON prints the run summary as JSON.
func OptSummaryJSON(b bool) Option {
	return func(c *Config) {
		c.Output.SummaryJSON = b
	}
}

// OptQuiet suppresses progress and summary output.
// Runtime-only field - not in ToOptions().
func OptQuiet(b bool) Option {
	return func(c *Config) {
		c.Output.Quiet = b
	}
}

// OptCacheEnabled enables the local record cache.
func OptCacheEnabled(b bool) Option {
	return func(c *Config) {
		c.Cache.Enabled = b
	}
}

// OptCacheTTL sets the age after which cached records expire.
func OptCacheTTL(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Cache TTL", d, false) {
			c.Cache.TTL = d
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows copied at once.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of accessions resolved at the same time.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

// CoordOrder returns parsed coordinate order.
func (c *Config) CoordOrder() coord.Order {
	res, _ := coord.NewOrder(c.Resolve.CoordOrder)
	return res
}

// RequiredFields returns parsed required fields.
func (c *Config) RequiredFields() []record.Field {
	res := make([]record.Field, 0, len(c.Resolve.RequiredFields))
	for _, v := range c.Resolve.RequiredFields {
		if f, err := record.NewField(v); err == nil {
			res = append(res, f)
		}
	}
	return res
}
