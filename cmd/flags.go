package cmd

import (
	"time"

	"github.com/gnames/accmeta/pkg/config"
	"github.com/spf13/cobra"
)

// resolveFlags keeps command line settings of the resolve command.
type resolveFlags struct {
	output      string
	jobs        int
	retries     int
	baseDelay   time.Duration
	timeout     time.Duration
	delay       time.Duration
	lonFirst    bool
	noCache     bool
	canonical   bool
	summaryJSON bool
	quiet       bool
	apiKey      string
	email       string
	required    []string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "",
		"file for tab-separated results (default STDOUT)")
	fs.IntVarP(&f.jobs, "jobs", "j", 0,
		"number of accessions resolved concurrently")
	fs.IntVar(&f.retries, "retries", 0,
		"total attempts of every remote call")
	fs.DurationVar(&f.baseDelay, "base-delay", 0,
		"wait after the first failed attempt, doubles with each retry")
	fs.DurationVar(&f.timeout, "timeout", 0,
		"timeout of a single remote call")
	fs.DurationVar(&f.delay, "delay", 0,
		"pause after each accession")
	fs.BoolVar(&f.lonFirst, "lon-first", false,
		"coordinate strings list longitude first")
	fs.BoolVar(&f.noCache, "no-cache", false,
		"do not use the local record cache")
	fs.BoolVar(&f.canonical, "canonical-organism", false,
		"replace organism names with canonical forms")
	fs.BoolVar(&f.summaryJSON, "summary-json", false,
		"print run summary as JSON")
	fs.BoolVarP(&f.quiet, "quiet", "q", false,
		"do not show progress and summary")
	fs.StringVar(&f.apiKey, "api-key", "",
		"NCBI API key")
	fs.StringVar(&f.email, "email", "",
		"contact email sent to NCBI")
	fs.StringSliceVar(&f.required, "required", nil,
		"fields that trigger linked sample lookup, for example coordinates,host")
}

// options converts flags set by the user to config options.
func (f *resolveFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	changed := cmd.Flags().Changed

	if changed("jobs") {
		res = append(res, config.OptJobsNumber(f.jobs))
	}
	if changed("retries") {
		res = append(res, config.OptRetryMaxAttempts(f.retries))
	}
	if changed("base-delay") {
		res = append(res, config.OptRetryBaseDelay(f.baseDelay))
	}
	if changed("timeout") {
		res = append(res, config.OptPerCallTimeout(f.timeout))
	}
	if changed("delay") {
		res = append(res, config.OptInterAccessionDelay(f.delay))
	}
	if changed("lon-first") {
		order := "lat_lon"
		if f.lonFirst {
			order = "lon_lat"
		}
		res = append(res, config.OptCoordOrder(order))
	}
	if changed("no-cache") {
		res = append(res, config.OptCacheEnabled(!f.noCache))
	}
	if changed("canonical-organism") {
		res = append(res, config.OptCanonicalOrganism(f.canonical))
	}
	if changed("summary-json") {
		res = append(res, config.OptSummaryJSON(f.summaryJSON))
	}
	if changed("quiet") {
		res = append(res, config.OptQuiet(f.quiet))
	}
	if changed("api-key") {
		res = append(res, config.OptNCBIAPIKey(f.apiKey))
	}
	if changed("email") {
		res = append(res, config.OptNCBIEmail(f.email))
	}
	if changed("required") {
		res = append(res, config.OptRequiredFields(f.required))
	}
	return res
}
