/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/accmeta/internal/iocache"
	"github.com/gnames/accmeta/internal/iofields"
	"github.com/gnames/accmeta/internal/iologger"
	"github.com/gnames/accmeta/internal/ioncbi"
	"github.com/gnames/accmeta/internal/iooutput"
	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/batch"
	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/accmeta/pkg/extract"
	"github.com/gnames/accmeta/pkg/orgname"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/resolver"
	"github.com/gnames/accmeta/pkg/retry"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getResolveCmd returns the resolve command.
func getResolveCmd() *cobra.Command {
	var flags resolveFlags

	resolveCmd := &cobra.Command{
		Use:   "resolve [file|-]",
		Short: "Resolve metadata of accessions from a list",
		Long: `Resolve reads accessions, one per line, from a file or STDIN and
writes one tab-separated row of metadata per accession.

Accessions are nucleotide records by default. Sequencing runs are marked
with an 'SRA' tag or 'sra:' prefix:

  MN908947.3
  SRR11092064 SRA
  sra:SRR11092065

For every accession the primary record is fetched first. If required
fields (coordinates by default) are still missing, the linked BioSample is
fetched as well. Values found first are never overwritten.

Examples:
  accmeta resolve accessions.txt -o metadata.tsv
  cat accessions.txt | accmeta resolve - --api-key KEY -j 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runResolve(cmd, args, &flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags.register(resolveCmd)
	return resolveCmd
}

func runResolve(cmd *cobra.Command, args []string, flags *resolveFlags) error {
	if resolveOpts := flags.options(cmd); len(resolveOpts) > 0 {
		cfg.Update(resolveOpts)
	}

	accs, err := readAccessions(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	res, closeRes, err := newResolver(cfg)
	if err != nil {
		return err
	}
	defer closeRes()

	out := cmd.OutOrStdout()
	outPath := "STDOUT"
	if flags.output != "" {
		outPath = flags.output
		f, err := os.Create(flags.output)
		if err != nil {
			return iooutput.WriteError(flags.output, err)
		}
		defer f.Close()
		out = f
	}
	w := iooutput.NewTSVWriter(out)

	runnerOpts := []batch.Option{
		batch.OptJobs(cfg.JobsNumber),
		batch.OptInterAccessionDelay(cfg.Resolve.InterAccessionDelay),
		batch.OptOnRecord(w.Write),
	}

	if cfg.Cache.Enabled {
		cache, err := iocache.Open(
			ctx,
			config.CacheFilePath(cfg.HomeDir),
			cfg.Cache.TTL,
			res.Settings(),
			iologger.IsDebug(cfg.Log),
		)
		if err != nil {
			gn.Warn("Cannot use record cache, continuing without it")
			slog.Warn("Cannot open record cache", "error", err)
		} else {
			defer cache.Close()
			runnerOpts = append(runnerOpts, batch.OptCache(cache))
		}
	}

	stderr := cmd.ErrOrStderr()
	if !cfg.Output.Quiet {
		bar := newProgressBar(len(accs), "Resolving: ", stderr)
		defer bar.Finish()
		runnerOpts = append(runnerOpts, batch.OptProgress(barProgress{bar: bar}))
	}

	slog.Info("Resolving accessions",
		"accessions", len(accs),
		"jobs", cfg.JobsNumber,
		"output", outPath,
	)

	runner := batch.New(res, runnerOpts...)
	_, summary, runErr := runner.Run(ctx, accs)

	if err = w.Flush(); err != nil {
		return iooutput.WriteError(outPath, err)
	}

	if !cfg.Output.Quiet {
		if err = printSummary(stderr, summary, cfg.Output.SummaryJSON); err != nil {
			return err
		}
	}

	if errors.Is(runErr, context.Canceled) {
		gn.Warn("Interrupted, <em>%d</em> of <em>%d</em> accessions were written",
			w.Rows(), len(accs))
	}
	return runErr
}

// readAccessions reads the accession list from a file or STDIN.
func readAccessions(cmd *cobra.Command, args []string) ([]accession.Accession, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, accessionListError(path, err)
		}
		defer f.Close()
		r = f
	}

	accs, err := accession.ReadList(r)
	if errors.Is(err, accession.ErrEmptyList) {
		return nil, emptyAccessionListError(path, err)
	}
	if err != nil {
		return nil, accessionListError(path, err)
	}
	return accs, nil
}

// newResolver wires the NCBI client, extraction rules and organism
// normalization into a resolver.
func newResolver(cfg *config.Config) (*resolver.Resolver, func(), error) {
	rules, err := iofields.New(cfg).Load()
	if err != nil {
		return nil, nil, err
	}

	policy := retry.Policy{
		MaxAttempts: cfg.Resolve.MaxRetryAttempts,
		BaseDelay:   cfg.Resolve.RetryBaseDelay,
		MaxJitter:   cfg.Resolve.RetryJitter,
	}

	resOpts := []resolver.Option{
		resolver.OptRetryPolicy(policy),
		resolver.OptExtractor(extract.New(rules)),
		resolver.OptRequiredFields(cfg.RequiredFields()),
		resolver.OptCoordOrder(cfg.CoordOrder()),
	}

	closeFn := func() {}
	if cfg.Resolve.CanonicalOrganism {
		norm := orgname.New(cfg.JobsNumber)
		resOpts = append(resOpts, resolver.OptNormalizer(norm))
		closeFn = norm.Close
	}

	slog.Info("Resolver settings",
		"required_fields", record.FieldNames(cfg.RequiredFields()),
		"coord_order", cfg.CoordOrder().String(),
		"max_attempts", policy.MaxAttempts,
		"request_budget", cfg.NCBI.RequestBudget(),
	)

	client := ioncbi.New(cfg, nil)
	return resolver.New(client, resOpts...), closeFn, nil
}
