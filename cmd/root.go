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
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/accmeta/internal/iofs"
	"github.com/gnames/accmeta/internal/iologger"
	app "github.com/gnames/accmeta/pkg"
	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

// getRootCmd returns the root command with all subcommands.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "accmeta",
		Short:   "Resolves sample metadata of sequence accessions",
		Long: `accmeta resolves sample metadata (biosample, organism, country,
coordinates, collection date, host and more) of nucleotide records and
sequencing runs using NCBI E-utilities.

Every accession produces exactly one row of tab-separated output. Values
that cannot be found are reported as N/A.

Configuration precedence (highest to lowest):
  1. Command line flags
  2. Environment variables (ACCMETA_*, for example ACCMETA_NCBI_API_KEY)
  3. Config file (~/.config/accmeta/config.yaml)
  4. Built-in defaults

Extraction rules are kept in ~/.config/accmeta/fields.yaml.`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for accmeta")

	rootCmd.AddCommand(getResolveCmd())
	rootCmd.AddCommand(getCoordsCmd())
	rootCmd.AddCommand(getExportCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	if err = initLogging(config.New().Log, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureFieldsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, keeping the lines
	// written during bootstrap
	if err = initLogging(cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)

	return nil
}

func initLogging(logCfg config.LogConfig, append bool) error {
	closeLog()
	closer, err := iologger.Init(config.LogDir(homeDir), logCfg, append)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	setDefaults(v)
	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	return &res, nil
}

// setDefaults keeps default values for keys removed from config.yaml.
func setDefaults(v *viper.Viper) {
	d := config.New()
	v.SetDefault("resolve.max_retry_attempts", d.Resolve.MaxRetryAttempts)
	v.SetDefault("resolve.retry_base_delay", d.Resolve.RetryBaseDelay)
	v.SetDefault("resolve.retry_jitter", d.Resolve.RetryJitter)
	v.SetDefault("resolve.per_call_timeout", d.Resolve.PerCallTimeout)
	v.SetDefault("resolve.inter_accession_delay", d.Resolve.InterAccessionDelay)
	v.SetDefault("resolve.coord_order", d.Resolve.CoordOrder)
	v.SetDefault("resolve.required_fields", d.Resolve.RequiredFields)
	v.SetDefault("ncbi.base_url", d.NCBI.BaseURL)
	v.SetDefault("ncbi.tool", d.NCBI.Tool)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("jobs_number", d.JobsNumber)
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We bind them explicitly so we can see clearly which env variables
	// are allowed. They match the fields included in config.ToOptions().
	v.SetEnvPrefix("ACCMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		// Resolution
		"resolve.max_retry_attempts",
		"resolve.retry_base_delay",
		"resolve.retry_jitter",
		"resolve.per_call_timeout",
		"resolve.inter_accession_delay",
		"resolve.coord_order",
		"resolve.required_fields",
		"resolve.canonical_organism",

		// NCBI E-utilities
		"ncbi.base_url",
		"ncbi.api_key",
		"ncbi.email",
		"ncbi.tool",
		"ncbi.requests_per_second",

		// Output and cache
		"output.summary_json",
		"cache.enabled",
		"cache.ttl",

		// Database configuration
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",
		"database.batch_size",

		// Log configuration
		"log.level",
		"log.format",
		"log.destination",

		// General configuration
		"jobs_number",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
