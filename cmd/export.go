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
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/accmeta/internal/iodb"
	"github.com/gnames/accmeta/internal/iooutput"
	"github.com/gnames/accmeta/internal/ioschema"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <tsv>",
		Short: "Load resolved metadata into PostgreSQL",
		Long: `Export reads a file created by 'accmeta resolve' and loads its rows
into the accession_metadata table of PostgreSQL.

This command:
  1. Connects to PostgreSQL using the database section of configuration
  2. Creates or updates the table with GORM AutoMigrate
  3. Replaces rows of the same accessions in one transaction

N/A values are stored as NULL.

Examples:
  accmeta export metadata.tsv
  ACCMETA_DATABASE_HOST=db.example.org accmeta export metadata.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExport(args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return exportCmd
}

func runExport(path string) error {
	ctx := context.Background()

	recs, err := readResults(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		gn.Warn("No records found in <em>%s</em>, nothing to export", path)
		return nil
	}

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	table := schema.AccessionMetadata{}.TableName()
	existed, err := op.TableExists(ctx, table)
	if err != nil {
		return err
	}

	sm := ioschema.NewManager(op)
	if err = sm.Migrate(ctx); err != nil {
		return err
	}
	if !existed {
		gn.Info("Created table <em>%s</em>", table)
	}

	now := time.Now().UTC()
	rows := make([]schema.AccessionMetadata, len(recs))
	for i := range recs {
		rows[i] = schema.NewAccessionMetadata(recs[i], now)
	}

	n, err := op.CopyRecords(ctx, rows)
	if err != nil {
		return err
	}

	gn.Info("Exported <em>%s</em> records to <em>%s</em>",
		humanize.Comma(int64(n)), table)
	return nil
}

func readResults(path string) ([]record.MetadataRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, iooutput.ReadError(path, err)
	}
	defer f.Close()

	res, err := iooutput.ReadTSV(f)
	if err != nil {
		return nil, iooutput.ReadError(path, err)
	}
	return res, nil
}
