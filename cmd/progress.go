package cmd

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/accmeta/pkg/batch"
	"github.com/gnames/gnfmt"
)

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(
	total int,
	prefix string,
	w io.Writer,
) *pb.ProgressBar {
	bar := pb.Full.New(total)
	bar.SetWriter(w)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar.Start()
}

// printSummary writes run statistics as text or JSON.
func printSummary(w io.Writer, s batch.Summary, asJSON bool) error {
	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		out, err := enc.Encode(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	_, err := fmt.Fprintf(w, `
Processed accessions:  %s
  with coordinates:    %s
  without coordinates: %s
  failed:              %s
  from cache:          %s
Duration:              %s
`,
		humanize.Comma(int64(s.Processed)),
		humanize.Comma(int64(s.WithCoordinates)),
		humanize.Comma(int64(s.WithoutCoordinates)),
		humanize.Comma(int64(s.Failed)),
		humanize.Comma(int64(s.Cached)),
		gnfmt.TimeString(s.Duration.Seconds()),
	)
	return err
}

// barProgress reports batch progress to a progress bar.
type barProgress struct {
	bar *pb.ProgressBar
}

func (p barProgress) Increment() {
	p.bar.Increment()
}
