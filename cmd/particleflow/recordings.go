package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ayusman/particleflow/internal/store"
)

// listRecordings prints the stored recordings, newest first.
func listRecordings(w io.Writer, st *store.Store) error {
	recs, err := st.Recordings().List()
	if err != nil {
		return fmt.Errorf("list recordings: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recordings.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFRAMES\tLENGTH\tCREATED")
	for _, r := range recs {
		span, err := st.Recordings().Span(r.ID)
		if err != nil {
			return fmt.Errorf("recording %s: %w", r.ID, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, humanize.Comma(int64(r.Frames)),
			span.Duration().Round(time.Millisecond), humanize.Time(r.CreatedAt))
	}
	return tw.Flush()
}
