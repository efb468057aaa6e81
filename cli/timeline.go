// ABOUTME: Timeline CLI commands
// ABOUTME: Shows the reconciled timeline flat or grouped by time bucket
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/revline/models"
	"github.com/harperreed/revline/timeline"
)

// TimelineShowCommand prints the reconciled timeline for a record.
func TimelineShowCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	recordType := fs.String("type", "lead", "Record type (lead/contact/opportunity/company)")
	recordID := fs.String("id", "", "Record id (required)")
	full := fs.Bool("full", false, "Use the full actions view (shorter cache TTL)")
	force := fs.Bool("force", false, "Bypass the cache and refetch")
	grouped := fs.Bool("grouped", false, "Group events by time bucket")
	_ = fs.Parse(args)

	rt, id, err := parseRecordArgs(*recordType, *recordID)
	if err != nil {
		return err
	}

	eng := deps.Engine(rt, id)
	defer eng.Close()

	view := timeline.ViewSummary
	if *full || *grouped {
		view = timeline.ViewFull
	}

	events, err := eng.Load(context.Background(), view, *force)
	if err != nil {
		return fmt.Errorf("failed to load timeline: %w", err)
	}

	printNotices(eng.Notices())

	if *grouped {
		for _, bucket := range eng.Buckets() {
			fmt.Printf("\n%s\n", bucket.Bucket)
			printEvents(bucket.Events)
		}
		return nil
	}

	printEvents(events)
	return nil
}

// TimelineRefreshCommand forces a refetch and reports what changed.
func TimelineRefreshCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	recordType := fs.String("type", "lead", "Record type (lead/contact/opportunity/company)")
	recordID := fs.String("id", "", "Record id (required)")
	_ = fs.Parse(args)

	rt, id, err := parseRecordArgs(*recordType, *recordID)
	if err != nil {
		return err
	}

	eng := deps.Engine(rt, id)
	defer eng.Close()

	events, err := eng.Load(context.Background(), timeline.ViewFull, true)
	if err != nil {
		return fmt.Errorf("failed to refresh timeline: %w", err)
	}

	printNotices(eng.Notices())
	fmt.Printf("Refreshed: %d events\n", len(events))
	return nil
}

func printEvents(events []models.ActivityEvent) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tKIND\tTITLE\tACTOR")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t-----")

	for _, ev := range events {
		when := ev.OccurredAt.Format("2006-01-02 15:04")
		if ev.DateUnknown {
			when = "Unknown date"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", when, ev.Kind, ev.Title, ev.Actor)
	}

	_ = w.Flush()
}

func printNotices(notices []timeline.Notice) {
	for _, n := range notices {
		fmt.Fprintf(os.Stderr, "note: %s\n", n.Message)
	}
}
