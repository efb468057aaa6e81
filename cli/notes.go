// ABOUTME: Note and event mutation CLI commands
// ABOUTME: Optimistic add/update/delete with type-to-confirm for deletes
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/revline/timeline"
)

// NoteAddCommand creates a note on a record's timeline.
func NoteAddCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	recordType := fs.String("type", "lead", "Record type (lead/contact/opportunity/company)")
	recordID := fs.String("id", "", "Record id (required)")
	title := fs.String("title", "", "Note title")
	content := fs.String("content", "", "Note content (required)")
	_ = fs.Parse(args)

	rt, id, err := parseRecordArgs(*recordType, *recordID)
	if err != nil {
		return err
	}
	if *content == "" {
		return fmt.Errorf("content is required")
	}

	eng := deps.Engine(rt, id)
	defer eng.Close()

	mut, err := eng.AddNote(context.Background(), *title, *content)
	if err != nil {
		printNotices(eng.Notices())
		return err
	}

	fmt.Printf("Note added: %s\n", mut.Event.ID)
	return nil
}

// NoteUpdateCommand edits an existing note.
func NoteUpdateCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	recordType := fs.String("type", "lead", "Record type (lead/contact/opportunity/company)")
	recordID := fs.String("id", "", "Record id (required)")
	noteID := fs.String("note", "", "Note id (required)")
	title := fs.String("title", "", "New note title")
	content := fs.String("content", "", "New note content")
	_ = fs.Parse(args)

	rt, id, err := parseRecordArgs(*recordType, *recordID)
	if err != nil {
		return err
	}
	if *noteID == "" {
		return fmt.Errorf("note id is required")
	}

	eng := deps.Engine(rt, id)
	defer eng.Close()

	// Hydrate the in-memory list so the target note exists locally.
	if _, err := eng.Load(context.Background(), timeline.ViewFull, false); err != nil {
		return fmt.Errorf("failed to load timeline: %w", err)
	}

	mut, err := eng.UpdateNote(context.Background(), *noteID, *title, *content)
	if err != nil {
		printNotices(eng.Notices())
		return err
	}

	fmt.Printf("Note updated: %s\n", mut.Event.ID)
	return nil
}

// EventDeleteCommand deletes a timeline event (note or action). The
// -confirm flag must repeat the event id, the CLI equivalent of the
// type-to-confirm gesture.
func EventDeleteCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	recordType := fs.String("type", "lead", "Record type (lead/contact/opportunity/company)")
	recordID := fs.String("id", "", "Record id (required)")
	eventID := fs.String("event", "", "Event id (required)")
	confirm := fs.String("confirm", "", "Repeat the event id to confirm deletion")
	_ = fs.Parse(args)

	rt, id, err := parseRecordArgs(*recordType, *recordID)
	if err != nil {
		return err
	}
	if *eventID == "" {
		return fmt.Errorf("event id is required")
	}

	eng := deps.Engine(rt, id)
	defer eng.Close()

	if _, err := eng.Load(context.Background(), timeline.ViewFull, false); err != nil {
		return fmt.Errorf("failed to load timeline: %w", err)
	}

	confirmed := *confirm == *eventID
	mut, err := eng.DeleteEvent(context.Background(), *eventID, confirmed)
	if err != nil {
		if err == timeline.ErrDeleteNotConfirmed {
			return fmt.Errorf("pass -confirm %s to delete this event", *eventID)
		}
		printNotices(eng.Notices())
		return err
	}

	fmt.Printf("Deleted: %s (%s)\n", mut.Event.ID, mut.Event.Title)
	return nil
}
