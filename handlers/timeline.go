// ABOUTME: Timeline MCP tool handlers
// ABOUTME: Implements get_timeline, add_note, update_note, and delete_event tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/revline/api"
	"github.com/harperreed/revline/cache"
	"github.com/harperreed/revline/config"
	"github.com/harperreed/revline/models"
	"github.com/harperreed/revline/timeline"
)

type TimelineHandlers struct {
	client *api.Client
	store  cache.Store
	cfg    *config.Config
}

func NewTimelineHandlers(client *api.Client, store cache.Store, cfg *config.Config) *TimelineHandlers {
	return &TimelineHandlers{client: client, store: store, cfg: cfg}
}

func (h *TimelineHandlers) engine(recordType models.RecordType, recordID string) *timeline.Engine {
	return timeline.NewEngine(h.client, h.store, recordType, recordID, timeline.Options{
		SummaryTTL:    h.cfg.SummaryTTL,
		FullTTL:       h.cfg.FullTTL,
		CurrentUserID: h.cfg.CurrentUserID,
	})
}

func (h *TimelineHandlers) resolveRecord(recordType, recordID string) (models.RecordType, string, error) {
	if recordID == "" {
		return "", "", fmt.Errorf("record_id is required")
	}
	rt, ok := models.ParseRecordType(recordType)
	if !ok {
		return "", "", fmt.Errorf("invalid record_type: %s (valid: lead, contact, opportunity, company)", recordType)
	}
	return rt, recordID, nil
}

type GetTimelineInput struct {
	RecordType   string `json:"record_type" jsonschema:"Record type: lead, contact, opportunity, company"`
	RecordID     string `json:"record_id" jsonschema:"Record id (required)"`
	Full         bool   `json:"full,omitempty" jsonschema:"Use the full actions view with its shorter cache TTL"`
	ForceRefresh bool   `json:"force_refresh,omitempty" jsonschema:"Bypass the cache and refetch from the API"`
	Grouped      bool   `json:"grouped,omitempty" jsonschema:"Group events into time buckets (Today, Yesterday, ...)"`
}

type GetTimelineOutput struct {
	Events  []models.ActivityEvent  `json:"events,omitempty"`
	Buckets []models.BucketedEvents `json:"buckets,omitempty"`
	Notices []string                `json:"notices,omitempty"`
}

func (h *TimelineHandlers) GetTimeline(ctx context.Context, _ *mcp.CallToolRequest, input GetTimelineInput) (*mcp.CallToolResult, GetTimelineOutput, error) {
	rt, id, err := h.resolveRecord(input.RecordType, input.RecordID)
	if err != nil {
		return nil, GetTimelineOutput{}, err
	}

	eng := h.engine(rt, id)
	defer eng.Close()

	view := timeline.ViewSummary
	if input.Full || input.Grouped {
		view = timeline.ViewFull
	}

	events, err := eng.Load(ctx, view, input.ForceRefresh)
	if err != nil {
		return nil, GetTimelineOutput{}, fmt.Errorf("failed to load timeline: %w", err)
	}

	out := GetTimelineOutput{Notices: noticeMessages(eng.Notices())}
	if input.Grouped {
		out.Buckets = eng.Buckets()
	} else {
		out.Events = events
	}
	return nil, out, nil
}

type AddNoteInput struct {
	RecordType string `json:"record_type" jsonschema:"Record type: lead, contact, opportunity, company"`
	RecordID   string `json:"record_id" jsonschema:"Record id (required)"`
	Title      string `json:"title,omitempty" jsonschema:"Note title (defaults to 'Note added')"`
	Content    string `json:"content" jsonschema:"Note content (required)"`
}

type MutationOutput struct {
	State   string                `json:"state"`
	Event   *models.ActivityEvent `json:"event,omitempty"`
	Notices []string              `json:"notices,omitempty"`
}

func (h *TimelineHandlers) AddNote(ctx context.Context, _ *mcp.CallToolRequest, input AddNoteInput) (*mcp.CallToolResult, MutationOutput, error) {
	rt, id, err := h.resolveRecord(input.RecordType, input.RecordID)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	if input.Content == "" {
		return nil, MutationOutput{}, fmt.Errorf("content is required")
	}

	eng := h.engine(rt, id)
	defer eng.Close()

	mut, err := eng.AddNote(ctx, input.Title, input.Content)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, mutationOutput(mut, eng), nil
}

type UpdateNoteInput struct {
	RecordType string `json:"record_type" jsonschema:"Record type: lead, contact, opportunity, company"`
	RecordID   string `json:"record_id" jsonschema:"Record id (required)"`
	NoteID     string `json:"note_id" jsonschema:"Note id (required)"`
	Title      string `json:"title,omitempty" jsonschema:"New note title"`
	Content    string `json:"content,omitempty" jsonschema:"New note content"`
}

func (h *TimelineHandlers) UpdateNote(ctx context.Context, _ *mcp.CallToolRequest, input UpdateNoteInput) (*mcp.CallToolResult, MutationOutput, error) {
	rt, id, err := h.resolveRecord(input.RecordType, input.RecordID)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	if input.NoteID == "" {
		return nil, MutationOutput{}, fmt.Errorf("note_id is required")
	}

	eng := h.engine(rt, id)
	defer eng.Close()

	if _, err := eng.Load(ctx, timeline.ViewFull, false); err != nil {
		return nil, MutationOutput{}, fmt.Errorf("failed to load timeline: %w", err)
	}

	mut, err := eng.UpdateNote(ctx, input.NoteID, input.Title, input.Content)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, mutationOutput(mut, eng), nil
}

type DeleteEventInput struct {
	RecordType string `json:"record_type" jsonschema:"Record type: lead, contact, opportunity, company"`
	RecordID   string `json:"record_id" jsonschema:"Record id (required)"`
	EventID    string `json:"event_id" jsonschema:"Event id to delete (required)"`
	Confirm    string `json:"confirm" jsonschema:"Repeat the event id to confirm deletion"`
}

func (h *TimelineHandlers) DeleteEvent(ctx context.Context, _ *mcp.CallToolRequest, input DeleteEventInput) (*mcp.CallToolResult, MutationOutput, error) {
	rt, id, err := h.resolveRecord(input.RecordType, input.RecordID)
	if err != nil {
		return nil, MutationOutput{}, err
	}
	if input.EventID == "" {
		return nil, MutationOutput{}, fmt.Errorf("event_id is required")
	}

	eng := h.engine(rt, id)
	defer eng.Close()

	if _, err := eng.Load(ctx, timeline.ViewFull, false); err != nil {
		return nil, MutationOutput{}, fmt.Errorf("failed to load timeline: %w", err)
	}

	mut, err := eng.DeleteEvent(ctx, input.EventID, input.Confirm == input.EventID)
	if err != nil {
		if err == timeline.ErrDeleteNotConfirmed {
			return nil, MutationOutput{}, fmt.Errorf("set confirm to %q to delete this event", input.EventID)
		}
		return nil, MutationOutput{}, err
	}
	return nil, mutationOutput(mut, eng), nil
}

func mutationOutput(mut *timeline.Mutation, eng *timeline.Engine) MutationOutput {
	ev := mut.Event
	return MutationOutput{
		State:   string(mut.State),
		Event:   &ev,
		Notices: noticeMessages(eng.Notices()),
	}
}

func noticeMessages(notices []timeline.Notice) []string {
	var out []string
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}
