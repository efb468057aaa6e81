// ABOUTME: Per-record timeline engine tying cache, fetch, and reconciliation together
// ABOUTME: Guards optimistic edits against stale refresh results via list versioning
package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/revline/cache"
	"github.com/harperreed/revline/models"
)

// View selects the freshness requirement of a timeline read. The full
// actions view runs on a much shorter TTL so new actions surface quickly.
type View string

const (
	ViewSummary View = "summary"
	ViewFull    View = "full"
)

// Default TTLs per view. Both are explicit configuration; see Options.
const (
	DefaultSummaryTTL = 5 * time.Minute
	DefaultFullTTL    = 30 * time.Second
)

// Options configures an Engine.
type Options struct {
	// SummaryTTL bounds cache reuse for the summary view.
	SummaryTTL time.Duration
	// FullTTL bounds cache reuse for the full actions view.
	FullTTL time.Duration
	// CurrentUserID renders as "Me" and stamps optimistic mutations.
	CurrentUserID string
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SummaryTTL <= 0 {
		o.SummaryTTL = DefaultSummaryTTL
	}
	if o.FullTTL <= 0 {
		o.FullTTL = DefaultFullTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) ttlFor(view View) time.Duration {
	if view == ViewFull {
		return o.FullTTL
	}
	return o.SummaryTTL
}

// Engine produces the reconciled activity timeline for one business
// record. Each record gets its own Engine; engines never share cache
// entries or mutation state.
type Engine struct {
	backend    Backend
	store      cache.Store
	norm       *Normalizer
	opts       Options
	recordType models.RecordType
	recordID   string

	mu        sync.Mutex
	record    *models.Record
	events    []models.ActivityEvent
	version   uint64
	notices   []Notice
	listeners []func([]models.ActivityEvent)
	closed    bool
}

// NewEngine creates an engine for one record.
func NewEngine(backend Backend, store cache.Store, recordType models.RecordType, recordID string, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		backend:    backend,
		store:      store,
		norm:       NewNormalizer(NewDirectory(backend, opts.CurrentUserID)),
		opts:       opts,
		recordType: recordType,
		recordID:   recordID,
	}
}

// RecordID returns the id of the record this engine serves.
func (e *Engine) RecordID() string { return e.recordID }

// Load produces the reconciled timeline for the requested view. A valid
// cache entry short-circuits the remote fetch unless force is set. Fetch
// failures degrade to notices; Load only errors when the context is done.
func (e *Engine) Load(ctx context.Context, view View, force bool) ([]models.ActivityEvent, error) {
	now := e.opts.Now()
	startVersion := e.currentVersion()

	// Record fetch failure is non-fatal: synthetic events are skipped and
	// the remote actions/notes still load.
	rec, err := e.backend.GetRecord(ctx, e.recordType, e.recordID)
	if err != nil {
		e.addNotice(noticeFor("record details", err, now))
		rec = nil
	} else {
		e.mu.Lock()
		e.record = rec
		e.mu.Unlock()
	}
	synthetic := e.norm.Synthetic(ctx, rec, now)

	if !force {
		if entry, ok := e.store.Get(e.recordID, e.opts.ttlFor(view)); ok {
			cached := append(append([]models.ActivityEvent{}, entry.Activities...), entry.Notes...)
			merged := Merge(synthetic, cached, nil)
			return e.commit(merged, startVersion)
		}
	}

	res := e.fetchRemote(ctx, force)
	if ctx.Err() != nil {
		// Unmounted or cancelled mid-flight; leave state untouched.
		return nil, ctx.Err()
	}
	for _, ferr := range res.errs() {
		e.addNotice(noticeFor("recent activity", ferr, now))
	}

	activities := e.norm.FromActions(ctx, res.actions)
	noteEvents := e.norm.FromNotes(ctx, res.notes)
	merged := Merge(synthetic, nil, append(activities, noteEvents...))

	out, err := e.commit(merged, startVersion)
	if err != nil {
		return out, err
	}

	// Only cache server truth, and only when nothing mutated underneath us.
	if e.currentVersion() == startVersion {
		_ = e.store.Set(e.recordID, cache.NewEntry(e.recordID, activities, noteEvents))
	}
	return out, nil
}

// commit installs a freshly reconciled list unless an optimistic mutation
// landed after the load began, in which case the mutation wins and the
// current list is returned instead.
func (e *Engine) commit(merged []models.ActivityEvent, startVersion uint64) ([]models.ActivityEvent, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	if e.version != startVersion {
		out := snapshot(e.events)
		e.mu.Unlock()
		return out, nil
	}
	e.events = merged
	e.mu.Unlock()

	e.notifyListeners()
	return snapshot(merged), nil
}

// Events returns a copy of the current in-memory timeline.
func (e *Engine) Events() []models.ActivityEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.events)
}

// Buckets groups the current timeline into calendar buckets relative to
// the engine's clock.
func (e *Engine) Buckets() []models.BucketedEvents {
	return GroupByBucket(e.Events(), e.opts.Now())
}

// Record returns the last successfully fetched record, or nil.
func (e *Engine) Record() *models.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record
}

// Notices drains and returns the accumulated non-fatal notices.
func (e *Engine) Notices() []Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.notices
	e.notices = nil
	return out
}

// Subscribe registers a listener invoked with a fresh snapshot after every
// change to the in-memory timeline.
func (e *Engine) Subscribe(fn func([]models.ActivityEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// NotifyExternalMutation folds an event created elsewhere (another view,
// another component) into this timeline and invalidates the cache entry so
// the next load reconciles against server truth.
func (e *Engine) NotifyExternalMutation(ev models.ActivityEvent) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	for _, existing := range e.events {
		if existing.ID == ev.ID {
			e.mu.Unlock()
			return
		}
	}
	e.events = Merge(nil, append(snapshot(e.events), ev), nil)
	e.version++
	e.mu.Unlock()

	_ = e.store.Invalidate(e.recordID)
	e.notifyListeners()
}

// Close marks the engine unmounted. In-flight loads finish without
// mutating state, and further operations fail with ErrClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.listeners = nil
	e.mu.Unlock()
}

func (e *Engine) currentVersion() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

func (e *Engine) addNotice(n Notice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.notices = append(e.notices, n)
}

func (e *Engine) notifyListeners() {
	e.mu.Lock()
	fns := append([]func([]models.ActivityEvent){}, e.listeners...)
	evs := snapshot(e.events)
	e.mu.Unlock()
	for _, fn := range fns {
		fn(evs)
	}
}

func snapshot(events []models.ActivityEvent) []models.ActivityEvent {
	return append([]models.ActivityEvent(nil), events...)
}
