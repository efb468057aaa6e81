// ABOUTME: Shared command dependencies and engine construction
// ABOUTME: Wires config, API client, and badger cache store for CLI commands
package cli

import (
	"fmt"

	"github.com/harperreed/revline/api"
	"github.com/harperreed/revline/cache"
	"github.com/harperreed/revline/config"
	"github.com/harperreed/revline/models"
	"github.com/harperreed/revline/timeline"
)

// Deps bundles what every command needs.
type Deps struct {
	Config *config.Config
	Client *api.Client
	Store  cache.Store
}

// NewDeps builds command dependencies from loaded config.
func NewDeps(cfg *config.Config) (*Deps, error) {
	store, err := cache.OpenBadger(config.CacheDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline cache: %w", err)
	}

	return &Deps{
		Config: cfg,
		Client: api.NewClient(cfg.BaseURL, cfg.AuthToken, cfg.RequestTimeout),
		Store:  store,
	}, nil
}

// Close releases the cache store.
func (d *Deps) Close() error {
	return d.Store.Close()
}

// Engine builds a timeline engine for one record.
func (d *Deps) Engine(recordType models.RecordType, recordID string) *timeline.Engine {
	return timeline.NewEngine(d.Client, d.Store, recordType, recordID, timeline.Options{
		SummaryTTL:    d.Config.SummaryTTL,
		FullTTL:       d.Config.FullTTL,
		CurrentUserID: d.Config.CurrentUserID,
	})
}

// parseRecordArgs validates the shared -type/-id flag pair.
func parseRecordArgs(recordType, recordID string) (models.RecordType, string, error) {
	if recordID == "" {
		return "", "", fmt.Errorf("record id is required")
	}
	rt, ok := models.ParseRecordType(recordType)
	if !ok {
		return "", "", fmt.Errorf("invalid record type %q (valid: lead, contact, opportunity, company)", recordType)
	}
	return rt, recordID, nil
}
