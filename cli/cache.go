// ABOUTME: Cache admin CLI commands
// ABOUTME: Purges timeline cache entries for one record or all records
package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/revline/cache"
)

// CachePurgeCommand invalidates cached timeline entries.
func CachePurgeCommand(deps *Deps, args []string) error {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)
	recordID := fs.String("id", "", "Record id (omit to purge everything)")
	_ = fs.Parse(args)

	if *recordID != "" {
		if err := deps.Store.Invalidate(*recordID); err != nil {
			return fmt.Errorf("failed to purge cache entry: %w", err)
		}
		fmt.Printf("Purged cache for %s\n", *recordID)
		return nil
	}

	bs, ok := deps.Store.(*cache.BadgerStore)
	if !ok {
		return fmt.Errorf("full purge requires the badger-backed store")
	}
	if err := bs.Purge(); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	fmt.Println("Purged all cached timelines")
	return nil
}
