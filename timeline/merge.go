// ABOUTME: Reconciliation engine merging synthetic, cached, and fetched events
// ABOUTME: Dedupes by id, sorts newest first, and groups into time buckets
package timeline

import (
	"sort"
	"time"

	"github.com/harperreed/revline/models"
)

// Merge combines the three event sources in precedence order: synthetic,
// then cached, then freshly fetched. Duplicate ids keep the first
// occurrence, so a same-id fetch never silently overwrites a synthetic or
// cached entry. The result is sorted by OccurredAt descending with a
// stable tiebreak, and a fetched created-equivalent event dated the same
// calendar day as the synthetic created event is dropped.
func Merge(synthetic, cached, fetched []models.ActivityEvent) []models.ActivityEvent {
	seen := make(map[string]bool, len(synthetic)+len(cached)+len(fetched))
	merged := make([]models.ActivityEvent, 0, len(synthetic)+len(cached)+len(fetched))

	var createdDay *time.Time
	for _, src := range [][]models.ActivityEvent{synthetic, cached, fetched} {
		for _, ev := range src {
			if seen[ev.ID] {
				continue
			}
			if createdDay != nil && ev.Kind == models.KindCreated && sameDay(ev.OccurredAt, *createdDay) {
				continue
			}
			seen[ev.ID] = true
			if ev.Kind == models.KindCreated && createdDay == nil {
				day := ev.OccurredAt
				createdDay = &day
			}
			merged = append(merged, ev)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].OccurredAt.After(merged[j].OccurredAt)
	})
	return merged
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Monday at midnight.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// bucketFor classifies an event time against the evaluation instant. The
// checks run in the fixed BucketOrder; the first match wins.
func bucketFor(t, now time.Time) models.TimeBucket {
	today := startOfDay(now)
	switch {
	case !t.Before(today):
		return models.BucketToday
	case !t.Before(today.AddDate(0, 0, -1)):
		return models.BucketYesterday
	case !t.Before(startOfWeek(now)):
		return models.BucketThisWeek
	case !t.Before(startOfWeek(now).AddDate(0, 0, -7)):
		return models.BucketLastWeek
	case t.Year() == now.Year() && t.Month() == now.Month():
		return models.BucketThisMonth
	default:
		return models.BucketEarlier
	}
}

// GroupByBucket splits events into calendar buckets relative to now.
// Input order is preserved within each bucket, so events sorted newest
// first stay that way. Empty buckets are omitted.
func GroupByBucket(events []models.ActivityEvent, now time.Time) []models.BucketedEvents {
	byBucket := make(map[models.TimeBucket][]models.ActivityEvent)
	for _, ev := range events {
		b := bucketFor(ev.OccurredAt, now)
		byBucket[b] = append(byBucket[b], ev)
	}

	var out []models.BucketedEvents
	for _, b := range models.BucketOrder {
		if evs := byBucket[b]; len(evs) > 0 {
			out = append(out, models.BucketedEvents{Bucket: b, Events: evs})
		}
	}
	return out
}
