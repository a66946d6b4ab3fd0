package srs

import (
	"time"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// applyResult creates a new CorpusItem with updated mastery state based on a
// practice result, following the immutable update pattern: the input item is
// never modified.
//
// A successful practice raises the mastery level (capped at the maximum) and
// schedules the next review after the interval configured for the new level.
// A failed practice lowers the level (floored at zero) and makes the item due
// again immediately so the session retries it.
func applyResult(
	item *domain.CorpusItem,
	success bool,
	now time.Time,
	params *Params,
) *domain.CorpusItem {
	updated := *item
	updated.PracticeCount++
	updated.UpdatedAt = now

	if success {
		updated.MasteryLevel = item.MasteryLevel + 1
		if updated.MasteryLevel > domain.MaxMasteryLevel {
			updated.MasteryLevel = domain.MaxMasteryLevel
		}
		updated.NextReviewAt = now.Add(intervalFor(updated.MasteryLevel, params))
	} else {
		updated.MasteryLevel = item.MasteryLevel - 1
		if updated.MasteryLevel < domain.MinMasteryLevel {
			updated.MasteryLevel = domain.MinMasteryLevel
		}
		updated.NextReviewAt = now
	}

	return &updated
}

// intervalFor returns the review interval for a mastery level. Levels beyond
// the configured table use the last configured interval.
func intervalFor(level int, params *Params) time.Duration {
	if level >= len(params.IntervalDays) {
		level = len(params.IntervalDays) - 1
	}
	return time.Duration(params.IntervalDays[level]) * 24 * time.Hour
}
