package srs

import (
	"math/rand"
	"sort"
	"time"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// rankItems partitions the corpus into due and not-due items and sorts each
// partition ascending by mastery level, least-mastered first. The sort is
// stable so items with equal mastery keep their corpus order.
func rankItems(corpus []*domain.CorpusItem, now time.Time) (due, notDue []*domain.CorpusItem) {
	for _, item := range corpus {
		if item.Due(now) {
			due = append(due, item)
		} else {
			notDue = append(notDue, item)
		}
	}

	byMastery := func(items []*domain.CorpusItem) func(i, j int) bool {
		return func(i, j int) bool {
			return items[i].MasteryLevel < items[j].MasteryLevel
		}
	}

	sort.SliceStable(due, byMastery(due))
	sort.SliceStable(notDue, byMastery(notDue))

	return due, notDue
}

// shuffleWithin shuffles the pool prefix of each partition in place.
//
// Shuffling within a partition keeps the due-before-not-due ranking intact:
// a due item can never be displaced past a not-due item, so selection stays
// a ranking over partitions while the order inside each stays unpredictable.
func shuffleWithin(rng *rand.Rand, partitions ...[]*domain.CorpusItem) {
	for _, items := range partitions {
		rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}
}

// selectItems implements the selection algorithm used by Service.SelectItems.
func selectItems(
	corpus []*domain.CorpusItem,
	count int,
	now time.Time,
	rng *rand.Rand,
	params *Params,
) []*domain.CorpusItem {
	if count <= 0 {
		count = DefaultSessionSize
	}

	due, notDue := rankItems(corpus, now)

	// Limit the randomized pool to a slice of the front of the ranking so
	// low-mastery items stay favored even in large corpora.
	poolSize := count * params.PoolFactor
	if poolSize > len(corpus) {
		poolSize = len(corpus)
	}

	duePool := due
	notDuePool := notDue
	if len(duePool) > poolSize {
		duePool = duePool[:poolSize]
	}
	if rest := poolSize - len(duePool); rest < len(notDuePool) {
		notDuePool = notDuePool[:rest]
	}

	shuffleWithin(rng, duePool, notDuePool)

	ranked := make([]*domain.CorpusItem, 0, len(duePool)+len(notDuePool))
	ranked = append(ranked, duePool...)
	ranked = append(ranked, notDuePool...)

	if count > len(ranked) {
		count = len(ranked)
	}

	return ranked[:count]
}
