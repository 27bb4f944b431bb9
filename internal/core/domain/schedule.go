package domain

import (
	"math/rand"
	"sort"
	"time"
)

const dateKeyLayout = "2006-01-02"

// sampleCubicBiasedFraction draws from [0,1) with the density concentrated
// near zero. Cubing a uniform draw pushes roughly 58% of the mass into the
// lowest fifth of the range.
func sampleCubicBiasedFraction(rng *rand.Rand) float64 {
	u := rng.Float64()
	return u * u * u
}

// toOldestFirstIndex maps a biased fraction onto an index into an
// oldest-first pool, so index 0 (the oldest item) receives the concentrated
// mass.
func toOldestFirstIndex(fraction float64, count int) int {
	if count <= 1 {
		return 0
	}
	idx := int(fraction * float64(count))
	if idx >= count {
		idx = count - 1
	}
	return idx
}

// WeightedRandomOffset returns an index into an oldest-first pool of count
// items, biased toward the old end. count of 0 or 1 always yields 0;
// repeated calls are independent draws.
func WeightedRandomOffset(rng *rand.Rand, count int) int {
	if count <= 1 {
		return 0
	}
	return toOldestFirstIndex(sampleCubicBiasedFraction(rng), count)
}

// SelectAndRemove draws one item from pool with the age bias and returns it
// together with a new pool that no longer contains it. The input slice is
// not mutated. pool must be non-empty.
func SelectAndRemove(rng *rand.Rand, pool []BacklogItem) (BacklogItem, []BacklogItem) {
	sorted := make([]BacklogItem, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	offset := WeightedRandomOffset(rng, len(sorted))
	picked := sorted[offset]
	rest := append(sorted[:offset:offset], sorted[offset+1:]...)
	return picked, rest
}

// NextNDates returns n consecutive UTC-midnight dates starting tomorrow.
// n of 0 yields an empty slice; a negative n is a caller contract violation.
func NextNDates(n int) ([]time.Time, error) {
	return nextNDatesFrom(time.Now(), n)
}

func nextNDatesFrom(now time.Time, n int) ([]time.Time, error) {
	if n < 0 {
		return nil, ErrInvalidDayCount
	}
	y, m, d := now.UTC().Date()
	dates := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		dates = append(dates, time.Date(y, m, d+i, 0, 0, 0, 0, time.UTC))
	}
	return dates, nil
}

// ScheduleBacklog assigns backlog items to the next n open calendar dates
// after now. Dates already present in existing never receive an assignment,
// no item is assigned twice in one run, and an exhausted backlog simply
// shortens the result.
func ScheduleBacklog(rng *rand.Rand, now time.Time, backlog []BacklogItem, existing []time.Time, n int) ([]Assignment, error) {
	candidates, err := nextNDatesFrom(now, n)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		occupied[d.UTC().Format(dateKeyLayout)] = struct{}{}
	}

	pool := backlog
	var assignments []Assignment
	for _, date := range candidates {
		if _, taken := occupied[date.Format(dateKeyLayout)]; taken {
			continue
		}
		if len(pool) == 0 {
			break
		}
		var item BacklogItem
		item, pool = SelectAndRemove(rng, pool)
		assignments = append(assignments, Assignment{Item: item, Date: date})
	}
	return assignments, nil
}
