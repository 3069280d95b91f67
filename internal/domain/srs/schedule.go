// Package srs implements the forgetting-curve scheduling used for spaced
// repetition. Scheduling walks a configurable table of day intervals, one
// step per completed review, until the review budget is exhausted.
package srs

import (
	"time"

	"github.com/phrazzld/kioku/internal/domain"
)

// Schedule advances the card's review schedule.
//
// The interval for the next review is intervals[card.ReviewCount], clamped to
// the last table entry when the count runs past the table. ReviewCount is
// incremented here and nowhere else; this is the single authoritative
// counter.
//
// When the card has already used its full review budget, or the interval
// table is empty, NextReviewDate is cleared and the count is left alone: the
// review series is exhausted.
func Schedule(card *domain.Card, intervals []int, maxReviewCount int, now time.Time) {
	if len(intervals) == 0 || card.ReviewCount >= maxReviewCount {
		card.NextReviewDate = nil
		return
	}

	idx := card.ReviewCount
	if idx >= len(intervals) {
		idx = len(intervals) - 1
	}

	next := now.AddDate(0, 0, intervals[idx])
	card.NextReviewDate = &next
	card.ReviewCount++
}

// Tier caps for generated interval steps, in days.
const (
	minGeneratedInterval = 7
	capEarlySteps        = 30  // steps 1-2
	capMidSteps          = 60  // steps 3-4
	capLateSteps         = 90  // steps 5-6
	capFinalSteps        = 180 // steps 7+
)

// GenerateIntervals returns an interval table of the requested length.
// Existing entries are kept; missing steps double the previous interval
// (minimum 7 days) and are capped by tier so late steps never exceed 180
// days.
func GenerateIntervals(count int, existing []int) []int {
	intervals := make([]int, 0, count)
	for i := 0; i < count; i++ {
		if i < len(existing) {
			intervals = append(intervals, existing[i])
			continue
		}

		prev := minGeneratedInterval
		if i > 0 {
			prev = intervals[i-1]
		}
		next := prev * 2
		if next < minGeneratedInterval {
			next = minGeneratedInterval
		}

		limit := capFinalSteps
		switch {
		case i < 2:
			limit = capEarlySteps
		case i < 4:
			limit = capMidSteps
		case i < 6:
			limit = capLateSteps
		}
		if next > limit {
			next = limit
		}

		intervals = append(intervals, next)
	}
	return intervals
}
