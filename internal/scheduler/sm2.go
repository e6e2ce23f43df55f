// Package scheduler implements the SM-2 derived spacing algorithm. It is pure
// computation: no I/O, no clock of its own, no hidden state.
package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/kotoba-dev/kotoba/internal/card"
)

// SecondIntervalDays is the fixed interval granted by the second successful
// review in a row of repetitions, independent of the ease factor.
const SecondIntervalDays = 6

// Next maps the current card state and a recall grade to the next state.
//
// Three transitions exist and they are deliberately asymmetric:
//   - a card's first-ever review always schedules it for tomorrow and starts
//     the repetition count at 1, whatever the grade was;
//   - a later failed review (quality < 3) resets the interval to one day but
//     leaves both the repetition count and the ease factor alone;
//   - a successful review adjusts the ease factor, grows the interval and
//     advances the repetition count.
//
// The next review date is always truncated to local midnight, so reviewing the
// same card again on the same calendar day with the same grade reproduces the
// same result. The input card is never mutated; an invalid quality returns the
// card unchanged alongside ErrInvalidQuality.
func Next(c card.Card, quality int, now time.Time) (card.Card, error) {
	if !card.ValidQuality(quality) {
		return c, fmt.Errorf("quality %d: %w", quality, card.ErrInvalidQuality)
	}

	if c.IsNew() {
		return firstReview(c, now), nil
	}
	if quality < card.PassThreshold {
		return relapse(c, now), nil
	}
	return advance(c, quality, now), nil
}

// firstReview starts the repetition streak regardless of the grade. The ease
// factor is left as stored.
func firstReview(c card.Card, now time.Time) card.Card {
	c.IntervalDays = 1
	c.ReviewCount = 1
	c.NextReviewDate = scheduleDate(now, 1)
	return c
}

// relapse sends a previously scheduled card back to tomorrow. The repetition
// count does not advance and the ease factor is not penalized.
func relapse(c card.Card, now time.Time) card.Card {
	c.IntervalDays = 1
	c.NextReviewDate = scheduleDate(now, 1)
	return c
}

func advance(c card.Card, quality int, now time.Time) card.Card {
	q := float64(quality)
	c.EasinessFactor = card.ClampEasinessFactor(
		c.EasinessFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02)),
	)

	if c.ReviewCount == 1 {
		c.IntervalDays = SecondIntervalDays
	} else {
		next := int(math.Round(float64(c.IntervalDays) * c.EasinessFactor))
		if next < 1 {
			next = 1
		}
		c.IntervalDays = next
	}

	c.ReviewCount++
	c.NextReviewDate = scheduleDate(now, c.IntervalDays)
	return c
}

func scheduleDate(now time.Time, intervalDays int) *time.Time {
	d := card.StartOfDay(now.AddDate(0, 0, intervalDays))
	return &d
}
