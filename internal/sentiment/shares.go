// Package sentiment converts raw per-category article counts into
// display-safe percentage shares for the sentiment bar.
package sentiment

import "github.com/kbaumler/worldmood/internal/model"

// minVisibleShare is the floor applied to a category whose raw count is
// zero, so its bar segment stays visible and hoverable.
const minVisibleShare = 5.0

// Shares are display percentages per category, summing to 100.
type Shares struct {
	Positive float64
	Neutral  float64
	Negative float64
}

// Sum returns the total of the three shares.
func (s Shares) Sum() float64 {
	return s.Positive + s.Neutral + s.Negative
}

// Normalize converts raw counts into shares.
//
// All-zero counts yield three equal shares: an empty signal is a
// displayable state, not a division error. Otherwise every zero-count
// category is floored at minVisibleShare and the remaining budget is
// split across the non-zero categories in proportion to their counts.
func Normalize(counts model.SentimentCounts) Shares {
	raw := [3]int{counts.Positive, counts.Neutral, counts.Negative}

	total := 0
	zeros := 0
	for _, n := range raw {
		total += n
		if n == 0 {
			zeros++
		}
	}

	if total == 0 {
		equal := 100.0 / 3.0
		return Shares{Positive: equal, Neutral: equal, Negative: equal}
	}

	budget := 100.0 - minVisibleShare*float64(zeros)

	var out [3]float64
	for i, n := range raw {
		if n == 0 {
			out[i] = minVisibleShare
		} else {
			out[i] = budget * float64(n) / float64(total)
		}
	}

	return Shares{Positive: out[0], Neutral: out[1], Negative: out[2]}
}
