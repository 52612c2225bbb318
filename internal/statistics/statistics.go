// Package statistics aggregates per-shoe simulation results.
package statistics

import (
	"math"
	"sort"
)

// ShoeResult is the outcome of one complete shoe for the tracked player set.
type ShoeResult struct {
	Net        float64 // net money change across all tracked players
	Rounds     int     // rounds dealt from the shoe
	Seed       int64   // worker seed (for replay)
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
}

// Statistics tracks per-shoe net results across a simulation run.
type Statistics struct {
	Shoes  int
	Rounds int
	Sum    float64
	Sum2   float64   // sum of squares for variance
	Values []float64 // per-shoe nets for median/percentiles

	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int
}

// Add folds one shoe result into the totals.
func (s *Statistics) Add(r ShoeResult) {
	s.Shoes++
	s.Rounds += r.Rounds
	s.Sum += r.Net
	s.Sum2 += r.Net * r.Net
	s.Values = append(s.Values, r.Net)

	s.Wins += r.Wins
	s.Losses += r.Losses
	s.Pushes += r.Pushes
	s.Blackjacks += r.Blackjacks
	s.Busts += r.Busts
}

// Merge folds another statistics aggregate into this one.
func (s *Statistics) Merge(other *Statistics) {
	s.Shoes += other.Shoes
	s.Rounds += other.Rounds
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
}

// Mean returns the mean net result per shoe.
func (s *Statistics) Mean() float64 {
	if s.Shoes == 0 {
		return 0
	}
	return s.Sum / float64(s.Shoes)
}

// Variance returns the sample variance of per-shoe results.
func (s *Statistics) Variance() float64 {
	if s.Shoes < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Shoes)*mean*mean) / float64(s.Shoes-1)
}

// StdDev returns the sample standard deviation of per-shoe results.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Shoes == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Shoes))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-shoe net result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the p-th percentile (0..1) of per-shoe net results
// using linear interpolation.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
