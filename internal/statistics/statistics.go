// Package statistics summarises per-hand results of an evaluated strategy.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// HandResult is the outcome of a single hand for the tracked player.
type HandResult struct {
	NetBB          float64 // big blinds won or lost
	Seat           int     // seat the tracked player occupied
	WentToShowdown bool
	FinalPot       int    // chips in the pot when the hand ended
	HoleClass      string // starting-hand class, empty when untracked
}

// SeatStats tracks results for one seat.
type SeatStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics accumulates hand results. The zero value is ready to use.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares for the variance
	Values []float64 // every result, for median and percentiles

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	Seats map[int]*SeatStats
	Holes map[string]*SeatStats

	MaxPot int
}

// Add incorporates a hand result.
func (s *Statistics) Add(r HandResult) {
	s.Hands++
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB
	s.Values = append(s.Values, r.NetBB)

	if r.WentToShowdown {
		s.ShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += r.NetBB
		if r.NetBB > 0 {
			s.NonShowdownWins++
		}
	}

	if s.Seats == nil {
		s.Seats = make(map[int]*SeatStats)
	}
	seat, ok := s.Seats[r.Seat]
	if !ok {
		seat = &SeatStats{}
		s.Seats[r.Seat] = seat
	}
	seat.Hands++
	seat.SumBB += r.NetBB
	seat.SumBB2 += r.NetBB * r.NetBB

	if r.HoleClass != "" {
		if s.Holes == nil {
			s.Holes = make(map[string]*SeatStats)
		}
		hole, ok := s.Holes[r.HoleClass]
		if !ok {
			hole = &SeatStats{}
			s.Holes[r.HoleClass] = hole
		}
		hole.Hands++
		hole.SumBB += r.NetBB
		hole.SumBB2 += r.NetBB * r.NetBB
	}

	s.MaxPot = max(s.MaxPot, r.FinalPot)
}

// Mean returns the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BBPer100 is the mean scaled to 100 hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p in [0, 1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), s.Values...)
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

// SeatMean returns the mean result from one seat.
func (s *Statistics) SeatMean(seat int) float64 {
	st, ok := s.Seats[seat]
	if !ok || st.Hands == 0 {
		return 0
	}
	return st.SumBB / float64(st.Hands)
}

// HoleMean returns the mean result for one starting-hand class.
func (s *Statistics) HoleMean(class string) float64 {
	st, ok := s.Holes[class]
	if !ok || st.Hands == 0 {
		return 0
	}
	return st.SumBB / float64(st.Hands)
}

// Validate checks the accumulated totals agree with each other.
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f showdown=%.6f non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	seatHands := 0
	for _, st := range s.Seats {
		seatHands += st.Hands
	}
	if seatHands != s.Hands {
		return fmt.Errorf("seat hands total (%d) does not match total hands (%d)", seatHands, s.Hands)
	}
	holeHands := 0
	for _, st := range s.Holes {
		holeHands += st.Hands
	}
	if holeHands > s.Hands {
		return fmt.Errorf("hole class total (%d) exceeds total hands (%d)", holeHands, s.Hands)
	}
	return nil
}
