package statistics

import (
	"math"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 || stats.Variance() != 0 || stats.StdDev() != 0 || stats.StdError() != 0 {
		t.Errorf("expected zero moments for empty stats")
	}
	if stats.Median() != 0 || stats.Percentile(0.9) != 0 {
		t.Errorf("expected zero percentiles for empty stats")
	}
	if stats.SeatMean(0) != 0 {
		t.Errorf("expected zero seat mean for empty stats")
	}
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	results := []HandResult{
		{NetBB: 1.0, Seat: 0, WentToShowdown: false, FinalPot: 4},
		{NetBB: -2.0, Seat: 1, WentToShowdown: true, FinalPot: 8},
		{NetBB: 3.0, Seat: 2, WentToShowdown: true, FinalPot: 12},
		{NetBB: 0.0, Seat: 0, WentToShowdown: false, FinalPot: 2},
		{NetBB: -1.0, Seat: 1, WentToShowdown: false, FinalPot: 6},
	}
	for _, r := range results {
		stats.Add(r)
	}

	if stats.Hands != 5 {
		t.Errorf("expected 5 hands, got %d", stats.Hands)
	}
	if want := 0.2; math.Abs(stats.Mean()-want) > 1e-9 {
		t.Errorf("expected mean %f, got %f", want, stats.Mean())
	}
	if math.Abs(stats.BBPer100()-20) > 1e-9 {
		t.Errorf("expected 20 bb/100, got %f", stats.BBPer100())
	}
	// Sorted: -2, -1, 0, 1, 3.
	if stats.Median() != 0 {
		t.Errorf("expected median 0, got %f", stats.Median())
	}
	if stats.ShowdownWins != 1 || stats.NonShowdownWins != 1 {
		t.Errorf("expected one win of each kind, got %d/%d", stats.ShowdownWins, stats.NonShowdownWins)
	}
	if stats.Seats[0].Hands != 2 || stats.Seats[1].Hands != 2 || stats.Seats[2].Hands != 1 {
		t.Errorf("unexpected seat breakdown")
	}
	if stats.SeatMean(1) != -1.5 {
		t.Errorf("expected seat 1 mean -1.5, got %f", stats.SeatMean(1))
	}
	if stats.MaxPot != 12 {
		t.Errorf("expected max pot 12, got %d", stats.MaxPot)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("expected valid stats: %v", err)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 4; i++ {
		stats.Add(HandResult{NetBB: float64(i)})
	}

	if stats.Median() != 2.5 {
		t.Errorf("expected interpolated median 2.5, got %f", stats.Median())
	}
	if stats.Percentile(0) != 1 || stats.Percentile(1) != 4 {
		t.Errorf("unexpected extremes %f %f", stats.Percentile(0), stats.Percentile(1))
	}
	if got := stats.Percentile(0.25); math.Abs(got-1.75) > 1e-9 {
		t.Errorf("expected 25th percentile 1.75, got %f", got)
	}
}

func TestStatistics_VarianceAndConfidence(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		stats.Add(HandResult{NetBB: v})
	}

	// Sample variance of the classic example is 32/7.
	if math.Abs(stats.Variance()-32.0/7.0) > 1e-9 {
		t.Errorf("expected variance %f, got %f", 32.0/7.0, stats.Variance())
	}
	lo, hi := stats.ConfidenceInterval95()
	margin := 1.96 * math.Sqrt(32.0/7.0) / math.Sqrt(8)
	if math.Abs(lo-(5-margin)) > 1e-9 || math.Abs(hi-(5+margin)) > 1e-9 {
		t.Errorf("unexpected interval [%f, %f]", lo, hi)
	}
}

func TestStatistics_ValidateDetectsMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 1})
	stats.Add(HandResult{NetBB: -1, WentToShowdown: true})
	if err := stats.Validate(); err != nil {
		t.Fatalf("expected valid stats: %v", err)
	}

	stats.ShowdownBB += 5
	if err := stats.Validate(); err == nil {
		t.Error("expected ledger mismatch")
	}
	stats.ShowdownBB -= 5

	stats.Values = stats.Values[:1]
	if err := stats.Validate(); err == nil {
		t.Error("expected values length mismatch")
	}
	stats.Values = append(stats.Values, -1)

	stats.Seats[0].Hands++
	if err := stats.Validate(); err == nil {
		t.Error("expected seat total mismatch")
	}
}

func TestStatistics_HoleClasses(t *testing.T) {
	stats := &Statistics{}
	stats.Add(HandResult{NetBB: 4, HoleClass: "Premium"})
	stats.Add(HandResult{NetBB: 2, HoleClass: "Premium"})
	stats.Add(HandResult{NetBB: -1, HoleClass: "Trash"})
	stats.Add(HandResult{NetBB: 1})

	if len(stats.Holes) != 2 {
		t.Fatalf("expected 2 hole classes, got %d", len(stats.Holes))
	}
	if stats.HoleMean("Premium") != 3 || stats.HoleMean("Trash") != -1 {
		t.Errorf("unexpected class means %f %f", stats.HoleMean("Premium"), stats.HoleMean("Trash"))
	}
	if stats.HoleMean("Weak") != 0 {
		t.Errorf("expected zero mean for an unseen class")
	}
	if err := stats.Validate(); err != nil {
		t.Fatalf("expected valid stats: %v", err)
	}

	stats.Holes["Trash"].Hands += 5
	if err := stats.Validate(); err == nil {
		t.Error("expected hole class overflow")
	}
}
