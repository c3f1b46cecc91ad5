package spreading

import (
	"math"
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
)

func TestRunStatisticsRecord(t *testing.T) {
	s := newRunStatistics(2)

	entropies := []float64{0, 1, 2, 1}
	majorities := []rumor.Code{rumor.Truth, rumor.Lie, rumor.Lie, rumor.Truth}
	hasOpinion := []bool{true, true, true, false}

	avg := s.record(entropies, majorities, hasOpinion)
	if avg != 1 {
		t.Errorf("record() returned avg %v, want 1", avg)
	}
	if s.Rounds() != 1 {
		t.Fatalf("Rounds() = %d, want 1", s.Rounds())
	}
	if s.AvgEntropy[0] != 1 {
		t.Errorf("AvgEntropy[0] = %v, want 1", s.AvgEntropy[0])
	}
	// Population variance of {0,1,2,1} around 1 is 0.5.
	if s.VarEntropy[0] != 0.5 {
		t.Errorf("VarEntropy[0] = %v, want 0.5", s.VarEntropy[0])
	}
	if s.MaxEntropy[0] != 2 {
		t.Errorf("MaxEntropy[0] = %v, want 2", s.MaxEntropy[0])
	}
	if s.MinEntropy[0] != 0 {
		t.Errorf("MinEntropy[0] = %v, want 0", s.MinEntropy[0])
	}

	// Node 3 holds Truth but has no opinion, so only node 0 counts.
	if got := s.Fragmentation[rumor.Truth][0]; got != 0.25 {
		t.Errorf("Fragmentation[truth][0] = %v, want 0.25", got)
	}
	if got := s.Fragmentation[rumor.Lie][0]; got != 0.5 {
		t.Errorf("Fragmentation[lie][0] = %v, want 0.5", got)
	}
	sum := 0.0
	for c := 0; c < rumor.Alphabet; c++ {
		sum += s.Fragmentation[c][0]
	}
	if math.Abs(sum-0.75) > 1e-12 {
		t.Errorf("fragmentation sums to %v, want 0.75", sum)
	}
}

func TestAverage(t *testing.T) {
	a := newRunStatistics(1)
	a.record([]float64{0, 2}, []rumor.Code{rumor.Truth, rumor.Truth}, []bool{true, true})
	b := newRunStatistics(1)
	b.record([]float64{2, 4}, []rumor.Code{rumor.Lie, rumor.Lie}, []bool{true, true})

	avg, err := Average([]*RunStatistics{a, b})
	if err != nil {
		t.Fatalf("Average(): %v", err)
	}
	if got := avg.AvgEntropy[0]; got != 2 {
		t.Errorf("AvgEntropy[0] = %v, want 2", got)
	}
	if got := avg.MaxEntropy[0]; got != 3 {
		t.Errorf("MaxEntropy[0] = %v, want 3", got)
	}
	if got := avg.Fragmentation[rumor.Truth][0]; got != 0.5 {
		t.Errorf("Fragmentation[truth][0] = %v, want 0.5", got)
	}
	if got := avg.Fragmentation[rumor.Lie][0]; got != 0.5 {
		t.Errorf("Fragmentation[lie][0] = %v, want 0.5", got)
	}
}

func TestAverageErrors(t *testing.T) {
	if _, err := Average(nil); err == nil {
		t.Error("Average(nil) = nil error, want error")
	}

	a := newRunStatistics(1)
	a.record([]float64{0}, []rumor.Code{rumor.Truth}, []bool{true})
	b := newRunStatistics(0)
	if _, err := Average([]*RunStatistics{a, b}); err == nil {
		t.Error("Average() with mismatched round counts = nil error, want error")
	}
}
