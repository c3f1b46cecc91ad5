package spreading

import (
	"fmt"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
)

// RunStatistics accumulates per-round aggregates over a single run. Each
// scalar slice has one entry per completed round. Entropy aggregates cover
// every node slot, including nodes that have not yet updated theirs.
type RunStatistics struct {
	AvgEntropy []float64 `json:"avg_entropy"`
	VarEntropy []float64 `json:"var_entropy"`
	MaxEntropy []float64 `json:"max_entropy"`
	MinEntropy []float64 `json:"min_entropy"`

	// Fragmentation[c][r] is the fraction of all nodes whose majority
	// belief in round r equals code c. Nodes without an opinion count
	// toward no code, so the 32 fractions of a round sum to the share
	// of opinionated nodes.
	Fragmentation [][]float64 `json:"fragmentation"`
}

func newRunStatistics(rounds int) *RunStatistics {
	s := &RunStatistics{
		AvgEntropy:    make([]float64, 0, rounds),
		VarEntropy:    make([]float64, 0, rounds),
		MaxEntropy:    make([]float64, 0, rounds),
		MinEntropy:    make([]float64, 0, rounds),
		Fragmentation: make([][]float64, rumor.Alphabet),
	}
	for c := range s.Fragmentation {
		s.Fragmentation[c] = make([]float64, 0, rounds)
	}
	return s
}

// Rounds returns the number of recorded rounds.
func (s *RunStatistics) Rounds() int {
	return len(s.AvgEntropy)
}

// record appends one round of aggregates and returns the round's average
// entropy. entropies holds one slot per node; majorities and hasOpinion
// describe each node's post-round belief.
func (s *RunStatistics) record(entropies []float64, majorities []rumor.Code, hasOpinion []bool) float64 {
	n := float64(len(entropies))

	sum := 0.0
	maxH, minH := entropies[0], entropies[0]
	for _, h := range entropies {
		sum += h
		if h > maxH {
			maxH = h
		}
		if h < minH {
			minH = h
		}
	}
	avg := sum / n

	variance := 0.0
	for _, h := range entropies {
		d := h - avg
		variance += d * d
	}
	variance /= n

	s.AvgEntropy = append(s.AvgEntropy, avg)
	s.VarEntropy = append(s.VarEntropy, variance)
	s.MaxEntropy = append(s.MaxEntropy, maxH)
	s.MinEntropy = append(s.MinEntropy, minH)

	held := make([]int, rumor.Alphabet)
	for i, c := range majorities {
		if hasOpinion[i] {
			held[c]++
		}
	}
	for c := 0; c < rumor.Alphabet; c++ {
		s.Fragmentation[c] = append(s.Fragmentation[c], float64(held[c])/n)
	}

	return avg
}

// Average element-wise averages statistics from runs of equal length.
// Experiments use it to smooth per-trial noise.
func Average(runs []*RunStatistics) (*RunStatistics, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs to average")
	}
	rounds := runs[0].Rounds()
	for i, r := range runs[1:] {
		if r.Rounds() != rounds {
			return nil, fmt.Errorf("run %d has %d rounds, want %d", i+1, r.Rounds(), rounds)
		}
	}

	avg := newRunStatistics(rounds)
	scale := 1 / float64(len(runs))
	for r := 0; r < rounds; r++ {
		var sumAvg, sumVar, sumMax, sumMin float64
		for _, run := range runs {
			sumAvg += run.AvgEntropy[r]
			sumVar += run.VarEntropy[r]
			sumMax += run.MaxEntropy[r]
			sumMin += run.MinEntropy[r]
		}
		avg.AvgEntropy = append(avg.AvgEntropy, sumAvg*scale)
		avg.VarEntropy = append(avg.VarEntropy, sumVar*scale)
		avg.MaxEntropy = append(avg.MaxEntropy, sumMax*scale)
		avg.MinEntropy = append(avg.MinEntropy, sumMin*scale)

		for c := 0; c < rumor.Alphabet; c++ {
			sumFrag := 0.0
			for _, run := range runs {
				sumFrag += run.Fragmentation[c][r]
			}
			avg.Fragmentation[c] = append(avg.Fragmentation[c], sumFrag*scale)
		}
	}
	return avg, nil
}
