package simulation

import (
	"math"
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// AssertEntropyBounded asserts that every recorded entropy stays within
// [0, maxBits] in every round.
func AssertEntropyBounded(t *testing.T, result SimulationResult, maxBits float64) {
	t.Helper()
	for _, snap := range result.Rounds {
		for i, h := range snap.Entropies {
			if h < 0 || h > maxBits || math.IsNaN(h) {
				t.Errorf("AssertEntropyBounded: round %d: node %d entropy %.6f not in [0, %.4f]", snap.Round, i, h, maxBits)
			}
		}
	}
	for r, h := range result.Stats.MaxEntropy {
		if h < 0 || h > maxBits {
			t.Errorf("AssertEntropyBounded: round %d: max entropy %.6f not in [0, %.4f]", r+1, h, maxBits)
		}
	}
}

// AssertOpinionsPersist asserts that a node never loses its opinion once a
// rumor has entered its memory.
func AssertOpinionsPersist(t *testing.T, result SimulationResult) {
	t.Helper()
	held := make([]bool, result.NodeCount())
	for _, snap := range result.Rounds {
		for i, ok := range snap.HasOpinion {
			if held[i] && !ok {
				t.Errorf("AssertOpinionsPersist: round %d: node %d lost its opinion", snap.Round, i)
			}
			if ok {
				held[i] = true
			}
		}
	}
}

// AssertFragmentationConsistent asserts that each round's fragmentation
// fractions are valid and sum to the opinionated share of the network.
func AssertFragmentationConsistent(t *testing.T, result SimulationResult) {
	t.Helper()
	for r := range result.Rounds {
		sum := 0.0
		for c := 0; c < rumor.Alphabet; c++ {
			f := result.Stats.Fragmentation[c][r]
			if f < 0 || f > 1 {
				t.Errorf("AssertFragmentationConsistent: round %d: code %d fraction %.6f not in [0, 1]", r+1, c, f)
			}
			sum += f
		}
		want := result.OpinionatedFraction(r)
		if math.Abs(sum-want) > 1e-9 {
			t.Errorf("AssertFragmentationConsistent: round %d: fractions sum to %.6f, want %.6f", r+1, sum, want)
		}
	}
}

// AssertStatsMatchRounds asserts that the recorded statistics line up with
// the observed snapshots.
func AssertStatsMatchRounds(t *testing.T, result SimulationResult) {
	t.Helper()
	if got, want := result.Stats.Rounds(), len(result.Rounds); got != want {
		t.Fatalf("AssertStatsMatchRounds: stats cover %d rounds, snapshots cover %d", got, want)
	}
	for r, snap := range result.Rounds {
		if result.Stats.AvgEntropy[r] != snap.AvgEntropy {
			t.Errorf("AssertStatsMatchRounds: round %d: stats avg %.6f, snapshot avg %.6f", snap.Round, result.Stats.AvgEntropy[r], snap.AvgEntropy)
		}
	}
}

// AssertRolesFixed asserts that liars and truth-tellers never waver: their
// majority belief stays at the fixed code and their entropy slot stays zero.
func AssertRolesFixed(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, snap := range result.Rounds {
		for i, role := range result.Roles {
			var want rumor.Code
			switch role {
			case spreading.RoleLiar:
				want = rumor.Lie
			case spreading.RoleTruthTeller:
				want = rumor.Truth
			default:
				continue
			}
			if !snap.HasOpinion[i] {
				t.Errorf("AssertRolesFixed: round %d: %s node %d has no opinion", snap.Round, role, i)
				continue
			}
			if snap.Majorities[i] != want {
				t.Errorf("AssertRolesFixed: round %d: %s node %d majority = %s, want %s", snap.Round, role, i, snap.Majorities[i], want)
			}
			if snap.Entropies[i] != 0 {
				t.Errorf("AssertRolesFixed: round %d: %s node %d entropy = %.6f, want 0", snap.Round, role, i, snap.Entropies[i])
			}
		}
	}
}

// AssertSpread asserts that by the 0-based round index byRound, at least
// minFraction of nodes hold an opinion.
func AssertSpread(t *testing.T, result SimulationResult, minFraction float64, byRound int) {
	t.Helper()
	if byRound >= len(result.Rounds) {
		t.Fatalf("AssertSpread: round %d not recorded (run had %d rounds)", byRound, len(result.Rounds))
	}
	got := result.OpinionatedFraction(byRound)
	if got < minFraction {
		t.Errorf("AssertSpread: round %d: %.1f%% of nodes opinionated (need %.1f%%)", byRound+1, got*100, minFraction*100)
	}
}

// CountHolding counts nodes whose majority belief equals code in the given
// 0-based round index.
func CountHolding(result SimulationResult, round int, code rumor.Code) int {
	count := 0
	snap := result.Rounds[round]
	for i, c := range snap.Majorities {
		if snap.HasOpinion[i] && c == code {
			count++
		}
	}
	return count
}

// FinalRound returns the index of the last recorded round.
func FinalRound(result SimulationResult) int {
	return len(result.Rounds) - 1
}
