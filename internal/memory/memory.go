// Package memory implements the bounded rumor memory each person carries.
// A memory holds the most recent insertions in arrival order, capped at a
// fixed capacity, alongside per-code occurrence counts. Opinions are read
// out of the counts, either by majority or by weighted sampling, and the
// Shannon entropy of the counts measures how conflicted the memory is.
package memory

import (
	"math"
	"math/rand"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
)

// Memory is a bounded FIFO of rumor codes with occurrence counts. The zero
// value is not usable; construct with New. Memory is not safe for concurrent
// use.
type Memory struct {
	codes    []rumor.Code
	head     int
	size     int
	capacity int
	counts   map[rumor.Code]int
}

// New returns an empty memory holding at most capacity codes. Capacity must
// be positive.
func New(capacity int) *Memory {
	return &Memory{
		codes:    make([]rumor.Code, capacity),
		capacity: capacity,
		counts:   make(map[rumor.Code]int),
	}
}

// Insert appends a code, evicting the oldest held code first when the
// memory is full.
func (m *Memory) Insert(code rumor.Code) {
	if m.size == m.capacity {
		oldest := m.codes[m.head]
		m.counts[oldest]--
		if m.counts[oldest] == 0 {
			delete(m.counts, oldest)
		}
		m.codes[m.head] = code
		m.head = (m.head + 1) % m.capacity
	} else {
		m.codes[(m.head+m.size)%m.capacity] = code
		m.size++
	}
	m.counts[code]++
}

// Len returns the number of codes currently held.
func (m *Memory) Len() int {
	return m.size
}

// Count returns how many held codes equal code.
func (m *Memory) Count(code rumor.Code) int {
	return m.counts[code]
}

// Counts returns a copy of the per-code occurrence counts. Codes not held
// are absent from the map.
func (m *Memory) Counts() map[rumor.Code]int {
	out := make(map[rumor.Code]int, len(m.counts))
	for c, n := range m.counts {
		out[c] = n
	}
	return out
}

// Sequence returns the held codes in arrival order, oldest first.
func (m *Memory) Sequence() []rumor.Code {
	out := make([]rumor.Code, m.size)
	for i := 0; i < m.size; i++ {
		out[i] = m.codes[(m.head+i)%m.capacity]
	}
	return out
}

// Majority returns the most frequent held code. Ties are broken uniformly
// at random among the tied codes. The second return is false when the
// memory is empty.
func (m *Memory) Majority(rng *rand.Rand) (rumor.Code, bool) {
	if m.size == 0 {
		return 0, false
	}
	best := 0
	var tied []rumor.Code
	for _, c := range rumor.All() {
		n := m.counts[c]
		if n == 0 || n < best {
			continue
		}
		if n > best {
			best = n
			tied = tied[:0]
		}
		tied = append(tied, c)
	}
	if len(tied) == 1 {
		return tied[0], true
	}
	return tied[rng.Intn(len(tied))], true
}

// WeightedSample returns a held code drawn with probability proportional to
// its occurrence count. The second return is false when the memory is empty.
func (m *Memory) WeightedSample(rng *rand.Rand) (rumor.Code, bool) {
	if m.size == 0 {
		return 0, false
	}
	target := rng.Intn(m.size)
	acc := 0
	for _, c := range rumor.All() {
		acc += m.counts[c]
		if target < acc {
			return c, true
		}
	}
	// Unreachable: counts always sum to size.
	return 0, false
}

// Entropy returns the base-2 Shannon entropy of the occurrence counts. An
// empty memory has entropy zero. Codes are summed in a fixed order so equal
// memories always produce the identical float.
func (m *Memory) Entropy() float64 {
	if m.size == 0 {
		return 0
	}
	h := 0.0
	total := float64(m.size)
	for _, c := range rumor.All() {
		n := m.counts[c]
		if n == 0 {
			continue
		}
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}

// MutateHeld rewrites every held occurrence of old into new, merging their
// counts. It is a no-op when old is not held or when the codes are equal.
func (m *Memory) MutateHeld(old, new rumor.Code) {
	if old == new || m.counts[old] == 0 {
		return
	}
	for i := 0; i < m.size; i++ {
		idx := (m.head + i) % m.capacity
		if m.codes[idx] == old {
			m.codes[idx] = new
		}
	}
	m.counts[new] += m.counts[old]
	delete(m.counts, old)
}
