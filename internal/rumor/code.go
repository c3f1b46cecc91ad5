// Package rumor defines the five-bit belief alphabet shared by the network
// generator and the propagation engine. A Code is an immutable value; its
// Hamming weight measures distance from the canonical truth and is used for
// presentation only, never inside the simulation itself.
package rumor

import (
	"fmt"
	"math/bits"
)

// Bits is the length of a code in bits.
const Bits = 5

// Alphabet is the number of distinct codes.
const Alphabet = 1 << Bits

const (
	// Truth is the canonical true rumor, "00000".
	Truth Code = 0

	// Lie is the fully distorted rumor, "11111".
	Lie Code = Alphabet - 1
)

// Code is a five-bit rumor. Only the low five bits are meaningful.
type Code uint8

// Parse converts a five-character binary string such as "01001" into a Code.
func Parse(s string) (Code, error) {
	if len(s) != Bits {
		return 0, fmt.Errorf("parse rumor code %q: want %d bits", s, Bits)
	}
	var c Code
	for i := 0; i < Bits; i++ {
		switch s[i] {
		case '0':
		case '1':
			c |= 1 << (Bits - 1 - i)
		default:
			return 0, fmt.Errorf("parse rumor code %q: bit %d is %q, want '0' or '1'", s, i, s[i])
		}
	}
	return c, nil
}

// String renders the code as five binary digits, most significant bit first.
func (c Code) String() string {
	return fmt.Sprintf("%05b", uint8(c)&(Alphabet-1))
}

// HammingWeight returns the number of set bits, i.e. the code's distance
// from Truth.
func (c Code) HammingWeight() int {
	return bits.OnesCount8(uint8(c) & (Alphabet - 1))
}

// Flip returns a copy of the code with exactly one bit inverted. Positions
// index the string form: 0 is the leftmost (most significant) bit.
func (c Code) Flip(pos int) Code {
	return (c ^ (1 << (Bits - 1 - pos))) & (Alphabet - 1)
}

// All returns the 32 codes in ascending order.
func All() []Code {
	codes := make([]Code, Alphabet)
	for i := range codes {
		codes[i] = Code(i)
	}
	return codes
}
