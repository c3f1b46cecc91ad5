package rumor

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Code
		wantErr bool
	}{
		{
			name:  "all zeros is truth",
			input: "00000",
			want:  Truth,
		},
		{
			name:  "all ones is lie",
			input: "11111",
			want:  Lie,
		},
		{
			name:  "mixed bits",
			input: "01001",
			want:  Code(0b01001),
		},
		{
			name:    "too short",
			input:   "0101",
			wantErr: true,
		},
		{
			name:    "too long",
			input:   "010101",
			wantErr: true,
		},
		{
			name:    "invalid character",
			input:   "01a01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range All() {
		s := c.String()
		if len(s) != Bits {
			t.Fatalf("Code(%d).String() = %q, want %d characters", c, s, Bits)
		}
		back, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if back != c {
			t.Errorf("Parse(Code(%d).String()) = %v, want %v", c, back, c)
		}
	}
}

func TestHammingWeight(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{Truth, 0},
		{Lie, 5},
		{Code(0b00001), 1},
		{Code(0b10101), 3},
	}

	for _, tt := range tests {
		if got := tt.code.HammingWeight(); got != tt.want {
			t.Errorf("Code(%s).HammingWeight() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestFlip(t *testing.T) {
	// Flipping position p must change exactly the p-th character of the
	// string form and leave the other four untouched.
	c := Code(0b01001)
	for pos := 0; pos < Bits; pos++ {
		flipped := c.Flip(pos)
		orig, next := c.String(), flipped.String()
		for i := 0; i < Bits; i++ {
			if i == pos {
				if orig[i] == next[i] {
					t.Errorf("Flip(%d): bit %d unchanged (%q -> %q)", pos, i, orig, next)
				}
				continue
			}
			if orig[i] != next[i] {
				t.Errorf("Flip(%d): bit %d changed (%q -> %q)", pos, i, orig, next)
			}
		}
		if flipped.Flip(pos) != c {
			t.Errorf("Flip(%d) applied twice = %v, want %v", pos, flipped.Flip(pos), c)
		}
	}
}

func TestAll(t *testing.T) {
	codes := All()
	if len(codes) != Alphabet {
		t.Fatalf("All() returned %d codes, want %d", len(codes), Alphabet)
	}
	seen := make(map[Code]bool, Alphabet)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("All() contains duplicate code %v", c)
		}
		seen[c] = true
	}
}
