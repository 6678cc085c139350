package core

import (
	"strconv"
	"strings"
)

// Piles is an ordered pile configuration, one object count per pile.
type Piles []int

// DefaultPiles returns the classic starting configuration.
func DefaultPiles() Piles {
	return Piles{1, 3, 5, 7}
}

// Clone returns an independent snapshot of p.
func (p Piles) Clone() Piles {
	out := make(Piles, len(p))
	copy(out, p)
	return out
}

// Total returns the number of objects left on the board.
func (p Piles) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// IsEmpty reports whether every pile is zero.
func (p Piles) IsEmpty() bool {
	for _, n := range p {
		if n != 0 {
			return false
		}
	}
	return true
}

// Equal compares two configurations element-wise.
func (p Piles) Equal(other Piles) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Key encodes p as a comparable map key. Two configurations share a key iff
// they are Equal.
func (p Piles) Key() string {
	var sb strings.Builder
	for i, n := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

func (p Piles) String() string {
	return "[" + p.Key() + "]"
}

// Validate rejects negative pile counts.
func (p Piles) Validate() error {
	for _, n := range p {
		if n < 0 {
			return ErrNegativePile
		}
	}
	return nil
}
