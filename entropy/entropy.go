// Package entropy provides the pseudo-random source the game draws its
// sequences from.
package entropy

// Source yields pseudo-random values. Besides sequence generation, the
// timing engine advances the source once per delay iteration, so the
// stream position depends on how long the game has been running — a
// property kept from the reference hardware.
type Source interface {
	Next() uint32
}

// XorShift is a xorshift32 generator (Marsaglia, shifts 13/17/5). Plenty
// for gameplay, useless for anything security-sensitive.
type XorShift struct {
	state uint32
}

// NewSource returns a generator seeded with seed. Zero is remapped to a
// fixed non-zero constant since the all-zero state is a fixpoint.
func NewSource(seed uint32) *XorShift {
	if seed == 0 {
		seed = 0x2545f491
	}
	return &XorShift{state: seed}
}

// Next advances the generator and returns the next value. Never zero.
func (x *XorShift) Next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}
