package game

import (
	"github.com/lixenwraith/lightecho/entropy"
	"github.com/lixenwraith/lightecho/parameter"
	"github.com/lixenwraith/lightecho/port"
)

// Sequence is one round's symbol string, packed two bits per symbol with a
// separate length. Generated once per round and never mutated afterwards.
type Sequence struct {
	bits   uint32
	length int
}

// GenerateSequence draws length symbols from src, one fresh draw per
// symbol. The reference hardware reused the bit-slices of a single draw
// for the whole round; fresh draws keep the symbols independent (see
// DESIGN.md for the trade-off).
func GenerateSequence(src entropy.Source, length int) Sequence {
	if length > parameter.MaxSequenceLength {
		length = parameter.MaxSequenceLength
	}
	var bits uint32
	for i := 0; i < length; i++ {
		bits |= (src.Next() & 0b11) << (2 * i)
	}
	return Sequence{bits: bits, length: length}
}

// Len returns the number of symbols in the sequence.
func (s Sequence) Len() int {
	return s.length
}

// At returns symbol i as a switch index.
func (s Sequence) At(i int) port.Switch {
	return port.Switch(s.bits >> (2 * i) & 0b11)
}
