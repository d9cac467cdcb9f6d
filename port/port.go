// Package port defines the bit-pattern data model shared by the switch and
// indicator banks, and the interfaces the game core uses to reach them.
//
// Everything is active-low, matching the hardware this emulates: a clear
// bit means "pressed" on the input side and "lit" on the output side, and
// the all-ones pattern means idle/dark. Four of the eight bits are
// meaningful.
package port

// Pattern is one sample of the switch bank or one frame of the indicator
// bank. Active-low.
type Pattern uint8

// AllReleased is the idle pattern: no switch pressed and, on the output
// side, no indicator lit.
const AllReleased Pattern = 0xFF

// SwitchCount is the number of meaningful switch/indicator lines.
const SwitchCount = 4

// Switch identifies one of the four switch/indicator lines. Switch i sits
// under indicator i.
type Switch int

const (
	Switch0 Switch = iota
	Switch1
	Switch2
	Switch3
)

// Selection wait masks. A mask bit set means the corresponding switch
// qualifies for the wait.
const (
	// MaskModeKeys covers Switch0 (sound) and Switch1 (mute).
	MaskModeKeys Pattern = 0b0000_0011

	// MaskLevelKeys covers all four level switches.
	MaskLevelKeys Pattern = 0b0000_1111
)

// SwitchPattern encodes a single switch as an active-low pattern: the
// switch's bit cleared, every other bit set.
func SwitchPattern(sw Switch) Pattern {
	return ^(Pattern(1) << sw)
}

// DecodeSwitch maps a sample to the single switch it presses. ok is false
// for the idle pattern and for every simultaneous-press combination;
// callers treat no-match as "keep waiting" rather than acting on it.
func DecodeSwitch(p Pattern) (Switch, bool) {
	for sw := Switch0; sw < Switch(SwitchCount); sw++ {
		if p == SwitchPattern(sw) {
			return sw, true
		}
	}
	return 0, false
}

// Pressed reports whether the sample presses any switch at all.
func (p Pattern) Pressed() bool {
	return p != AllReleased
}

// AnyOf reports whether the sample presses at least one switch in mask.
func (p Pattern) AnyOf(mask Pattern) bool {
	return ^p&mask != 0
}

// IsPressed reports whether the sample presses sw.
func (p Pattern) IsPressed(sw Switch) bool {
	return p&(Pattern(1)<<sw) == 0
}

// InputReader is the switch-bank half of the hardware boundary. Reads
// cannot fail; the source always yields a valid byte, and "no input" is
// just AllReleased.
type InputReader interface {
	ReadInputs() Pattern
}

// OutputWriter is the indicator-bank half of the hardware boundary.
type OutputWriter interface {
	WriteOutputs(Pattern)
}

// Port is a full switch/indicator bank.
type Port interface {
	InputReader
	OutputWriter
}
