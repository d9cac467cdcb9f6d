// Package parameter holds the tunable gameplay constants in one place.
package parameter

// Sampling budgets, in input-sample iterations. These mirror the Velleman
// MK112 emulation values; hosts with fast input sources scale real-time
// pacing through engine.Timing.PollInterval instead of changing these.
const (
	// DelayIterations is the number of input samples in one delay tick.
	DelayIterations = 300

	// StandbyTimeout is the number of idle countdown ticks, of
	// StandbySubSteps sub-steps each, before a selection wait gives up
	// and the game goes to sleep.
	StandbyTimeout = 20

	// StandbySubSteps is the number of animation sub-steps per countdown
	// tick; the waiting indicator rotates one position per sub-step.
	StandbySubSteps = 4

	// KeyTimeout is the sampling budget while waiting for a key during
	// verification. Exhausting it counts as a wrong answer.
	KeyTimeout = 1_000_000
)

// Playback pacing, in delay ticks.
const (
	// PrefixLeadTicks is the pause before each growing prefix replay.
	PrefixLeadTicks = 12

	// SymbolOnTicks is how long a symbol's indicator stays lit.
	SymbolOnTicks = 4

	// SymbolOffTicks is the dark gap after each symbol.
	SymbolOffTicks = 4
)

// Outcome animations.
const (
	// CelebrateRepeats is the number of full winning sweeps.
	CelebrateRepeats = 3

	// CelebrateBlinks is the blinks per indicator within one sweep.
	CelebrateBlinks = 2

	// MockFlashes is the number of on/off flashes after a loss.
	MockFlashes = 15
)

// Lengths maps level tier 0..3 to the round's sequence length.
var Lengths = [4]int{5, 7, 9, 11}

// MaxSequenceLength bounds Lengths: sequences pack two bits per symbol
// into a uint32.
const MaxSequenceLength = 15
