// Package game owns the high-level flow of the light-sequence memory game:
// sleep detection, mode and level selection, sequence playback, player
// verification and the win/lose animations. It drives the indicators
// directly and leans on the timing engine for every input-dependent
// transition.
package game

import (
	"github.com/lixenwraith/lightecho/entropy"
	"github.com/lixenwraith/lightecho/parameter"
	"github.com/lixenwraith/lightecho/port"
)

// Mode is the per-round sound selection. Sound is selectable but reserved:
// the hardware this emulates never shipped audio.
type Mode int

const (
	ModeSound Mode = iota
	ModeMute
)

// Level is a difficulty tier indexing parameter.Lengths.
type Level int

// mockPattern lights the four game indicators for the losing flash,
// keeping the reference byte.
const mockPattern port.Pattern = 0xF0

// Driver is the slice of the timing/input engine the state machine uses.
type Driver interface {
	AwaitEquals(target port.Pattern) port.Pattern
	AwaitNotEquals(target port.Pattern) port.Pattern
	AwaitAnyOf(mask port.Pattern, animate bool) (port.Pattern, bool)
	WaitForKey(target port.Pattern) (port.Pattern, bool)
	DelayTicks(count int, interruptible bool) (port.Pattern, bool)
	Stopped() bool
}

// Game owns one player session. All round state lives here, none in
// package scope; everything is reset when a new round begins.
type Game struct {
	eng Driver
	out port.OutputWriter
	rng entropy.Source

	sleep bool
	mode  Mode
	level Level
	seq   Sequence
}

// New creates a game over a timing engine and an indicator bank. The game
// starts asleep; the first key press wakes it.
func New(eng Driver, out port.OutputWriter, rng entropy.Source) *Game {
	return &Game{eng: eng, out: out, rng: rng, sleep: true}
}

// Run blocks until the driver reports a stop. It waits for the first key
// press, then loops rounds forever: selection, play, celebrate or mock,
// release. A round abandoned by the idle timeout falls straight through to
// the next selection wait, asleep and dark.
func (g *Game) Run() {
	g.out.WriteOutputs(port.AllReleased)
	g.eng.AwaitNotEquals(port.AllReleased)

	for !g.eng.Stopped() {
		g.beginRound()
		if g.sleep {
			continue
		}
		if g.play() {
			g.celebrate()
		} else {
			g.mock()
		}
		// A held switch must not auto-trigger the next round.
		g.eng.AwaitEquals(port.AllReleased)
	}
}

// beginRound runs mode and level selection and generates the round's
// sequence. An idle timeout in either wait sets the sleep flag and
// abandons the round before any sequence exists.
func (g *Game) beginRound() {
	g.seq = Sequence{}

	// Mode: Switch0 = sound, Switch1 = mute. No animation while asleep.
	k, timedOut := g.eng.AwaitAnyOf(port.MaskModeKeys, !g.sleep)
	if timedOut {
		g.sleep = true
		return
	}
	g.sleep = false
	g.out.WriteOutputs(k)
	if k.IsPressed(port.Switch0) {
		g.mode = ModeSound
	} else {
		g.mode = ModeMute
	}
	g.eng.AwaitEquals(port.AllReleased)

	// Level: one switch selects one tier. Simultaneous presses decode to
	// nothing and are waited out instead of falling through as a tier.
	for {
		k, timedOut = g.eng.AwaitAnyOf(port.MaskLevelKeys, true)
		if timedOut {
			g.sleep = true
			return
		}
		sw, ok := port.DecodeSwitch(k)
		if !ok {
			g.eng.AwaitEquals(port.AllReleased)
			continue
		}
		g.out.WriteOutputs(k)
		g.level = Level(sw)
		break
	}
	rel := g.eng.AwaitEquals(port.AllReleased)
	g.out.WriteOutputs(rel)

	g.seq = GenerateSequence(g.rng, parameter.Lengths[g.level])
}

// play runs the escalating prefix rounds: replay symbols 1..i, then require
// the same prefix back, with i growing to the full sequence length. It
// returns true on a full win and false at the first wrong or absent press.
func (g *Game) play() bool {
	for i := 1; i <= g.seq.Len(); i++ {
		g.eng.DelayTicks(parameter.PrefixLeadTicks, false)
		for j := 0; j < i; j++ {
			g.out.WriteOutputs(port.SwitchPattern(g.seq.At(j)))
			g.eng.DelayTicks(parameter.SymbolOnTicks, false)
			g.out.WriteOutputs(port.AllReleased)
			g.eng.DelayTicks(parameter.SymbolOffTicks, false)
		}
		for j := 0; j < i; j++ {
			if !g.readKey(port.SwitchPattern(g.seq.At(j))) {
				return false
			}
		}
	}
	return true
}

// readKey waits for one verification press, mirrors whatever was pressed,
// and waits out the release. Display and correctness are decoupled: the
// player always sees the key they hit, right or wrong.
func (g *Game) readKey(target port.Pattern) bool {
	k, match := g.eng.WaitForKey(target)
	g.out.WriteOutputs(k)
	rel := g.eng.AwaitEquals(port.AllReleased)
	g.out.WriteOutputs(rel)
	return match
}

// celebrate sweeps a double blink across the indicators, low to high,
// repeated a fixed number of times. Pure output, input-insensitive.
func (g *Game) celebrate() {
	for rep := 0; rep < parameter.CelebrateRepeats; rep++ {
		for sw := port.Switch0; sw < port.Switch(port.SwitchCount); sw++ {
			for b := 0; b < parameter.CelebrateBlinks; b++ {
				g.out.WriteOutputs(port.SwitchPattern(sw))
				g.eng.DelayTicks(1, false)
				g.out.WriteOutputs(port.AllReleased)
				g.eng.DelayTicks(1, false)
			}
		}
	}
}

// mock flashes the indicator bank at the loser.
func (g *Game) mock() {
	for i := 0; i < parameter.MockFlashes; i++ {
		g.out.WriteOutputs(mockPattern)
		g.eng.DelayTicks(1, false)
		g.out.WriteOutputs(port.AllReleased)
		g.eng.DelayTicks(1, false)
	}
}
