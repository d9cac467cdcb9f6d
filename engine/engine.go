// Package engine is the timing/input half of the game: it turns raw,
// continuously-changing switch samples into debounced waits, timeout
// counters and delay ticks for the state machine to compose.
//
// Everything is busy-polling on a single goroutine. "Failure" is always a
// boolean outcome (timed out, interrupted, mismatched), never an error:
// the switch bank cannot fail, it can only stay silent.
package engine

import (
	"time"

	"github.com/lixenwraith/lightecho/entropy"
	"github.com/lixenwraith/lightecho/parameter"
	"github.com/lixenwraith/lightecho/port"
)

// Timing bundles the polling budgets of one engine instance.
type Timing struct {
	// DelayIterations is the number of sampling iterations per delay tick.
	DelayIterations int

	// StandbyTimeout is the idle countdown length, in ticks of
	// parameter.StandbySubSteps sub-steps each.
	StandbyTimeout int

	// KeyTimeout is the sampling budget of WaitForKey.
	KeyTimeout int

	// PollInterval paces each sampling iteration. Zero keeps the raw spin
	// of the reference hardware; terminal hosts set it so one delay tick
	// spans a visible duration.
	PollInterval time.Duration
}

// ReferenceTiming returns the budgets of the original hardware build.
func ReferenceTiming() Timing {
	return Timing{
		DelayIterations: parameter.DelayIterations,
		StandbyTimeout:  parameter.StandbyTimeout,
		KeyTimeout:      parameter.KeyTimeout,
	}
}

// Engine polls a switch/indicator bank. The engine never writes outputs
// except during the standby countdown, whose waiting animation belongs to
// the countdown itself; all other display is the state machine's call.
type Engine struct {
	port   port.Port
	rng    entropy.Source
	timing Timing
	stop   <-chan struct{}
}

// New creates an engine over a switch/indicator bank. stop may be nil for
// hosts without a shutdown path; once it closes every wait unblocks.
func New(p port.Port, rng entropy.Source, timing Timing, stop <-chan struct{}) *Engine {
	return &Engine{port: p, rng: rng, timing: timing, stop: stop}
}

// Stopped reports whether the stop channel has closed.
func (e *Engine) Stopped() bool {
	if e.stop == nil {
		return false
	}
	select {
	case <-e.stop:
		return true
	default:
		return false
	}
}

// Sample reads one instantaneous switch pattern. No debouncing.
func (e *Engine) Sample() port.Pattern {
	return e.port.ReadInputs()
}

func (e *Engine) pace() {
	if e.timing.PollInterval > 0 {
		time.Sleep(e.timing.PollInterval)
	}
}

// AwaitEquals blocks until a sample equals target and returns that sample,
// so the returned state satisfies the wait condition at the moment of
// return. Used with port.AllReleased to require a full release.
func (e *Engine) AwaitEquals(target port.Pattern) port.Pattern {
	for {
		k := e.Sample()
		if k == target || e.Stopped() {
			return k
		}
		e.pace()
	}
}

// AwaitNotEquals blocks until a sample differs from target. Used with
// port.AllReleased to require at least one switch pressed.
func (e *Engine) AwaitNotEquals(target port.Pattern) port.Pattern {
	for {
		k := e.Sample()
		if k != target || e.Stopped() {
			return k
		}
		e.pace()
	}
}

// DelayTick spins for one delay tick, re-sampling on every iteration. The
// entropy source is advanced once per iteration, so the stream position
// depends on elapsed ticks — kept from the reference hardware, where the
// delay loop doubled as the entropy pump. When interruptible, any pressed
// switch aborts the tick immediately with that sample.
func (e *Engine) DelayTick(interruptible bool) (port.Pattern, bool) {
	k := port.AllReleased
	for i := 0; i < e.timing.DelayIterations; i++ {
		k = e.Sample()
		if interruptible && k.Pressed() {
			return k, true
		}
		e.rng.Next()
		if e.Stopped() {
			return k, false
		}
		e.pace()
	}
	return k, false
}

// DelayTicks runs count delay ticks, propagating the first interruption.
func (e *Engine) DelayTicks(count int, interruptible bool) (port.Pattern, bool) {
	k := port.AllReleased
	for i := 0; i < count; i++ {
		var interrupted bool
		if k, interrupted = e.DelayTick(interruptible); interrupted {
			return k, true
		}
		if e.Stopped() {
			return k, false
		}
	}
	return k, false
}

// standby runs one full idle countdown. It reports timed out only when the
// whole countdown expired without a press; any press ends it early with
// that sample. Outputs are forced all-off on both exits. When animate is
// set, a single lit indicator rotates across the bank one position per
// sub-step while counting down.
func (e *Engine) standby(animate bool) (port.Pattern, bool) {
	e.port.WriteOutputs(port.AllReleased)
	for count := 0; count < e.timing.StandbyTimeout; count++ {
		leds := port.SwitchPattern(port.Switch0)
		for i := 0; i < parameter.StandbySubSteps; i++ {
			if animate {
				e.port.WriteOutputs(leds)
			}
			if k, interrupted := e.DelayTick(true); interrupted {
				e.port.WriteOutputs(port.AllReleased)
				return k, false
			}
			leds = leds<<1 | 1
		}
		if e.Stopped() {
			break
		}
	}
	e.port.WriteOutputs(port.AllReleased)
	return port.AllReleased, true
}

// AwaitAnyOf blocks until a sample presses at least one switch in mask, or
// an idle countdown expires with no press at all (timed out). A press
// outside mask restarts the countdown; mirroring such presses is left to
// the state machine.
func (e *Engine) AwaitAnyOf(mask port.Pattern, animate bool) (port.Pattern, bool) {
	for {
		k, timedOut := e.standby(animate)
		if timedOut {
			return k, true
		}
		if k.AnyOf(mask) {
			return k, false
		}
		if e.Stopped() {
			return k, true
		}
		e.pace()
	}
}

// WaitForKey requires a full release, then polls for the next press within
// the key timeout budget. Exhausting the budget leaves the observed
// pattern at AllReleased, which can never match a key, so silence scores
// as a wrong answer. The caller mirrors the observed pattern and handles
// the trailing release itself.
func (e *Engine) WaitForKey(target port.Pattern) (port.Pattern, bool) {
	e.AwaitEquals(port.AllReleased)
	k := port.AllReleased
	for count := 0; count <= e.timing.KeyTimeout; count++ {
		k = e.Sample()
		if k.Pressed() || e.Stopped() {
			break
		}
		e.pace()
	}
	return k, k == target
}
