package engine

import (
	"testing"

	"github.com/lixenwraith/lightecho/port"
)

// scriptPort feeds a scripted series of input samples, one per read, with
// the final entry sticky, and records every output write.
type scriptPort struct {
	reads  []port.Pattern
	next   int
	writes []port.Pattern
}

func newScriptPort(reads ...port.Pattern) *scriptPort {
	return &scriptPort{reads: reads}
}

func (p *scriptPort) ReadInputs() port.Pattern {
	k := p.reads[p.next]
	if p.next < len(p.reads)-1 {
		p.next++
	}
	return k
}

func (p *scriptPort) WriteOutputs(out port.Pattern) {
	p.writes = append(p.writes, out)
}

// countSource counts how often the engine advances the entropy stream.
type countSource struct {
	calls int
}

func (s *countSource) Next() uint32 {
	s.calls++
	return uint32(s.calls)
}

func testTiming() Timing {
	return Timing{
		DelayIterations: 3,
		StandbyTimeout:  2,
		KeyTimeout:      20,
	}
}

// TestAwaitEqualsReturnsSatisfyingSample verifies the wait only returns a
// sample that satisfies its condition.
func TestAwaitEqualsReturnsSatisfyingSample(t *testing.T) {
	p := newScriptPort(
		port.SwitchPattern(port.Switch0),
		port.SwitchPattern(port.Switch0),
		port.AllReleased,
	)
	e := New(p, &countSource{}, testTiming(), nil)

	got := e.AwaitEquals(port.AllReleased)
	if got != port.AllReleased {
		t.Errorf("Expected %08b, got %08b", port.AllReleased, got)
	}
	if p.next != 2 {
		t.Errorf("Expected 3 samples consumed, got %d", p.next+1)
	}
}

// TestAwaitNotEqualsReturnsFirstDifferingSample verifies the press wait
// returns the pressed pattern itself.
func TestAwaitNotEqualsReturnsFirstDifferingSample(t *testing.T) {
	want := port.SwitchPattern(port.Switch2)
	p := newScriptPort(port.AllReleased, port.AllReleased, want)
	e := New(p, &countSource{}, testTiming(), nil)

	if got := e.AwaitNotEquals(port.AllReleased); got != want {
		t.Errorf("Expected %08b, got %08b", want, got)
	}
}

// TestDelayTickAdvancesEntropyPerIteration verifies the delay loop doubles
// as the entropy pump: one draw per sampling iteration.
func TestDelayTickAdvancesEntropyPerIteration(t *testing.T) {
	rng := &countSource{}
	e := New(newScriptPort(port.AllReleased), rng, testTiming(), nil)

	_, interrupted := e.DelayTick(false)
	if interrupted {
		t.Error("Expected non-interruptible tick to run to completion")
	}
	if rng.calls != 3 {
		t.Errorf("Expected 3 entropy draws, got %d", rng.calls)
	}
}

// TestDelayTickInterruptibleAbortsOnPress verifies an interruptible tick
// aborts the moment any switch is pressed and reports that sample.
func TestDelayTickInterruptibleAbortsOnPress(t *testing.T) {
	pressed := port.SwitchPattern(port.Switch3)
	p := newScriptPort(port.AllReleased, port.AllReleased, pressed)
	rng := &countSource{}
	timing := testTiming()
	timing.DelayIterations = 10
	e := New(p, rng, timing, nil)

	got, interrupted := e.DelayTick(true)
	if !interrupted {
		t.Fatal("Expected tick to be interrupted")
	}
	if got != pressed {
		t.Errorf("Expected %08b, got %08b", pressed, got)
	}
	// The aborting iteration never reaches the entropy draw.
	if rng.calls != 2 {
		t.Errorf("Expected 2 entropy draws before abort, got %d", rng.calls)
	}
}

// TestDelayTicksPropagatesInterrupt verifies the multi-tick delay stops at
// the first interrupted tick.
func TestDelayTicksPropagatesInterrupt(t *testing.T) {
	pressed := port.SwitchPattern(port.Switch1)
	// One full idle tick (3 samples), then a press in the second tick.
	p := newScriptPort(
		port.AllReleased, port.AllReleased, port.AllReleased,
		pressed,
	)
	e := New(p, &countSource{}, testTiming(), nil)

	got, interrupted := e.DelayTicks(5, true)
	if !interrupted {
		t.Fatal("Expected delay to be interrupted in second tick")
	}
	if got != pressed {
		t.Errorf("Expected %08b, got %08b", pressed, got)
	}
}

// TestAwaitAnyOfTimesOutWhenIdle verifies a fully idle countdown reports a
// timeout, rotates the waiting indicator one position per sub-step, and
// forces the outputs off at the end.
func TestAwaitAnyOfTimesOutWhenIdle(t *testing.T) {
	p := newScriptPort(port.AllReleased)
	e := New(p, &countSource{}, testTiming(), nil)

	_, timedOut := e.AwaitAnyOf(port.MaskModeKeys, true)
	if !timedOut {
		t.Fatal("Expected idle wait to time out")
	}

	// Initial blank + 2 countdown ticks of 4 animation frames + final blank.
	rotation := []port.Pattern{0b1111_1110, 0b1111_1101, 0b1111_1011, 0b1111_0111}
	want := []port.Pattern{port.AllReleased}
	for tick := 0; tick < 2; tick++ {
		want = append(want, rotation...)
	}
	want = append(want, port.AllReleased)

	if len(p.writes) != len(want) {
		t.Fatalf("Expected %d writes, got %d", len(want), len(p.writes))
	}
	for i, w := range want {
		if p.writes[i] != w {
			t.Errorf("Write %d: expected %08b, got %08b", i, w, p.writes[i])
		}
	}
}

// TestAwaitAnyOfSkipsAnimationWhenAsleep verifies the countdown stays dark
// when the game is already asleep.
func TestAwaitAnyOfSkipsAnimationWhenAsleep(t *testing.T) {
	p := newScriptPort(port.AllReleased)
	e := New(p, &countSource{}, testTiming(), nil)

	if _, timedOut := e.AwaitAnyOf(port.MaskModeKeys, false); !timedOut {
		t.Fatal("Expected idle wait to time out")
	}
	for i, w := range p.writes {
		if w != port.AllReleased {
			t.Errorf("Write %d: expected all-off while asleep, got %08b", i, w)
		}
	}
}

// TestAwaitAnyOfReturnsOnMaskedPress verifies a qualifying press ends the
// wait with that sample and no timeout.
func TestAwaitAnyOfReturnsOnMaskedPress(t *testing.T) {
	pressed := port.SwitchPattern(port.Switch1)
	p := newScriptPort(port.AllReleased, port.AllReleased, pressed)
	e := New(p, &countSource{}, testTiming(), nil)

	got, timedOut := e.AwaitAnyOf(port.MaskModeKeys, true)
	if timedOut {
		t.Fatal("Expected press to end the wait, got timeout")
	}
	if got != pressed {
		t.Errorf("Expected %08b, got %08b", pressed, got)
	}
	if last := p.writes[len(p.writes)-1]; last != port.AllReleased {
		t.Errorf("Expected outputs forced off after countdown, got %08b", last)
	}
}

// TestAwaitAnyOfIgnoresUnmaskedPress verifies a press outside the mask
// restarts the countdown instead of ending the wait.
func TestAwaitAnyOfIgnoresUnmaskedPress(t *testing.T) {
	outside := port.SwitchPattern(port.Switch3)
	inside := port.SwitchPattern(port.Switch0)
	p := newScriptPort(outside, port.AllReleased, inside)
	e := New(p, &countSource{}, testTiming(), nil)

	got, timedOut := e.AwaitAnyOf(port.MaskModeKeys, true)
	if timedOut {
		t.Fatal("Expected eventual qualifying press, got timeout")
	}
	if got != inside {
		t.Errorf("Expected %08b, got %08b", inside, got)
	}
}

// TestWaitForKeyMatch verifies the release-then-press protocol reports a
// match for the expected key.
func TestWaitForKeyMatch(t *testing.T) {
	target := port.SwitchPattern(port.Switch1)
	p := newScriptPort(
		port.SwitchPattern(port.Switch0), // leftover hold from last round
		port.AllReleased,                 // release observed
		port.AllReleased,
		target,
	)
	e := New(p, &countSource{}, testTiming(), nil)

	got, match := e.WaitForKey(target)
	if !match {
		t.Fatal("Expected matching key press")
	}
	if got != target {
		t.Errorf("Expected %08b, got %08b", target, got)
	}
}

// TestWaitForKeyMismatch verifies a wrong key reports the observed pattern
// and no match.
func TestWaitForKeyMismatch(t *testing.T) {
	wrong := port.SwitchPattern(port.Switch2)
	p := newScriptPort(port.AllReleased, wrong)
	e := New(p, &countSource{}, testTiming(), nil)

	got, match := e.WaitForKey(port.SwitchPattern(port.Switch1))
	if match {
		t.Fatal("Expected mismatch for wrong key")
	}
	if got != wrong {
		t.Errorf("Expected %08b, got %08b", wrong, got)
	}
}

// TestWaitForKeyTimeoutScoresMismatch verifies an exhausted key budget
// behaves exactly like a wrong answer: observed stays AllReleased.
func TestWaitForKeyTimeoutScoresMismatch(t *testing.T) {
	p := newScriptPort(port.AllReleased)
	e := New(p, &countSource{}, testTiming(), nil)

	got, match := e.WaitForKey(port.SwitchPattern(port.Switch0))
	if match {
		t.Fatal("Expected timeout to score as mismatch")
	}
	if got != port.AllReleased {
		t.Errorf("Expected AllReleased after timeout, got %08b", got)
	}
}

// TestStopUnblocksWaits verifies a closed stop channel unblocks every wait
// so the host can shut down.
func TestStopUnblocksWaits(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	p := newScriptPort(port.AllReleased)
	e := New(p, &countSource{}, testTiming(), stop)

	if !e.Stopped() {
		t.Fatal("Expected engine to report stopped")
	}

	// Condition can never be satisfied by the script; stop must unblock.
	e.AwaitEquals(0x00)
	e.AwaitNotEquals(port.AllReleased)

	if _, timedOut := e.AwaitAnyOf(port.MaskLevelKeys, false); !timedOut {
		t.Error("Expected stopped AwaitAnyOf to report timeout")
	}
	if _, match := e.WaitForKey(port.SwitchPattern(port.Switch0)); match {
		t.Error("Expected stopped WaitForKey to report mismatch")
	}
}
