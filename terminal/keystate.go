package terminal

import (
	"sync"
	"time"

	"github.com/lixenwraith/lightecho/port"
)

// keyState tracks the emulated momentary switches. Terminals deliver no
// key-up events, so each press holds its switch active for a fixed window,
// refreshed by the terminal's key repeat while the key stays down.
type keyState struct {
	mu     sync.Mutex
	hold   time.Duration
	expiry [port.SwitchCount]time.Time
}

func newKeyState(hold time.Duration) *keyState {
	return &keyState{hold: hold}
}

// press marks sw active until now + hold.
func (k *keyState) press(sw port.Switch, now time.Time) {
	k.mu.Lock()
	k.expiry[sw] = now.Add(k.hold)
	k.mu.Unlock()
}

// pattern assembles the active-low sample from the unexpired holds.
func (k *keyState) pattern(now time.Time) port.Pattern {
	p := port.AllReleased
	k.mu.Lock()
	for sw := port.Switch0; sw < port.Switch(port.SwitchCount); sw++ {
		if now.Before(k.expiry[sw]) {
			p &= port.SwitchPattern(sw)
		}
	}
	k.mu.Unlock()
	return p
}

// switchForKey maps the number row and the vi home row onto the switches.
func switchForKey(r rune) (port.Switch, bool) {
	switch r {
	case '1', 'h':
		return port.Switch0, true
	case '2', 'j':
		return port.Switch1, true
	case '3', 'k':
		return port.Switch2, true
	case '4', 'l':
		return port.Switch3, true
	}
	return 0, false
}
