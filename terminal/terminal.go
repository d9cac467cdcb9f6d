// Package terminal is a stand-in for the switch and indicator banks of the
// original hardware: keyboard keys emulate momentary switches, screen
// cells emulate the LEDs. It implements port.Port, so the game core never
// knows it is running against a terminal.
package terminal

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/lightecho/port"
)

const (
	lampRow    = 3
	lampOrigin = 4
	lampWidth  = 5
	lampGap    = 2
)

// lampStyles gives each indicator its own lit color, Simon-style.
var lampStyles = [port.SwitchCount]tcell.Style{
	tcell.StyleDefault.Background(tcell.ColorGreen),
	tcell.StyleDefault.Background(tcell.ColorRed),
	tcell.StyleDefault.Background(tcell.ColorYellow),
	tcell.StyleDefault.Background(tcell.ColorBlue),
}

var lampOffStyle = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)

// Sim is the simulated switch/indicator bank. Input state is fed by a
// tcell event goroutine; the game goroutine reads samples and writes
// indicator frames.
type Sim struct {
	screen tcell.Screen
	keys   *keyState

	drawMu sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

// New initializes the terminal and starts the input event loop. hold is
// how long a single key event keeps its switch pressed.
func New(hold time.Duration) (*Sim, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	s := &Sim{
		screen: screen,
		keys:   newKeyState(hold),
		stop:   make(chan struct{}),
	}
	s.drawLegend()
	s.drawLamps(port.AllReleased)
	go s.eventLoop()
	return s, nil
}

// Stop returns the channel that closes when the player quits with Esc or
// Ctrl-C. The game core has no shutdown path of its own; this is the
// host's.
func (s *Sim) Stop() <-chan struct{} {
	return s.stop
}

// Fini restores the terminal.
func (s *Sim) Fini() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.screen.Fini()
}

// ReadInputs assembles the current active-low switch sample.
func (s *Sim) ReadInputs() port.Pattern {
	return s.keys.pattern(time.Now())
}

// WriteOutputs redraws the indicator lamps for one active-low frame.
func (s *Sim) WriteOutputs(p port.Pattern) {
	s.drawMu.Lock()
	s.drawLamps(p)
	s.screen.Show()
	s.drawMu.Unlock()
}

func (s *Sim) eventLoop() {
	for {
		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				s.stopOnce.Do(func() { close(s.stop) })
				return
			}
			if sw, ok := switchForKey(ev.Rune()); ok {
				s.keys.press(sw, time.Now())
			}
		case *tcell.EventResize:
			s.drawMu.Lock()
			s.screen.Sync()
			s.drawLegend()
			s.screen.Show()
			s.drawMu.Unlock()
		case nil:
			// Screen finalized.
			return
		}
	}
}

func (s *Sim) drawLamps(p port.Pattern) {
	for sw := port.Switch0; sw < port.Switch(port.SwitchCount); sw++ {
		style := lampOffStyle
		if p.IsPressed(sw) {
			style = lampStyles[sw]
		}
		x0 := lampOrigin + int(sw)*(lampWidth+lampGap)
		for x := x0; x < x0+lampWidth; x++ {
			s.screen.SetContent(x, lampRow, ' ', nil, style)
			s.screen.SetContent(x, lampRow+1, ' ', nil, style)
		}
	}
}

func (s *Sim) drawLegend() {
	text := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	s.drawText(lampOrigin, 1, "lightecho — repeat the light sequence", text)
	for sw := port.Switch0; sw < port.Switch(port.SwitchCount); sw++ {
		x0 := lampOrigin + int(sw)*(lampWidth+lampGap)
		s.drawText(x0+2, lampRow+2, string(rune('1'+int(sw))), dim)
	}
	s.drawText(lampOrigin, lampRow+4, "press 1 (sound) or 2 (mute) to start", dim)
	s.drawText(lampOrigin, lampRow+5, "then 1-4 for level: 5, 7, 9 or 11 lights", dim)
	s.drawText(lampOrigin, lampRow+6, "keys 1-4 or h j k l, esc quits", dim)
}

func (s *Sim) drawText(x, y int, msg string, style tcell.Style) {
	for i, r := range msg {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

// EmergencyReset restores a sane terminal state on the crash path, when
// the tcell screen never gets a chance to finalize. Best-effort only.
func EmergencyReset(w io.Writer) {
	// Show cursor, leave the alternate screen, clear attributes, full reset.
	io.WriteString(w, "\x1b[?25h\x1b[?1049l\x1b[0m\x1bc")
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios.
	cmd := exec.Command("stty", "sane")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}
