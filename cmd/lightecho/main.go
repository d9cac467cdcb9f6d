package main

import (
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/lightecho/engine"
	"github.com/lixenwraith/lightecho/entropy"
	"github.com/lixenwraith/lightecho/game"
	"github.com/lixenwraith/lightecho/terminal"
)

// Config tunes the simulator host through the environment. The gameplay
// budgets themselves live in the parameter package; these only adapt them
// to terminal pacing.
type Config struct {
	// Seed pins the entropy source for a reproducible session; zero draws
	// a fresh seed at startup.
	Seed uint32 `env:"LIGHTECHO_SEED" envDefault:"0"`

	// PollInterval paces each input sample. One delay tick spans
	// parameter.DelayIterations samples, so 1ms keeps a played symbol lit
	// for roughly 300ms.
	PollInterval time.Duration `env:"LIGHTECHO_POLL_INTERVAL" envDefault:"1ms"`

	// KeyTimeout overrides the verification budget, in samples. The
	// hardware reference value assumes raw spins; at terminal pacing it
	// would stretch to minutes.
	KeyTimeout int `env:"LIGHTECHO_KEY_TIMEOUT" envDefault:"8000"`

	// KeyHold is how long one key event keeps its switch pressed.
	KeyHold time.Duration `env:"LIGHTECHO_KEY_HOLD" envDefault:"250ms"`
}

var debugFlag = flag.Bool("debug", false, "enable debug logging to "+logDir+"/")

func main() {
	// Panic recovery: restore the terminal even if the game crashes.
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			// \r\n for raw mode compatibility.
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mLIGHTECHO CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse environment: %v\n", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = drawSeed()
	}
	log.Printf("seed=%d poll=%s keytimeout=%d hold=%s",
		seed, cfg.PollInterval, cfg.KeyTimeout, cfg.KeyHold)

	sim, err := terminal.New(cfg.KeyHold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer sim.Fini()

	timing := engine.ReferenceTiming()
	timing.PollInterval = cfg.PollInterval
	timing.KeyTimeout = cfg.KeyTimeout

	rng := entropy.NewSource(seed)
	eng := engine.New(sim, rng, timing, sim.Stop())
	g := game.New(eng, sim, rng)

	done := make(chan struct{})
	go func() {
		g.Run()
		close(done)
	}()

	<-sim.Stop()
	<-done
	log.Print("clean shutdown")
}

// drawSeed pulls a fresh seed from the OS entropy pool, falling back to
// the clock. The reference hardware had neither and replayed the same
// sequences on every power-on; pin LIGHTECHO_SEED to reproduce that.
func drawSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint32(b[:])
	}
	return uint32(time.Now().UnixNano())
}
