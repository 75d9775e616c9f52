package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/internal/sim"
	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/lcd"
	"github.com/DrJosh9000/keychess/notation"
)

// rig is the board's peripherals, real or simulated.
type rig struct {
	scanner   *keypad.Scanner
	layout    notation.Layout
	display   game.Display
	indicator game.Indicator // nil if not wired
	counter   game.Counter   // nil if not wired

	run   func(context.Context) error // if set, runs alongside the command
	close func()
}

// openRig sets up the simulator with --sim, else the GPIO hardware
// described by cfg.
func openRig() (*rig, error) {
	layout, err := cfg.KeyLayout()
	if err != nil {
		return nil, err
	}
	if flagSim {
		return openSim(layout)
	}
	return openHardware(layout)
}

// input returns a KeypadInput reading from the rig's keypad.
func (r *rig) input() *game.KeypadInput {
	return &game.KeypadInput{
		Scanner:      r.scanner,
		Layout:       r.layout,
		AwaitRelease: cfg.AwaitRelease,
	}
}

// runWith calls fn with the rig running. If the rig's own loop ends first
// (the simulator was quit), fn's context is cancelled and the rig's error is
// returned.
func (r *rig) runWith(ctx context.Context, fn func(context.Context) error) error {
	if r.run == nil {
		return fn(ctx)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rigErr := make(chan error, 1)
	go func() {
		rigErr <- r.run(ctx)
		cancel()
	}()

	err := fn(ctx)
	cancel()
	rerr := <-rigErr
	if (err == nil || errors.Is(err, context.Canceled)) && rerr != nil && !errors.Is(rerr, context.Canceled) {
		return rerr
	}
	return err
}

func openSim(layout notation.Layout) (*rig, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s := sim.New(screen, layout)
	sc, err := keypad.New(s.Matrix, keypad.Config{
		Rows:         4,
		Cols:         4,
		PollInterval: cfg.Keypad.PollInterval,
	})
	if err != nil {
		screen.Fini()
		return nil, err
	}
	logger.Debug("simulator started")
	return &rig{
		scanner:   sc,
		layout:    layout,
		display:   s,
		indicator: s,
		counter:   s,
		run:       s.Run,
		close:     screen.Fini,
	}, nil
}

func openHardware(layout notation.Layout) (*rig, error) {
	if cfg.LCD.I2C() {
		return nil, fmt.Errorf("board %s has an I2C LCD, which only the firmware drives; try --sim", cfg.Board)
	}
	if _, err := host.Init(); err != nil {
		return nil, faults.PeripheralFault("init host", err)
	}

	m, err := keypad.PeriphMatrixByName(cfg.Keypad.Drive, cfg.Keypad.Sense)
	if err != nil {
		return nil, faults.PeripheralFault("keypad", err)
	}
	sc, err := keypad.New(m, cfg.Keypad.ScanConfig())
	if err != nil {
		return nil, err
	}

	h, err := openHD44780()
	if err != nil {
		return nil, err
	}
	r := &rig{
		scanner: sc,
		layout:  layout,
		display: h,
	}
	if flagMirror {
		r.display = &game.Mirror{Display: h, W: os.Stdout}
	}

	if cfg.Indicator != "" {
		p, err := pinByName(cfg.Indicator)
		if err != nil {
			return nil, err
		}
		ind := pinIndicator{p}
		if err := ind.Set(false); err != nil {
			return nil, faults.PeripheralFault("indicator", err)
		}
		r.indicator = ind
	}

	if cfg.Counter.Enabled() {
		c, err := openCounter()
		if err != nil {
			return nil, err
		}
		r.counter = c
	}

	r.close = func() {
		if err := h.Clear(); err != nil {
			logger.Warn("clearing LCD", "error", err)
		}
		if r.indicator != nil {
			r.indicator.Set(false)
		}
	}
	logger.Debug("hardware ready", "board", cfg.Board)
	return r, nil
}

func openHD44780() (*lcd.HD44780, error) {
	h := &lcd.HD44780{}
	var err error
	if h.RS, err = pinByName(cfg.LCD.RS); err != nil {
		return nil, err
	}
	if h.E, err = pinByName(cfg.LCD.E); err != nil {
		return nil, err
	}
	if cfg.LCD.RW != "" {
		if h.RW, err = pinByName(cfg.LCD.RW); err != nil {
			return nil, err
		}
	}
	for _, n := range cfg.LCD.Data {
		p, err := pinByName(n)
		if err != nil {
			return nil, err
		}
		h.Data = append(h.Data, p)
	}
	if err := h.Init(); err != nil {
		return nil, faults.DisplayFault("init lcd", err)
	}
	return h, nil
}

func openCounter() (*lcd.RS257543, error) {
	c := &lcd.RS257543{}
	var err error
	if c.LD, err = pinByName(cfg.Counter.LD); err != nil {
		return nil, err
	}
	if c.CLK, err = pinByName(cfg.Counter.CLK); err != nil {
		return nil, err
	}
	if c.DIN, err = pinByName(cfg.Counter.DIN); err != nil {
		return nil, err
	}
	if err := c.Clear(); err != nil {
		return nil, faults.PeripheralFault("init counter", err)
	}
	return c, nil
}

func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, faults.PeripheralFault("lookup pin", fmt.Errorf("no such pin %q", name))
	}
	return p, nil
}

// pinIndicator is a busy light on a GPIO pin, lit when high.
type pinIndicator struct {
	pin gpio.PinIO
}

func (i pinIndicator) Set(on bool) error {
	return i.pin.Out(gpio.Level(on))
}

// blinkPeriod is how fast the indicator blinks once a game is over.
const blinkPeriod = 500 * time.Millisecond
