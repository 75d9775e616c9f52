//go:build tinygo

// Firmware for the Raspberry Pi Pico board: a 4x4 keypad on GP10-GP13
// (drive) and GP6-GP9 (sense), a 20x2 LCD behind an I2C backpack on GP4/GP5,
// and the on-board LED as the busy light. LCD text is mirrored to UART0
// (GP0/GP1, 115200 baud).
//
// Hold the top-left key while powering up to run the keypad scan instead of
// a game.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/DrJosh9000/keychess/engine"
	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/board"
	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/lcd"
	"github.com/DrJosh9000/keychess/notation"
)

const (
	boardName = "pico"
	lcdWidth  = 20
	lcdHeight = 2
	depth     = 2
)

func main() {
	ctx := context.Background()

	// Give a serial monitor time to attach.
	time.Sleep(2 * time.Second)

	console := uartx.UART0
	if err := console.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	}); err != nil {
		println("uart:", err.Error())
	}

	preset, err := board.Lookup(boardName)
	if err != nil {
		halt("board", err)
	}

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: mustPin(preset.LCD.SDA),
		SCL: mustPin(preset.LCD.SCL),
	}); err != nil {
		halt("could not configure I2C", err)
	}
	display := &game.Mirror{
		Display: lcd.NewI2C(machine.I2C0, preset.LCD.I2CAddr, lcdWidth, lcdHeight),
		W:       console,
	}

	led := mustPin(preset.Indicator)
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	ind := ledIndicator{led}
	ind.Set(false)

	m := keypad.NewPinMatrix(mustPins(preset.Keypad.Drive), mustPins(preset.Keypad.Sense))
	sc, err := keypad.New(m, preset.Keypad.ScanConfig())
	if err != nil {
		halt("keypad", err)
	}

	if heldAtBoot(sc, keypad.Position{Row: 0, Col: 0}) {
		println("scan mode")
		if err := sc.WaitRelease(ctx); err != nil {
			halt("keypad", err)
		}
		halt("scan", game.ScanKeys(ctx, sc, display, 0))
	}

	loop := &game.Loop{
		Engine:    engine.Engine{},
		Display:   display,
		Input:     &game.KeypadInput{Scanner: sc, Layout: notation.DefaultLayout()},
		Depth:     depth,
		Indicator: ind,
	}
	t, err := loop.Run(ctx, game.NewTurn(engine.Start(), game.White))
	if err != nil {
		halt("game stopped", err)
	}
	println("game over:", t.Outcome.String(), "after", t.Ply, "moves")
	game.Blink(ctx, ind, 500*time.Millisecond)
}

func heldAtBoot(sc *keypad.Scanner, p keypad.Position) bool {
	st, err := sc.Poll()
	if err != nil {
		return false
	}
	for _, q := range st.Pressed() {
		if q == p {
			return true
		}
	}
	return false
}

// halt reports err forever.
func halt(msg string, err error) {
	for {
		if err != nil {
			println(msg+":", err.Error())
		} else {
			println(msg)
		}
		time.Sleep(5 * time.Second)
	}
}

type ledIndicator struct {
	pin machine.Pin
}

func (l ledIndicator) Set(on bool) error {
	l.pin.Set(on)
	return nil
}
