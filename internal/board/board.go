// Package board describes how keypad chess boards are wired: which pins
// scan the keypad, drive the LCD and light the indicator. Pins are named as
// the host's GPIO registry names them.
package board

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/DrJosh9000/keychess/keypad"
)

// Keypad is the wiring of the key matrix. Drive lines are pulsed low one at
// a time; sense lines are pulled up and read. Transposed means the drive
// lines run along keypad columns rather than rows.
type Keypad struct {
	Drive        []string      `mapstructure:"drive"`
	Sense        []string      `mapstructure:"sense"`
	Transposed   bool          `mapstructure:"transposed"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	RowSettle    time.Duration `mapstructure:"row_settle"`
}

// ScanConfig returns the scanner configuration for this wiring.
func (k Keypad) ScanConfig() keypad.Config {
	c := keypad.Config{
		Rows:         len(k.Drive),
		Cols:         len(k.Sense),
		Transposed:   k.Transposed,
		PollInterval: k.PollInterval,
		RowSettle:    k.RowSettle,
	}
	if k.Transposed {
		c.Rows, c.Cols = c.Cols, c.Rows
	}
	return c
}

// LCD is the wiring of an HD44780 character module, either parallel (RS, E,
// optional RW, and 4 or 8 data pins) or behind an I2C backpack at I2CAddr.
type LCD struct {
	RS   string   `mapstructure:"rs"`
	RW   string   `mapstructure:"rw"`
	E    string   `mapstructure:"e"`
	Data []string `mapstructure:"data"`

	SDA     string `mapstructure:"sda"`
	SCL     string `mapstructure:"scl"`
	I2CAddr uint8  `mapstructure:"i2c_addr"`
}

// I2C reports whether the module is behind an I2C backpack.
func (l LCD) I2C() bool { return l.I2CAddr != 0 }

// Counter is the wiring of an optional RS 257-543 segment display.
type Counter struct {
	LD  string `mapstructure:"ld"`
	CLK string `mapstructure:"clk"`
	DIN string `mapstructure:"din"`
}

// Enabled reports whether a counter is wired.
func (c Counter) Enabled() bool { return c.LD != "" || c.CLK != "" || c.DIN != "" }

// Preset is a known board.
type Preset struct {
	Name        string
	Description string
	Keypad      Keypad
	LCD         LCD
	Indicator   string
	Counter     Counter
}

var presets = map[string]Preset{
	"tm4c123-launchpad": {
		Name:        "tm4c123-launchpad",
		Description: "TM4C123 LaunchPad: keypad rows on PE5 PE4 PB1 PB0, columns driven, 4-bit LCD on port C",
		Keypad: Keypad{
			Drive:      []string{"PB4", "PA5", "PA6", "PA7"},
			Sense:      []string{"PE5", "PE4", "PB1", "PB0"},
			Transposed: true,
		},
		LCD: LCD{
			RS:   "PA2",
			E:    "PD6",
			Data: []string{"PC7", "PC6", "PC5", "PC4"},
		},
		Indicator: "PF2",
	},
	"rpi-header": {
		Name:        "rpi-header",
		Description: "Raspberry Pi 40-pin header: keypad rows driven, 4-bit LCD, indicator on GPIO26",
		Keypad: Keypad{
			Drive:        []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"},
			Sense:        []string{"GPIO12", "GPIO16", "GPIO20", "GPIO21"},
			PollInterval: 5 * time.Millisecond,
			RowSettle:    10 * time.Microsecond,
		},
		LCD: LCD{
			RS:   "GPIO25",
			E:    "GPIO24",
			Data: []string{"GPIO23", "GPIO17", "GPIO18", "GPIO22"},
		},
		Indicator: "GPIO26",
	},
	"pico": {
		Name:        "pico",
		Description: "Raspberry Pi Pico (TinyGo firmware): keypad on GP10-GP13/GP6-GP9, I2C LCD on GP4/GP5",
		Keypad: Keypad{
			Drive:        []string{"GP10", "GP11", "GP12", "GP13"},
			Sense:        []string{"GP6", "GP7", "GP8", "GP9"},
			PollInterval: 2 * time.Millisecond,
		},
		LCD: LCD{
			SDA:     "GP4",
			SCL:     "GP5",
			I2CAddr: 0x27,
		},
		Indicator: "LED",
	},
}

// Default is the preset used when none is named.
const Default = "rpi-header"

// Lookup returns the named preset.
func Lookup(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown board %q (have %v)", name, Names())
	}
	p.Keypad.Drive = slices.Clone(p.Keypad.Drive)
	p.Keypad.Sense = slices.Clone(p.Keypad.Sense)
	p.LCD.Data = slices.Clone(p.LCD.Data)
	return p, nil
}

// Names lists the presets in order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
