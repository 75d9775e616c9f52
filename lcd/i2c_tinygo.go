//go:build tinygo

package lcd

import (
	"fmt"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// I2C is a character module behind a PCF8574 I2C backpack. Cursor positions
// count Columns cells per line, like HD44780.
type I2C struct {
	dev hd44780i2c.Device
}

// NewI2C configures the module at addr on bus.
func NewI2C(bus drivers.I2C, addr uint8, width, height uint8) *I2C {
	d := &I2C{dev: hd44780i2c.New(bus, addr)}
	d.dev.Configure(hd44780i2c.Config{Width: width, Height: height})
	return d
}

func (d *I2C) Clear() error {
	d.dev.ClearDisplay()
	return nil
}

func (d *I2C) WriteString(s string) error {
	d.dev.Print([]byte(s))
	return nil
}

func (d *I2C) SetCursor(pos uint8) error {
	if pos >= 2*Columns {
		return fmt.Errorf("lcd: cursor position %d out of range", pos)
	}
	d.dev.SetCursor(pos%Columns, pos/Columns)
	return nil
}
